package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/clinic-appointments/internal/auth/models"
	"github.com/c14220110/clinic-appointments/internal/auth/services"
	"github.com/c14220110/clinic-appointments/pkg/apierror"
)

type AuthController struct {
	Service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{Service: service}
}

// Register handles POST /register.
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(apierror.MalformedBodyError.Code(), apierror.MalformedBodyError)
	}

	res, apierr := ac.Service.Register(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, res)
}

// Login handles POST /login.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(apierror.MalformedBodyError.Code(), apierror.MalformedBodyError)
	}

	res, apierr := ac.Service.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, res)
}
