package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/clinic-appointments/internal/booking/models"
	"github.com/c14220110/clinic-appointments/internal/booking/services"
	"github.com/c14220110/clinic-appointments/internal/common/middlewares"
	"github.com/c14220110/clinic-appointments/pkg/apierror"
)

type BookingController struct {
	Service *services.BookingService
}

func NewBookingController(service *services.BookingService) *BookingController {
	return &BookingController{Service: service}
}

// ListDoctors handles GET /api/doctors.
func (bc *BookingController) ListDoctors(c echo.Context) error {
	doctors, apierr := bc.Service.ListDoctors(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, doctors)
}

// GetDoctor handles GET /api/doctors/:id.
func (bc *BookingController) GetDoctor(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierr := apierror.NewInvalidParamTypeError("id", "integer")
		return c.JSON(apierr.Code(), apierr)
	}

	doctor, apierr := bc.Service.GetDoctor(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, doctor)
}

// CreateAppointment handles POST /api/appointments.
func (bc *BookingController) CreateAppointment(c echo.Context) error {
	var req models.CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(apierror.MalformedBodyError.Code(), apierror.MalformedBodyError)
	}
	if req.UserID != nil {
		if apierr := middlewares.AuthorizeUser(c, *req.UserID); apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
	}

	appt, apierr := bc.Service.CreateAppointment(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, models.AppointmentResponse{
		Message:     "Appointment created successfully!",
		Appointment: *appt,
	})
}

// ListUserAppointments handles GET /api/user/appointments?user_id=.
func (bc *BookingController) ListUserAppointments(c echo.Context) error {
	raw := c.QueryParam("user_id")
	if raw == "" {
		apierr := apierror.NewMissingParamError("user_id")
		return c.JSON(apierr.Code(), apierr)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		apierr := apierror.NewInvalidParamTypeError("user_id", "integer")
		return c.JSON(apierr.Code(), apierr)
	}
	if apierr := middlewares.AuthorizeUser(c, userID); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	list, apierr := bc.Service.ListUserAppointments(c.Request().Context(), userID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, list)
}
