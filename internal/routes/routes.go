package routes

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	authControllers "github.com/c14220110/clinic-appointments/internal/auth/controllers"
	authServices "github.com/c14220110/clinic-appointments/internal/auth/services"
	bookingControllers "github.com/c14220110/clinic-appointments/internal/booking/controllers"
	bookingServices "github.com/c14220110/clinic-appointments/internal/booking/services"
	"github.com/c14220110/clinic-appointments/internal/common/events"
	"github.com/c14220110/clinic-appointments/internal/common/middlewares"
	"github.com/c14220110/clinic-appointments/pkg/storage"
	"github.com/c14220110/clinic-appointments/pkg/utils"
	"github.com/c14220110/clinic-appointments/ws"
)

type Options struct {
	Tokens       *utils.TokenIssuer
	AuthRequired bool
	// Limiter guards register and login; nil disables it.
	Limiter *middlewares.RateLimiter
	// Hub serves /ws/appointments; nil disables the route.
	Hub    *ws.Hub
	Events events.Publisher
	// StaticDir holds the web client; empty disables static serving.
	StaticDir string
}

// Init registers every route on e.
func Init(e *echo.Echo, db *storage.DB, opts Options) {
	validate := utils.NewValidator()

	// services
	authService := authServices.NewAuthService(db, validate, opts.Tokens)
	bookingService := bookingServices.NewBookingService(db, validate, opts.Events)

	// controllers
	authController := authControllers.NewAuthController(authService)
	bookingController := bookingControllers.NewBookingController(bookingService)

	var authLimit []echo.MiddlewareFunc
	if opts.Limiter != nil {
		authLimit = append(authLimit, middlewares.RateLimit(opts.Limiter))
	}
	jwt := middlewares.JWTMiddleware(opts.Tokens, opts.AuthRequired)

	// auth, without JWT; /api/* are aliases
	for _, prefix := range []string{"", "/api"} {
		e.POST(prefix+"/register", authController.Register, authLimit...)
		e.POST(prefix+"/login", authController.Login, authLimit...)
	}

	api := e.Group("/api")
	api.GET("/doctors", bookingController.ListDoctors)
	api.GET("/doctors/:id", bookingController.GetDoctor)
	api.POST("/appointments", bookingController.CreateAppointment, jwt)
	api.GET("/user/appointments", bookingController.ListUserAppointments, jwt)

	if opts.Hub != nil {
		e.GET("/ws/appointments", ws.ServeWS(opts.Hub), jwt)
	}

	e.GET("/healthz", healthz(db))

	if opts.StaticDir != "" {
		e.Static("/", opts.StaticDir)
		e.File("/", filepath.Join(opts.StaticDir, "pages", "index.html"))
	}
}

func healthz(db *storage.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
