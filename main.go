package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/c14220110/clinic-appointments/config"
	"github.com/c14220110/clinic-appointments/internal/common/events"
	"github.com/c14220110/clinic-appointments/internal/common/middlewares"
	"github.com/c14220110/clinic-appointments/internal/routes"
	"github.com/c14220110/clinic-appointments/pkg/mq"
	"github.com/c14220110/clinic-appointments/pkg/storage"
	"github.com/c14220110/clinic-appointments/pkg/utils"
	"github.com/c14220110/clinic-appointments/ws"
)

func main() {
	cfg := config.LoadConfig()
	if !cfg.IsProduction() {
		log.SetLevel(log.DEBUG)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := newTokenIssuer(cfg)
	if err != nil {
		log.Fatal("failed to initialize tokens: ", err)
	}

	db, err := storage.Open(cfg)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer db.Close()

	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = storage.Bootstrap(bootCtx, db)
	cancel()
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}
	log.Info("database initialized")

	hub := ws.NewHub()
	go hub.Run(ctx)
	publishers := events.Fanout{hub}

	if cfg.AMQPURL != "" {
		pub, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("failed to connect to rabbitmq: ", err)
		}
		defer pub.Close()
		publishers = append(publishers, events.Queue{P: pub})
		log.Infof("publishing booking events to exchange %s", cfg.AMQPExchange)
	}

	limiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.AllowedOrigins()}))

	routes.Init(e, db, routes.Options{
		Tokens:       tokens,
		AuthRequired: cfg.AuthRequired,
		Limiter:      limiter,
		Hub:          hub,
		Events:       publishers,
		StaticDir:    cfg.StaticDir,
	})

	go func() {
		log.Infof("server listening on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped: ", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed: ", err)
	}
	log.Info("server stopped")
}

// newTokenIssuer uses JWT_SECRET_KEY. Outside production a random secret is
// generated when it is unset, so tokens do not survive a restart.
func newTokenIssuer(cfg *config.Config) (*utils.TokenIssuer, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, utils.ErrMissingSecret
		}
		var err error
		if secret, err = utils.RandomSecret(); err != nil {
			return nil, err
		}
		log.Warn("JWT_SECRET_KEY not set, using a random secret")
	}
	return utils.NewTokenIssuer(secret, time.Duration(cfg.JWTTTLHours)*time.Hour)
}
