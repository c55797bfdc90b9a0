package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hausmeister/docs"
	"hausmeister/internal/app"
	"hausmeister/internal/config"
	handlers "hausmeister/internal/http/handler"
	"hausmeister/internal/http/middleware"
	"hausmeister/internal/logging"
	"hausmeister/internal/otel"
)

const shutdownTimeout = 15 * time.Second

// @title Hausmeister Document Intake API
// @version 1.0
// @description Receives invoices by email, extracts their data and queues uncertain documents for review.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error("tracing shutdown failed", "error", err)
		}
	}()

	core, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer core.Close()

	promMiddleware, err := middleware.NewPrometheusMiddleware(core.Registry)
	if err != nil {
		return err
	}

	srv := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: cfg.Env == "production",
	})

	srv.Use(middleware.CORS())
	srv.Use(middleware.RequestID())
	srv.Use(otelfiber.Middleware())
	srv.Use(middleware.Logger(log))
	srv.Use(promMiddleware.Handler())

	srv.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(core.Registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(srv, handlers.Dependencies{
		DB:        core.DB,
		Ingester:  core.Ingester,
		Documents: core.Documents,
		Questions: core.Questions,
		Referrals: core.Referrals,
		JWTSecret: cfg.Auth.JWTSecret,
		Logger:    log,
	})

	// Swagger UI with dynamic host and scheme
	srv.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "port", cfg.Port, "env", cfg.Env)
		errCh <- srv.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.ShutdownWithContext(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
