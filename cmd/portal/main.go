package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"docportal/internal/bootstrap"
	"docportal/internal/config"
	handlers "docportal/internal/http/handler"
	"docportal/internal/http/middleware"
	"docportal/internal/logger"
	"docportal/internal/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "docportal-portal", cfg.Tracing)
	if err != nil {
		logger.Log.Fatal("tracing_init_failed", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Migrate: true})
	if err != nil {
		logger.Log.Fatal("bootstrap_failed", zap.Error(err))
	}
	defer app.Close()

	if _, err := app.PurgeStaleTokens(ctx, cfg.Session.PurgeAfter); err != nil {
		logger.Log.Warn("token_purge_failed", zap.Error(err))
	}

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Log.Fatal("metrics_init_failed", zap.Error(err))
	}

	server := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    64 << 20,
	})

	server.Use(middleware.RequestID())
	server.Use(otelfiber.Middleware())
	server.Use(middleware.Logger(logger.Log))
	server.Use(promMW.Handler())
	server.Use(middleware.Session(middleware.SessionConfig{
		Secure: cfg.Session.Secure,
		MaxAge: cfg.Session.MaxAge,
	}))

	handlers.RegisterRoutes(server, handlers.Deps{
		DB:       app.DB,
		Sessions: app.Sessions,
		Teams:    app.Teams,
		Gatherer: prometheus.DefaultGatherer,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Log.Error("shutdown_failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Log.Info("portal_listening", zap.String("addr", addr))
	if err := server.Listen(addr); err != nil {
		logger.Log.Fatal("failed to start server", zap.Error(err))
	}
}
