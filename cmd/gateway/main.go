package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/cache"
	"github.com/zeventbooks/event-gateway/internal/config"
	"github.com/zeventbooks/event-gateway/internal/handler"
	"github.com/zeventbooks/event-gateway/internal/service"
	"github.com/zeventbooks/event-gateway/internal/sheets"
	"github.com/zeventbooks/event-gateway/internal/store"
	"github.com/zeventbooks/event-gateway/internal/telemetry"
)

const serviceName = "event-gateway"

func main() {
	// --- Environment & Configuration ---
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("configuration load failed", zap.Error(err))
	}

	// --- Structured Logger (teed into the status log ring) ---
	logBuffer := telemetry.NewLogBuffer(100)
	logger, err := telemetry.NewLogger(cfg.DebugLevel, logBuffer)
	if err != nil {
		zap.NewExample().Fatal("logger init failed", zap.Error(err))
	}
	defer logger.Sync()

	if cfg.AdminToken == "" && !cfg.IsDev() {
		logger.Warn("ADMIN_TOKEN is empty in a non-dev environment; admin routes are unprotected",
			zap.String("env", cfg.WorkerEnv))
	}

	// --- OpenTelemetry Tracer ---
	if cfg.OTLPEndpoint != "" {
		tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("failed to init OTel tracer", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
			logger.Info("OTel tracer initialized", zap.String("endpoint", cfg.OTLPEndpoint))
		}
	}

	// --- Spreadsheet Backend ---
	tokens := sheets.NewTokenSource(sheets.TokenConfig{
		ClientEmail:   cfg.GoogleClientEmail,
		PrivateKeyPEM: cfg.GooglePrivateKey,
		TokenEndpoint: cfg.TokenEndpoint,
	}, logger)
	client := sheets.New(sheets.Config{
		SpreadsheetID: cfg.SpreadsheetID,
		BaseURL:       cfg.SheetsBaseURL,
	}, tokens, logger)
	if !client.IsConfigured() {
		logger.Warn("spreadsheet backend is not configured; API reads will return NOT_CONFIGURED")
	}

	// --- Stores ---
	events := store.NewEventStore(client, logger)
	shortlinks := store.NewShortlinkStore(client)
	analytics := store.NewAnalyticsStore(client, cfg.AnalyticsEnv(), logger)

	// --- Optional Redis Read-Through ---
	eventCache := cache.New(cfg.RedisAddr, logger)
	if eventCache != nil {
		defer eventCache.Close()
		logger.Info("event cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	// --- Services ---
	eventSvc := service.NewEventService(events, cfg.BaseURL, logger)
	shortlinkSvc := service.NewShortlinkService(shortlinks, analytics, logger)
	analyticsSvc := service.NewAnalyticsService(analytics, logger)

	// --- HTTP Server (Echo) ---
	e := echo.New()
	e.HideBanner = true
	if cfg.OTLPEndpoint != "" {
		// OTel tracing middleware (must be first)
		e.Use(otelecho.Middleware(serviceName))
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("HTTP request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	api := handler.NewAPI(
		eventSvc, shortlinkSvc, analyticsSvc, client,
		eventCache, handler.NewShellRenderer(), logBuffer,
		cfg.AnalyticsEnv(), logger,
	)
	handler.NewRouter(api, cfg.AdminToken, logger).Register(e)

	go func() {
		logger.Info("event-gateway HTTP server listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failure", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	logger.Info("event-gateway stopped")
}
