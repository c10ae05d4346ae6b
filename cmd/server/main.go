package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/payment-relay/internal/adapters/liberanetix"
	"github.com/kevin07696/payment-relay/internal/config"
	paymentHandler "github.com/kevin07696/payment-relay/internal/handlers/payment"
	"github.com/kevin07696/payment-relay/internal/middleware"
	pkghttp "github.com/kevin07696/payment-relay/pkg/http"
	"github.com/kevin07696/payment-relay/pkg/observability"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	logger.Info("Starting payment relay",
		zap.String("gateway", cfg.Gateway.BaseURL),
	)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Gateway credentials are loaded once; a missing secret is fatal here,
	// never a per-request error.
	secretManager := initSecretManager(ctx, logger)
	creds := loadCredentials(ctx, secretManager, logger)

	gatewayHTTPClient := pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), cfg.Gateway.Timeout)
	acsHTTPClient := pkghttp.NewHTTPClient(pkghttp.ACSClientConfig(), cfg.Gateway.Timeout)
	gateway := liberanetix.NewClient(creds, cfg.Gateway, gatewayHTTPClient, acsHTTPClient, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
		middleware.TracingMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.ErrorHandlerMiddleware(logger),
	)

	handler := paymentHandler.NewHandler(gateway, logger)
	handler.Register(e.Group("/api"))

	healthChecker := observability.NewHealthChecker(cfg.Gateway.BaseURL)
	metricsServer := observability.StartMetricsServer(fmt.Sprintf("%d", cfg.Server.MetricsPort), healthChecker, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}

// initLogger builds the zap logger from config
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
