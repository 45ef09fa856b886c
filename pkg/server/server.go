package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hostcheck/pkg/health"
	"hostcheck/pkg/log"
	"hostcheck/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout   = 10 * time.Second
	rateLimiterExpiry = 3 * time.Minute
	rateLimiterBurst  = 2
)

// HealthServer serves health check results over HTTP. Every request runs its own check.
type HealthServer struct {
	echo      *echo.Echo
	version   string
	checker   *health.Checker
	metrics   *metrics.Metrics
	rateLimit float64
}

// NewHealthServer creates a server; rateLimit is the allowed health requests per second
// per client, zero disables limiting.
func NewHealthServer(checker *health.Checker, m *metrics.Metrics, version string, rateLimit float64) *HealthServer {
	srv := &HealthServer{
		echo:      echo.New(),
		version:   version,
		checker:   checker,
		metrics:   m,
		rateLimit: rateLimit,
	}
	srv.setupRoutes()
	return srv
}

// ServeHTTP lets the server be driven directly, e.g. by httptest.
func (srv *HealthServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.echo.ServeHTTP(w, r)
}

// Start listens on addr until SIGINT or SIGTERM, then shuts down gracefully.
func (srv *HealthServer) Start(addr string) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info().
			Str("addr", addr).
			Str("version", srv.version).
			Msg("Starting health server")

		if err := srv.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("Server startup failed")
		return err
	case <-quit:
	}

	return srv.Shutdown()
}

// Shutdown stops accepting requests and waits for in-flight checks.
func (srv *HealthServer) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (srv *HealthServer) setupRoutes() {
	// Echo configuration
	srv.echo.HideBanner = true
	srv.echo.HidePort = true

	srv.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	srv.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("Request served")
			return nil
		},
	}))
	srv.echo.Use(middleware.Recover())

	var healthMiddleware []echo.MiddlewareFunc
	if srv.rateLimit > 0 {
		healthMiddleware = append(healthMiddleware, middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(srv.rateLimit),
				Burst:     rateLimiterBurst,
				ExpiresIn: rateLimiterExpiry,
			}),
		}))
	}

	// Setup routes
	srv.echo.GET("/health", srv.getHealth, healthMiddleware...)
	srv.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(srv.metrics.Registry(), promhttp.HandlerOpts{})))
	srv.echo.GET("/version", srv.getVersion)
}

func (srv *HealthServer) getVersion(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"version": srv.version,
	})
}
