package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"apimanager/internal/config"
	"apimanager/internal/errors"
	"apimanager/internal/logger"
	"apimanager/internal/operations"

	"github.com/labstack/echo/v4"
)

// Server represents the main HTTP server
type Server struct {
	config     config.ServerConfig
	echo       *echo.Echo
	containers *operations.ContainerOperations
	repos      *operations.RepositoryOperations
	sanitizer  *errors.Sanitizer
	metrics    *metrics
	setupOnce  sync.Once
}

// New creates a server for the given configuration and operations
func New(cfg *config.Config, containers *operations.ContainerOperations, repos *operations.RepositoryOperations) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		config:     cfg.Server,
		echo:       e,
		containers: containers,
		repos:      repos,
		sanitizer:  errors.NewSanitizer(cfg.Repos.BasePath),
	}
	if cfg.Server.MetricsEnabled {
		s.metrics = newMetrics()
	}

	e.HTTPErrorHandler = s.errorHandler
	return s
}

// Handler returns the HTTP handler with middleware and routes installed
func (s *Server) Handler() http.Handler {
	s.setup()
	return s.echo
}

func (s *Server) setup() {
	s.setupOnce.Do(func() {
		s.setupMiddleware()
		s.setupRoutes()
	})
}

// Start starts the server and blocks until shutdown
func (s *Server) Start(ctx context.Context) error {
	s.setup()

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	logger.WithField("addr", addr).Info("Starting server")

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.echo,
		ReadTimeout:  s.config.ReadTimeout.Std(),
		WriteTimeout: s.config.WriteTimeout.Std(),
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout.Std())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// errorHandler renders every failure as {"error": "..."} with the status
// derived from the error's code.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := s.sanitizer.ToResponse(err)
	if code >= http.StatusInternalServerError {
		logger.GetLogger(c).WithError(err).Debug("Returning server error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		logger.GetLogger(c).WithError(err).Error("Failed to write error response")
	}
}

// operationContext detaches the delegated call from client disconnects and
// applies the configured operation timeout, if any.
func (s *Server) operationContext(c echo.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(c.Request().Context())
	if timeout := s.config.OperationTimeout.Std(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
