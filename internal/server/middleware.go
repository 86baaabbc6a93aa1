package server

import (
	"net/http"

	"apimanager/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// setupMiddleware configures all middleware. Metrics wrap the request logger
// so the recorded status is the rendered one.
func (s *Server) setupMiddleware() {
	if s.metrics != nil {
		s.echo.Use(s.metrics.middleware())
	}

	s.echo.Use(logger.RequestLogger())

	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.Secure())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	if s.config.BodyLimit != "" {
		s.echo.Use(middleware.BodyLimit(s.config.BodyLimit))
	}
}
