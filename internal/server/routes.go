package server

import (
	"net/http"
	"net/url"

	"apimanager/internal/constants"
	"apimanager/internal/errors"
	"apimanager/internal/logger"
	"apimanager/internal/operations"

	"github.com/labstack/echo/v4"
)

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.handleHealth)

	if s.metrics != nil {
		s.echo.GET(metricsPath, echo.WrapHandler(s.metrics.handler()))
	}

	api := s.echo.Group(constants.APIPrefix)

	containers := api.Group("/containers")
	containers.GET("", s.handleListContainers)
	containers.POST("/:id/start", s.handleStartContainer)
	containers.POST("/:id/stop", s.handleStopContainer)
	containers.GET("/:id/logs", s.handleGetContainerLogs)

	git := api.Group("/git")
	git.POST("/clone", s.handleCloneRepository)
	git.GET("/status/:folderName", s.handleRepositoryStatus)
	git.POST("/pull/:folderName", s.handlePullRepository)
}

// pathParam returns the decoded value of a path parameter. Echo routes on
// the raw path only when the request carried escapes that do not round-trip
// (such as %2F); only then is the param still encoded. Encoded separators
// reach the resolver as real separators.
func pathParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return value, nil
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", errors.Wrap(errors.ErrBadRequest, "Invalid path parameter", err)
	}
	return decoded, nil
}

// handleHealth answers liveness checks without touching Docker or git
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: constants.ServiceName,
	})
}

// handleListContainers returns every container known to the runtime
func (s *Server) handleListContainers(c echo.Context) error {
	ctx, cancel := s.operationContext(c)
	defer cancel()

	containers, err := s.containers.ListContainers(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, containers)
}

func (s *Server) handleStartContainer(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := s.operationContext(c)
	defer cancel()

	if err := s.containers.StartContainer(ctx, id); err != nil {
		return err
	}

	logger.GetLogger(c).WithField("container", id).Info("Container started")
	return c.JSON(http.StatusOK, MessageResponse{Message: MsgContainerStarted})
}

func (s *Server) handleStopContainer(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := s.operationContext(c)
	defer cancel()

	if err := s.containers.StopContainer(ctx, id); err != nil {
		return err
	}

	logger.GetLogger(c).WithField("container", id).Info("Container stopped")
	return c.JSON(http.StatusOK, MessageResponse{Message: MsgContainerStopped})
}

// handleGetContainerLogs returns the log tail as plain text
func (s *Server) handleGetContainerLogs(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := s.operationContext(c)
	defer cancel()

	logs, err := s.containers.FetchLogs(ctx, id)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, logs)
}

func (s *Server) handleCloneRepository(c echo.Context) error {
	var req operations.CloneRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(err)
	}

	ctx, cancel := s.operationContext(c)
	defer cancel()

	path, err := s.repos.CloneRepo(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CloneResponse{
		Message: MsgCloned,
		Path:    path,
	})
}

func (s *Server) handleRepositoryStatus(c echo.Context) error {
	folder, err := pathParam(c, "folderName")
	if err != nil {
		return err
	}

	ctx, cancel := s.operationContext(c)
	defer cancel()

	report, err := s.repos.GetStatus(ctx, folder)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handlePullRepository(c echo.Context) error {
	folder, err := pathParam(c, "folderName")
	if err != nil {
		return err
	}

	ctx, cancel := s.operationContext(c)
	defer cancel()

	if err := s.repos.Pull(ctx, folder); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: MsgPulled})
}
