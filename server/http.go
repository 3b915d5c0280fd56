// Package server exposes the tool registry over HTTP and stdio
// transports.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	logcontext "github.com/skyquery/skyquery/context"
	"github.com/skyquery/skyquery/core"
	"github.com/skyquery/skyquery/log"
	"github.com/skyquery/skyquery/tools"
)

// toolError is the structured error payload returned to callers. A
// tool failure is data for the calling assistant, never a crash.
type toolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type toolResponse struct {
	Result interface{} `json:"result,omitempty"`
	Error  *toolError  `json:"error,omitempty"`
}

// HTTP serves the registry over REST.
type HTTP struct {
	echo     *echo.Echo
	registry *tools.Registry
	port     string
}

// NewHTTP builds the HTTP transport.
func NewHTTP(registry *tools.Registry, port string) *HTTP {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &HTTP{echo: e, registry: registry, port: port}
	e.GET("/status", s.handleStatus)
	e.POST("/tools/:name", s.handleTool)
	return s
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTP) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			log.Errorf(context.Background(), "server shutdown failed: %v", err)
		}
	}()

	log.Infof(ctx, "starting HTTP server on port %s", s.port)
	if err := s.echo.Start(":" + s.port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTP) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"tools":  s.registry.Names(),
	})
}

func (s *HTTP) handleTool(c echo.Context) error {
	name := c.Param("name")

	ctx := logcontext.WithRequestID(c.Request().Context(), logcontext.NewRequestID())

	if !s.registry.Has(name) {
		return c.JSON(http.StatusNotFound, toolResponse{
			Error: &toolError{Kind: "not_found", Message: "tool not found: " + name},
		})
	}

	args := map[string]interface{}{}
	if err := c.Bind(&args); err != nil {
		return c.JSON(http.StatusBadRequest, toolResponse{
			Error: &toolError{Kind: core.KindInvalidQuery.String(), Message: "request body must be a JSON object"},
		})
	}

	log.Infof(ctx, "executing tool %s", name)
	result, err := s.registry.Execute(ctx, name, args)
	if err != nil {
		log.Errorf(ctx, "tool %s failed: %v", name, err)
		kind := core.KindOf(err)
		return c.JSON(statusFor(kind), toolResponse{
			Error: &toolError{Kind: kind.String(), Message: err.Error()},
		})
	}
	return c.JSON(http.StatusOK, toolResponse{Result: result})
}

func statusFor(kind core.Kind) int {
	switch kind {
	case core.KindInvalidQuery:
		return http.StatusBadRequest
	case core.KindNoCandidates:
		return http.StatusNotFound
	case core.KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
