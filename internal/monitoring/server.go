package monitoring

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ducminhle1904/perp-signal-bot/internal/storage"
)

// Server exposes health, metrics and the latest stored signal per symbol.
type Server struct {
	echo *echo.Echo
	sink storage.SignalSink
	port int
}

// NewServer builds the HTTP surface.
func NewServer(port int, sink storage.SignalSink, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, sink: sink, port: port}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/signals/:symbol", s.latestSignal)

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("http request failed")
			}
			return err
		}
	})

	return s
}

func (s *Server) latestSignal(c echo.Context) error {
	symbol := c.Param("symbol")
	output, err := s.sink.Latest(c.Request().Context(), symbol)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if output == nil {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no signal for %s", symbol))
	}
	return c.JSON(http.StatusOK, output)
}

// Start begins serving; it blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%d", s.port))
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
