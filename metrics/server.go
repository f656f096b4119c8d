package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Config

	rec    *Recorder
	server *echo.Echo
}

func NewServer(c *Config, rec *Recorder) *Server {
	if c.Log {
		logger = slog.Default().With("t", "metrics")
	} else {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{Config: *c, rec: rec, server: echo.New()}

	s.server.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(rec.reg, promhttp.HandlerOpts{Registry: rec.reg})))
	s.server.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok\n")
	})

	// Prevent the banner from showing up in the log
	s.server.HideBanner = true
	s.server.HidePort = true

	return s
}

func (s *Server) String() string {
	return "metrics"
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.Port)
}

// Start serves in the background until Shutdown is called.
func (s *Server) Start() {
	logger.Debug("starting the metrics server", "address", s.Address())

	go func() {
		if err := s.server.Start(s.Address()); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("couldn't start the metrics server", "err", err)
		}
	}()
}

func (s *Server) Shutdown() error {
	logger.Debug("stopping the metrics server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
