package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

// ServerConfig holds listener settings
type ServerConfig struct {
	// Host is the host to bind to (default: "")
	Host string

	// Port is the port to listen on (default: $PORT or 8080)
	Port string

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a configuration with sensible defaults
func DefaultServerConfig() *ServerConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return &ServerConfig{
		Port:            port,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Addr returns host:port
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Server runs a handler on a WebServer until its context ends
type Server struct {
	web    WebServer
	config *ServerConfig
	logger *slog.Logger
}

// NewServer mounts h on web
func NewServer(web WebServer, h http.Handler, config *ServerConfig, logger *slog.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	web.Mount(h)
	return &Server{web: web, config: config, logger: logger}
}

// Run starts the server and blocks until ctx is done or the listener fails
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Addr()
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting server", "engine", s.web.Name(), "addr", addr)
		errCh <- s.web.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server failed: %w", s.web.Name(), err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", "engine", s.web.Name())
	stopCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.web.Stop(stopCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server failed: %w", s.web.Name(), err)
		}
	case <-stopCtx.Done():
		return fmt.Errorf("server forced to shutdown: %w", stopCtx.Err())
	}
	s.logger.Info("server shutdown complete", "engine", s.web.Name())
	return nil
}
