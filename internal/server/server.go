// Package server hosts the console websocket endpoint and its HTTP
// surroundings.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"pkt.systems/pslog"
)

const shutdownTimeout = 10 * time.Second

// Config configures the HTTP server.
type Config struct {
	ListenAddr string
	BasePath   string
	CertFile   string
	KeyFile    string
	Logger     pslog.Logger

	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// OnShutdown runs before the listener is drained.
	OnShutdown func()
}

// Server is a configured HTTP server.
type Server struct {
	srv        *http.Server
	cfg        Config
	logger     pslog.Logger
	onShutdown func()
}

// New constructs a Server. handler is mounted under cfg.BasePath and wrapped
// with the access log.
func New(cfg Config, handler http.Handler) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	base, err := NormalizeBasePath(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 2 * time.Minute
	}
	return &Server{
		cfg:        cfg,
		logger:     logger,
		onShutdown: cfg.OnShutdown,
		srv: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           AccessLog(logger, WrapBasePath(base, handler)),
			ErrorLog:          pslog.LogLogger(logger),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
			BaseContext: func(net.Listener) context.Context {
				return pslog.ContextWithLogger(context.Background(), logger)
			},
		},
	}, nil
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.cfg.CertFile != "" {
			err = s.srv.ServeTLS(ln, s.cfg.CertFile, s.cfg.KeyFile)
		} else {
			err = s.srv.Serve(ln)
		}
		errCh <- err
	}()
	s.logger.Info("server listening", "addr", ln.Addr().String(), "tls", s.cfg.CertFile != "")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	if s.onShutdown != nil {
		s.onShutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
