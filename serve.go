package termframe

import (
	"context"
	"fmt"
	"net"

	"pkt.systems/pslog"
	"pkt.systems/termframe/internal/app"
	"pkt.systems/termframe/internal/auth"
	"pkt.systems/termframe/internal/hub"
	"pkt.systems/termframe/internal/server"
	"pkt.systems/termframe/internal/termcap"
	"pkt.systems/termframe/internal/transport"
)

const shutdownMessage = "Server shutting down."

// ServeOptions configures the console server run.
type ServeOptions struct {
	Config  Config
	Logger  pslog.Logger
	Version string
	// Listener is served instead of listening on Config.Server.Listen.
	Listener net.Listener
}

// Serve runs the console server until ctx is done. Live sessions are sent a
// goodbye before the listener drains.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}

	source, err := termcap.LoadSource(cfg.Terminal.TermcapFile)
	if err != nil {
		return err
	}
	if _, err := termcap.Load(source, cfg.Terminal.Term); err != nil {
		return fmt.Errorf("default terminal %q: %w", cfg.Terminal.Term, err)
	}

	users := auth.NewDirectory(nil)
	if cfg.Server.UsersFile != "" {
		users, err = auth.OpenDirectory(cfg.Server.UsersFile, logger.With("component", "users"))
		if err != nil {
			return err
		}
	}
	if cfg.Server.RequireLogin && users.Len() == 0 {
		logger.Warn("login required but no users exist; add one with `termframe users add`", "users_file", cfg.Server.UsersFile)
	}

	h := hub.New(logger)
	users.OnRevoke(func(revoked []auth.Revocation) {
		for _, r := range revoked {
			h.SignOut(r.Username, r.Message())
		}
	})
	if cfg.Server.UsersFile != "" {
		go users.Watch(ctx, auth.DefaultReloadInterval)
	}
	console := app.New(app.Config{
		Hub:          h,
		Auth:         users,
		RequireLogin: cfg.Server.RequireLogin,
		Scrollback:   cfg.Terminal.Scrollback,
		Version:      opts.Version,
		Logger:       logger,
	})
	endpoint := &transport.Endpoint{
		Hub:    h,
		Logger: logger.With("component", "ws"),
		Start:  console.Start,
		Source: source,
		Term:   cfg.Terminal.Term,
		Cols:   cfg.Terminal.Cols,
		Rows:   cfg.Terminal.Rows,
		RealIP: server.RealIP,
	}

	srv, err := server.New(server.Config{
		ListenAddr:     cfg.Server.Listen,
		BasePath:       cfg.Server.BasePath,
		CertFile:       cfg.Server.TLS.CertFile,
		KeyFile:        cfg.Server.TLS.KeyFile,
		Logger:         logger,
		MaxHeaderBytes: 1 << 20,
		OnShutdown: func() {
			h.CloseAll(shutdownMessage)
		},
	}, server.Routes(endpoint, h))
	if err != nil {
		return err
	}

	logger.Info("starting server",
		"listen", cfg.Server.Listen,
		"base", cfg.Server.BasePath,
		"term", cfg.Terminal.Term,
		"require_login", cfg.Server.RequireLogin,
	)
	if opts.Listener != nil {
		return srv.Serve(ctx, opts.Listener)
	}
	return srv.ListenAndServe(ctx)
}
