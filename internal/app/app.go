// Package app is the console every session runs: a login frame, the main
// console frame and the help and about frames.
package app

import (
	"time"

	"pkt.systems/pslog"

	"pkt.systems/termframe/internal/auth"
	"pkt.systems/termframe/internal/hub"
	"pkt.systems/termframe/internal/session"
	"pkt.systems/termframe/internal/widget"
)

// Frame names registered on every session.
const (
	FrameLogin = "login"
	FrameMain  = "main"
	FrameHelp  = "help"
	FrameAbout = "about"
)

const maxLoginFailures = 3

// Config configures the console application.
type Config struct {
	Hub *hub.Hub
	// Auth validates logins. Nil with RequireLogin false admits guests.
	Auth         *auth.Directory
	RequireLogin bool
	Scrollback   int
	Version      string
	Logger       pslog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// App builds a console for each session.
type App struct {
	cfg    Config
	logger pslog.Logger
}

// New constructs an App.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Scrollback <= 0 {
		cfg.Scrollback = widget.DefaultScrollback
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &App{cfg: cfg, logger: logger.With("component", "app")}
}

// Start installs the console frames on ctrl. It matches
// transport.StartFunc.
func (a *App) Start(ctrl *session.Controller) error {
	c := &console{app: a, ctrl: ctrl}
	return ctrl.Do(c.install)
}
