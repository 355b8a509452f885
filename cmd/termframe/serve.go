package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/termframe"
)

// NewServeCommand builds the console server command.
func NewServeCommand(loader *termframe.Loader) *cobra.Command {
	v := loader.Viper()
	var bindErr error

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the console server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if bindErr != nil {
				return bindErr
			}
			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			logger := pslog.Ctx(cmd.Context())
			if cfg.Server.LogFile != "" {
				fileLogger, closer, err := openLogger(cfg.Server.LogFile)
				if err != nil {
					return err
				}
				defer func() {
					_ = closer.Close()
				}()
				logger = fileLogger
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return termframe.Serve(ctx, termframe.ServeOptions{
				Config:  cfg,
				Logger:  logger.With("component", "serve"),
				Version: version,
			})
		},
	}

	flags := cmd.Flags()
	flags.String("listen", termframe.DefaultListenAddr, "listen address")
	flags.String("base", termframe.DefaultBasePath, "base path prefix for all HTTP routes")
	flags.String("users-file", termframe.DefaultUsersPath(), "path to users file")
	flags.String("log-file", "", "append logs to this file instead of stdout")
	flags.Bool("require-login", true, "require a username, password and TOTP code")
	flags.String("tls-cert", "", "TLS certificate file")
	flags.String("tls-key", "", "TLS private key file")
	flags.String("term", termframe.DefaultTerminalTerm, "terminal type assumed until the client identifies")
	flags.Int("cols", termframe.DefaultTerminalCols, "columns assumed until the client reports its size")
	flags.Int("rows", termframe.DefaultTerminalRows, "rows assumed until the client reports its size")
	flags.String("termcap-file", "", "capability source file (default: bundled)")
	flags.Int("scrollback", termframe.DefaultScrollback, "message log length per session")

	bind := func(key, name string) {
		if bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			bindErr = err
		}
	}

	bind("server.listen", "listen")
	bind("server.base", "base")
	bind("server.users_file", "users-file")
	bind("server.log_file", "log-file")
	bind("server.require_login", "require-login")
	bind("server.tls.cert_file", "tls-cert")
	bind("server.tls.key_file", "tls-key")
	bind("terminal.term", "term")
	bind("terminal.cols", "cols")
	bind("terminal.rows", "rows")
	bind("terminal.termcap_file", "termcap-file")
	bind("terminal.scrollback", "scrollback")

	return cmd
}
