package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/termframe"
)

// NewBootstrapCommand builds the bootstrap command.
func NewBootstrapCommand() *cobra.Command {
	var path string
	var withTLS bool
	var hostname string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Write a default termframe config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := pslog.Ctx(cmd.Context()).With("component", "bootstrap")
			cfg := termframe.DefaultConfig()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if withTLS {
				caFile, err := termframe.BootstrapTLS(&cfg, filepath.Join(filepath.Dir(path), "tls"), hostname, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ca: %s\n", caFile)
			}
			written, err := termframe.Bootstrap(path, cfg, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", written)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&path, "path", termframe.DefaultConfigPath(), "where to write the config")
	flags.BoolVar(&withTLS, "tls", false, "generate a local CA and server certificate next to the config")
	flags.StringVar(&hostname, "hostname", "", "hostname for the server certificate (default: localhost)")

	return cmd
}
