package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/termframe"
)

// NewSessionsCommand builds the command listing a server's live sessions.
func NewSessionsCommand(loader *termframe.Loader) *cobra.Command {
	var endpoint string
	var caFile string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List live console sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpointValue := endpoint
			if !cmd.Flags().Changed("endpoint") {
				cfg, err := loader.Load()
				if err != nil {
					return err
				}
				endpointValue = endpointFor(cfg)
			}
			if endpointValue == "" {
				return fmt.Errorf("endpoint is required")
			}
			sessions, err := termframe.ListSessions(cmd.Context(), endpointValue, caFile)
			if err != nil {
				return err
			}
			return printJSON(cmd, sessions)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&endpoint, "endpoint", "e", "", "server base URL (default: derived from server.listen)")
	flags.StringVar(&caFile, "ca-file", "", "PEM bundle to trust for https endpoints")

	return cmd
}

// endpointFor derives the local server URL from the serve configuration.
func endpointFor(cfg termframe.Config) string {
	scheme := "http"
	if cfg.Server.TLS.Enabled() {
		scheme = "https"
	}
	base := cfg.Server.BasePath
	if base == "/" {
		base = ""
	}
	return scheme + "://" + cfg.Server.Listen + base
}
