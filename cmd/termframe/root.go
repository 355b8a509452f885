package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/termframe"
)

// NewRootCommand builds the root CLI command.
func NewRootCommand(loader *termframe.Loader) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "termframe",
		Short:         "Full-screen text consoles served over websockets",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if configFile != "" {
				loader.SetConfigFile(configFile)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCommand(loader))
	cmd.AddCommand(NewUsersCommand(loader))
	cmd.AddCommand(NewSessionsCommand(loader))
	cmd.AddCommand(NewTermcapCommand(loader))
	cmd.AddCommand(NewBootstrapCommand())

	return cmd
}
