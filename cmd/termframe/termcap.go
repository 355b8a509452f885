package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"pkt.systems/prettyx"
	"pkt.systems/termframe"
	"pkt.systems/termframe/internal/termcap"
)

// NewTermcapCommand builds the capability inspection command.
func NewTermcapCommand(loader *termframe.Loader) *cobra.Command {
	var sourceFile string

	cmd := &cobra.Command{
		Use:   "termcap",
		Short: "Inspect terminal capabilities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&sourceFile, "termcap-file", "", "capability source file (default: configured or bundled)")

	source := func(cmd *cobra.Command) ([]byte, error) {
		path := sourceFile
		if !cmd.Flags().Changed("termcap-file") {
			cfg, err := loader.Load()
			if err != nil {
				return nil, err
			}
			path = cfg.Terminal.TermcapFile
		}
		return termcap.LoadSource(path)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List terminal types in the capability source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := source(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd, termcap.Names(src))
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <term>",
		Short: "Show the resolved capabilities of a terminal type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source(cmd)
			if err != nil {
				return err
			}
			tab, err := termcap.Load(src, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, tab.Capabilities())
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return prettyx.PrettyTo(cmd.OutOrStdout(), data, prettyx.DefaultOptions)
}
