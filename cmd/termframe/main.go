package main

import (
	"context"
	"fmt"
	"os"

	"pkt.systems/pslog"
	"pkt.systems/termframe"
)

// version is set at link time.
var version = "dev"

func main() {
	loader := termframe.NewLoader()
	root := NewRootCommand(loader)
	logger := pslog.LoggerFromEnv(pslog.WithEnvWriter(os.Stdout))
	root.SetContext(pslog.ContextWithLogger(context.Background(), logger))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
