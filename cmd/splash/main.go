package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
)

// Version is set at build time via -ldflags
var Version = "dev"

// shutdownSignals cancel the command context
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(Version),
		fang.WithNotifySignal(shutdownSignals...),
	); err != nil {
		os.Exit(1)
	}
}
