package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	logger, level, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "jsontok: failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cmd := newRootCommand(logger, level)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		_ = logger.Sync()
		os.Exit(1)
	}
}
