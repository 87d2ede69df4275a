package main

import (
	"fmt"
	"os"

	"github.com/semantika/orgforge/cmd"
	"github.com/semantika/orgforge/internal/conf"
	"github.com/semantika/orgforge/internal/logging"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
