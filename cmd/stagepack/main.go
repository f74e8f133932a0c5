package main

import (
	"fmt"
	"os"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
