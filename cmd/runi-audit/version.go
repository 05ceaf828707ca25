package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the runi-audit version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("runi-audit %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
