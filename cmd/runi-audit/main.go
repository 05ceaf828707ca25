package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/paulbreuler/runi-audit/internal/config"
)

var (
	flagConfig  string
	flagRoot    string
	flagOut     string
	flagCatalog string
	flagVerbose bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "runi-audit",
	Short: "Static audit pipeline for UI component libraries",
	Long: `runi-audit inspects a React/TypeScript component tree and reports on
motion quality, fixture coverage, design-principle compliance, performance
and accessibility patterns, material consistency, and library usage.

The full pipeline runs with "runi-audit run"; each stage can also run
standalone against the JSON artifacts in the output directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			color.NoColor = true
		}
	},
}

func main() {
	// A .env beside the invocation is optional.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to .runi-audit.yaml (default: look in working directory)")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Component tree root (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "", "Output directory for artifacts (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Path to a catalog.toml override")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}

// resolveSettings layers config sources and applies the persistent flags
// on top, so flags always win.
func resolveSettings() (config.Settings, error) {
	settings, err := config.Resolve(flagConfig)
	if err != nil {
		return settings, err
	}
	if flagRoot != "" {
		settings.Root = flagRoot
	}
	if flagOut != "" {
		settings.Out = flagOut
	}
	if flagCatalog != "" {
		settings.Catalog = flagCatalog
	}
	return settings, nil
}
