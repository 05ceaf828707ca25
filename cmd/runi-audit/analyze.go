package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/paulbreuler/runi-audit/internal/analyzer"
	"github.com/paulbreuler/runi-audit/internal/artifact"
	"github.com/paulbreuler/runi-audit/internal/catalog"
	"github.com/paulbreuler/runi-audit/internal/srccache"
	"github.com/paulbreuler/runi-audit/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analyzer standalone against the inventory artifact",
	Long: `Run a single analyzer (or all of them in dependency order) against a
previously written component-inventory.json.

A dependent analyzer reads its prerequisite's artifact from the output
directory; run the prerequisite first.

Examples:
  runi-audit analyze --domain motion
  runi-audit analyze --domain checklist   # needs fixture-coverage.json
  runi-audit analyze --domain all`,
	Run: func(cmd *cobra.Command, args []string) {
		domain, _ := cmd.Flags().GetString("domain")

		settings, err := resolveSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cat, err := catalog.Load(settings.Catalog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		store, err := artifact.NewStore(settings.Out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var inv types.Inventory
		if err := store.ReadJSON(artifact.InventoryFile, &inv); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (run \"runi-audit discover\" first)\n", err)
			os.Exit(1)
		}

		sources, err := srccache.New(settings.Root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		registry, err := analyzer.DefaultRegistry()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var selected []analyzer.Analyzer
		if domain == "all" {
			selected, err = registry.Resolve(registry.List())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		} else {
			a, ok := registry.Get(domain)
			if !ok {
				fmt.Fprintf(os.Stderr, "Error: unknown analyzer domain %q (known: %v)\n", domain, registry.List())
				os.Exit(1)
			}
			selected = []analyzer.Analyzer{a}
		}

		env := analyzer.NewEnv(cat, sources, store)
		env.Verbose = flagVerbose

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		for _, a := range selected {
			fmt.Printf("%s %s\n", cyan("▶"), a.Name())
			results, err := a.AnalyzeAll(inv, env)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			env.Record(a.Name(), results)

			name := artifact.DomainFiles[a.Name()]
			if err := store.WriteJSON(name, results); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("  %s %d result(s) → %s\n", green("✓"), len(results), store.Path(name))
		}
	},
}

func init() {
	analyzeCmd.Flags().StringP("domain", "d", "all", "Analyzer domain to run, or \"all\"")
	rootCmd.AddCommand(analyzeCmd)
}
