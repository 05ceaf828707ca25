package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/paulbreuler/runi-audit/internal/artifact"
	"github.com/paulbreuler/runi-audit/internal/audit"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full audit pipeline",
	Long: `Discover components, run every analyzer, extract issues, and write the
full report set to the output directory.

Examples:
  # Audit the tree in the current directory
  runi-audit run --root src/components

  # Gate a CI job on the overall score
  runi-audit run --root src/components --min-score 75 --ci`,
	Run: func(cmd *cobra.Command, args []string) {
		minScore, _ := cmd.Flags().GetFloat64("min-score")
		ci, _ := cmd.Flags().GetBool("ci")

		settings, err := resolveSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !cmd.Flags().Changed("min-score") && settings.MinScore > 0 {
			minScore = settings.MinScore
		}

		result, err := audit.Run(context.Background(), audit.Config{
			Root:        settings.Root,
			OutDir:      settings.Out,
			Include:     settings.Include,
			Exclude:     settings.Exclude,
			Analyzers:   settings.Analyzers,
			Concurrency: settings.Concurrency,
			CatalogPath: settings.Catalog,
			HistoryPath: settings.History,
			Verbose:     flagVerbose,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printRunSummary(result)

		if ci {
			status := "PASS"
			if minScore > 0 && result.Summary.OverallScore < minScore {
				status = "FAIL"
			}
			fmt.Printf("runi-audit score=%.2f grade=%s issues=%d status=%s\n",
				result.Summary.OverallScore, result.Summary.Grade, result.Summary.TotalIssues, status)
		}

		if minScore > 0 && result.Summary.OverallScore < minScore {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(os.Stderr, "%s overall score %.2f is below the minimum %.2f\n",
				red("✗"), result.Summary.OverallScore, minScore)
			os.Exit(2)
		}
	},
}

func printRunSummary(result *audit.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Audit Complete ==="))
	fmt.Printf("Components: %d\n", result.Summary.TotalComponents)
	fmt.Printf("Issues:     %d\n", result.Summary.TotalIssues)
	fmt.Printf("Score:      %.2f (%s)\n", result.Summary.OverallScore, result.Summary.Grade)

	for _, domain := range result.Skipped {
		fmt.Printf("%s analyzer %s was skipped\n", yellow("!"), domain)
	}

	if result.Trend != nil {
		fmt.Printf("Trend:      %s (%+.2f vs previous run)\n", result.Trend.Direction, result.Trend.Delta)
	}

	fmt.Printf("%s Report written to %s\n", green("✓"), result.Summary.OutputFiles[artifact.NarrativeFile])
}

func init() {
	runCmd.Flags().Float64("min-score", 0, "Exit with code 2 when the overall score is below this")
	runCmd.Flags().Bool("ci", false, "Print a single machine-readable result line")
	rootCmd.AddCommand(runCmd)
}
