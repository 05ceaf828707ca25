package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paulbreuler/runi-audit/internal/artifact"
	"github.com/paulbreuler/runi-audit/internal/catalog"
	"github.com/paulbreuler/runi-audit/internal/history"
	"github.com/paulbreuler/runi-audit/internal/issue"
	"github.com/paulbreuler/runi-audit/internal/report"
	"github.com/paulbreuler/runi-audit/internal/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Synthesize the audit report from artifacts on disk",
	Long: `Rebuild audit-report.json, audit-report.md, and summary.json from the
artifacts already in the output directory. Every input is optional; an
absent artifact contributes an empty dataset.`,
	Run: func(cmd *cobra.Command, args []string) {
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
			if !errors.Is(err, artifact.ErrMissingArtifact) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			inv = nil
		}

		results := map[string][]types.AnalysisResult{}
		outputFiles := map[string]string{}
		for domain, name := range artifact.DomainFiles {
			var domainResults []types.AnalysisResult
			if err := store.ReadJSON(name, &domainResults); err != nil {
				if errors.Is(err, artifact.ErrMissingArtifact) {
					continue
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			results[domain] = domainResults
			outputFiles[name] = store.Path(name)
		}
		if store.Exists(artifact.InventoryFile) {
			outputFiles[artifact.InventoryFile] = store.Path(artifact.InventoryFile)
		}

		issues := issue.Extract(results, inv, cat)
		rep := report.Synthesize(inv, results, issues, report.Options{
			RunID:       uuid.NewString(),
			Root:        settings.Root,
			GeneratedAt: time.Now().UTC(),
		})

		if err := store.WriteJSON(artifact.ReportFile, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		outputFiles[artifact.ReportFile] = store.Path(artifact.ReportFile)

		if err := store.WriteText(artifact.NarrativeFile, report.RenderMarkdown(rep)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		outputFiles[artifact.NarrativeFile] = store.Path(artifact.NarrativeFile)

		outputFiles[artifact.SummaryFile] = store.Path(artifact.SummaryFile)
		summary := report.BuildRunSummary(rep, outputFiles)
		if err := store.WriteJSON(artifact.SummaryFile, summary); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Score %.2f (%s), %d issue(s) across %d component(s)\n",
			green("✓"), summary.OverallScore, summary.Grade, summary.TotalIssues, summary.TotalComponents)
		fmt.Printf("%s Report written to %s\n", green("✓"), store.Path(artifact.NarrativeFile))

		printTrendLine(settings.History, settings.Out)
	},
}

// printTrendLine shows the score movement when a previous run is recorded.
// History problems are not fatal for reporting.
func printTrendLine(historyPath, outDir string) {
	path := historyPath
	if path == "" {
		path = filepath.Join(outDir, "history.db")
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	store, err := history.Open(path)
	if err != nil {
		return
	}
	defer func() { _ = store.Close() }()

	trend, ok, err := store.ComputeTrend(context.Background())
	if err != nil || !ok {
		return
	}
	fmt.Printf("Trend: %s (%+.2f vs previous run)\n", trend.Direction, trend.Delta)
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
