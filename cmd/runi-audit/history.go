package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/paulbreuler/runi-audit/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past audit runs and the score trend",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		settings, err := resolveSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		path := settings.History
		if path == "" {
			path = filepath.Join(settings.Out, "history.db")
		}
		if _, err := os.Stat(path); err != nil {
			fmt.Println("No audit runs recorded yet.")
			return
		}

		store, err := history.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()

		ctx := context.Background()
		entries, err := store.Recent(ctx, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			fmt.Println("No audit runs recorded yet.")
			return
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Audit History ==="))
		fmt.Printf("%-19s  %-10s  %6s  %6s  %9s  %5s\n",
			"TIMESTAMP", "RUN", "COMPS", "ISSUES", "SCORE", "GRADE")
		for _, e := range entries {
			runID := e.RunID
			if len(runID) > 8 {
				runID = runID[:8]
			}
			fmt.Printf("%-19s  %-10s  %6d  %6d  %9.2f  %5s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				runID,
				e.TotalComponents,
				e.TotalIssues,
				e.OverallScore,
				e.Grade)
		}
		fmt.Println()

		trend, ok, err := store.ComputeTrend(ctx)
		if err == nil && ok {
			fmt.Printf("Trend: %s (%+.2f vs previous run)\n", trend.Direction, trend.Delta)
		}
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
