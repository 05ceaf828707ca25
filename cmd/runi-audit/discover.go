package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/paulbreuler/runi-audit/internal/artifact"
	"github.com/paulbreuler/runi-audit/internal/discovery"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover components and write the inventory artifact",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := resolveSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		inv, err := discovery.Discover(settings.Root, discovery.Options{
			Include: settings.Include,
			Exclude: settings.Exclude,
			Verbose: flagVerbose,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		store, err := artifact.NewStore(settings.Out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.WriteJSON(artifact.InventoryFile, inv); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Discovered %d component(s) → %s\n", green("✓"), len(inv), store.Path(artifact.InventoryFile))
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
