package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shipnote/shipnote/internal/history"
	"github.com/shipnote/shipnote/internal/render"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded generation runs",
	Long: `List recorded generation runs, newest first. With a run ID, re-render
that run's release notes to stdout.

Example:
  shipnote history
  shipnote history --limit 50
  shipnote history 5f2b60f1-2c3a-4d63-9a41-7be2d8a41b11`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg := loadConfig()
		if !cfg.History.Enabled {
			fmt.Fprintf(os.Stderr, "Error: run history is disabled in the config\n")
			os.Exit(1)
		}

		store, err := history.New(cfg.History.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()

		if len(args) == 1 {
			run, err := store.GetRun(ctx, args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(render.Markdown(run.Result))
			return
		}

		runs, err := store.ListRuns(ctx, historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()

		if len(runs) == 0 {
			fmt.Printf("%s\n", gray("No recorded runs"))
			return
		}

		for _, run := range runs {
			icon := gray("○")
			if run.AIGenerated > 0 {
				icon = green("●")
			}
			fmt.Printf("%s %s  %s  %2d entries  %s  %s\n",
				icon,
				run.CreatedAt.Local().Format("2006-01-02 15:04"),
				run.Range,
				run.EntryCount,
				run.Method,
				gray(run.ID))
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
}
