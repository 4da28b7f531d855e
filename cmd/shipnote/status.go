package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shipnote/shipnote/internal/notes"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configured sources and analyzer status",
	Long:  `Display which activity sources are configured and whether the LLM analyzer is available.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		generator := notes.New(notes.Config{App: cfg})
		defer func() { _ = generator.Close() }()
		status := generator.ServiceStatus()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Shipnote Status ==="))

		fmt.Printf("%s\n", yellow("Sources:"))
		if cfg.Sources.GitHub.Token != "" {
			fmt.Printf("  %s github  %s/%s\n", green("●"), cfg.Sources.GitHub.Owner, cfg.Sources.GitHub.Repo)
		} else {
			fmt.Printf("  %s github  %s\n", gray("○"), gray("not configured"))
		}
		if cfg.Sources.Linear.APIKey != "" {
			fmt.Printf("  %s linear\n", green("●"))
		} else {
			fmt.Printf("  %s linear  %s\n", gray("○"), gray("not configured"))
		}
		if cfg.Sources.Slack.Token != "" {
			fmt.Printf("  %s slack   %d channels\n", green("●"), len(cfg.Sources.Slack.Channels))
		} else {
			fmt.Printf("  %s slack   %s\n", gray("○"), gray("not configured"))
		}
		fmt.Println()

		fmt.Printf("%s\n", yellow("LLM Analyzer:"))
		if status.LLMAnalyzer {
			fmt.Printf("  %s %s (%s)\n", green("✓"), status.LLMStatus.Model, status.LLMStatus.Provider)
		} else {
			fmt.Printf("  %s unavailable, release notes will be rule-based\n", gray("○"))
		}
		fmt.Println()

		fmt.Printf("%s\n", yellow("Run History:"))
		if cfg.History.Enabled {
			fmt.Printf("  %s %s\n", green("✓"), cfg.History.Path)
		} else {
			fmt.Printf("  %s disabled\n", gray("○"))
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
