package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shipnote/shipnote/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "shipnote",
	Short: "Generate release notes from engineering activity",
	Long: `Shipnote turns a window of engineering activity (commits, pull requests,
issues, chat) into categorized, publishable release notes.

Activity is fetched from GitHub, Linear, and Slack, then categorized by an
LLM when one is configured, with a deterministic rule-based fallback.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "Path to the config file")
}

// loadConfig loads the config file (or defaults when it does not exist)
// with environment overrides applied. Exits on malformed config.
func loadConfig() *config.Config {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
