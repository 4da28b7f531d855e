package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shipnote/shipnote/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a starter config file with every source stubbed out and the LLM
analyzer enabled.

Tokens can live in the config file or in the environment
(SHIPNOTE_GITHUB_TOKEN, SHIPNOTE_LINEAR_API_KEY, SHIPNOTE_SLACK_TOKEN,
ANTHROPIC_API_KEY or OPENAI_API_KEY).

Example:
  shipnote init
  shipnote init --config ./shipnote.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(cfgPath); err == nil {
			fmt.Fprintf(os.Stderr, "Error: config already exists at %s\n", cfgPath)
			os.Exit(1)
		}

		if err := config.SaveDefault(cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Wrote %s\n\n", green("✓"), cyan(cfgPath))
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("Fill in the sources you use (github, linear, slack)"))
		fmt.Printf("  %s\n", gray("export ANTHROPIC_API_KEY=...   # or disable llm in the config"))
		fmt.Printf("  %s\n", gray("shipnote generate --days 7"))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
