package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shipnote/shipnote/internal/notes"
	"github.com/shipnote/shipnote/internal/render"
	"github.com/shipnote/shipnote/internal/review"
	"github.com/shipnote/shipnote/internal/types"
)

var (
	generateStart  string
	generateEnd    string
	generateDays   int
	generateFormat string
	generateOutput string
	generateReview bool
	generateNoLLM  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate release notes for a date range",
	Long: `Fetch activity from every configured source, categorize it, and render
release notes.

The window defaults to the last 7 days. With --start/--end both days are
included in full.

Example:
  shipnote generate                           # Last 7 days to stdout
  shipnote generate --days 14
  shipnote generate --start 2025-03-01 --end 2025-03-08
  shipnote generate --review --output notes.md
  shipnote generate --format html --output notes.html
  shipnote generate --no-llm                  # Force rule-based categorization`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg := loadConfig()
		if generateNoLLM {
			cfg.LLM.Enabled = false
		}

		window, err := resolveWindow()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		generator := notes.New(notes.Config{App: cfg})
		defer func() { _ = generator.Close() }()

		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s Generating release notes for %s\n", gray("→"), window)

		result, err := generator.GenerateReleaseNotes(ctx, window)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if generateReview {
			session, err := review.New(result)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			edited, err := session.Run(ctx)
			if errors.Is(err, review.ErrAborted) {
				yellow := color.New(color.FgYellow).SprintFunc()
				fmt.Fprintf(os.Stderr, "%s Review aborted, nothing written\n", yellow("✗"))
				return
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			result = edited
		}

		format := generateFormat
		if format == "" {
			format = cfg.Output.Format
		}
		output := generateOutput
		if output == "" {
			output = cfg.Output.Path
		}

		if err := render.Write(result, format, output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		meta := result.Metadata
		target := output
		if target == "" {
			target = "stdout"
		}
		fmt.Fprintf(os.Stderr, "%s %d entries to %s (%s, %d records, %dms)\n",
			green("✓"), result.Entries.Total(), target,
			meta.GenerationMethod, meta.SourceCounts.Total(), meta.AnalysisTimeMS)
	},
}

// resolveWindow turns the date flags into a generation window. Explicit
// dates cover both named days in full; otherwise the window is the last
// --days days ending now.
func resolveWindow() (types.DateRange, error) {
	if generateStart != "" || generateEnd != "" {
		if generateStart == "" || generateEnd == "" {
			return types.DateRange{}, fmt.Errorf("--start and --end must be used together")
		}
		start, err := time.Parse("2006-01-02", generateStart)
		if err != nil {
			return types.DateRange{}, fmt.Errorf("invalid --start date %q (want YYYY-MM-DD)", generateStart)
		}
		end, err := time.Parse("2006-01-02", generateEnd)
		if err != nil {
			return types.DateRange{}, fmt.Errorf("invalid --end date %q (want YYYY-MM-DD)", generateEnd)
		}
		return types.NewDateRange(start, end.AddDate(0, 0, 1).Add(-time.Second))
	}

	end := time.Now()
	return types.NewDateRange(end.AddDate(0, 0, -generateDays), end)
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateStart, "start", "", "Window start date (YYYY-MM-DD, inclusive)")
	generateCmd.Flags().StringVar(&generateEnd, "end", "", "Window end date (YYYY-MM-DD, inclusive)")
	generateCmd.Flags().IntVar(&generateDays, "days", 7, "Window length when --start/--end are not given")
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "Output format: markdown or html (default from config)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default from config, empty = stdout)")
	generateCmd.Flags().BoolVar(&generateReview, "review", false, "Review and edit entries interactively before writing")
	generateCmd.Flags().BoolVar(&generateNoLLM, "no-llm", false, "Skip the LLM and use rule-based categorization")
}
