// Package notes orchestrates release-notes generation: concurrent activity
// fetch, a single LLM categorization attempt, and rule-based fallback.
//
// The generator degrades instead of failing. A source that cannot be built
// or fetched empties its bucket, an analyzer that cannot be built leaves the
// generator rule-based, and a history store that cannot be opened is skipped.
// The only fatal generation error is an invalid date range.
package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shipnote/shipnote/internal/config"
	"github.com/shipnote/shipnote/internal/history"
	"github.com/shipnote/shipnote/internal/llm"
	"github.com/shipnote/shipnote/internal/rules"
	"github.com/shipnote/shipnote/internal/sources"
	"github.com/shipnote/shipnote/internal/types"
)

// Analyzer is the LLM categorization dependency. *llm.Analyzer implements
// it; tests substitute fakes.
type Analyzer interface {
	Analyze(ctx context.Context, activity []types.Activity) (*llm.Analysis, error)
	Status() types.LLMStatus
}

// Recorder persists completed runs. *history.Store implements it.
type Recorder interface {
	RecordRun(ctx context.Context, result *types.ReleaseNotesResult) (string, error)
}

// Config assembles a Generator. App drives construction of any dependency
// not injected directly; the injection fields exist for tests.
type Config struct {
	App *config.Config

	Sources  []sources.Source
	Analyzer Analyzer
	History  Recorder

	// Warnf receives degradation warnings. Defaults to stderr.
	Warnf func(format string, args ...any)
}

// Generator produces release notes from engineering activity.
type Generator struct {
	sources  []sources.Source
	analyzer Analyzer // nil when the LLM path is unavailable
	rules    *rules.Categorizer
	history  Recorder // nil when run history is disabled
	warnf    func(format string, args ...any)
}

// New assembles a generator. Construction never fails: a subsystem that
// cannot be initialized is disabled with a warning and generation proceeds
// without it.
func New(cfg Config) *Generator {
	warnf := cfg.Warnf
	if warnf == nil {
		warnf = func(format string, args ...any) { fmt.Fprintf(os.Stderr, format, args...) }
	}

	app := cfg.App
	if app == nil {
		app = config.Default()
	}

	g := &Generator{
		rules: rules.NewCategorizer(),
		warnf: warnf,
	}

	g.sources = cfg.Sources
	if g.sources == nil {
		g.sources = sources.Build(app.Sources)
	}

	g.analyzer = cfg.Analyzer
	if g.analyzer == nil {
		analyzer, err := llm.New(llm.Config{
			Enabled:   app.LLM.Enabled,
			Provider:  app.LLM.Provider,
			Model:     app.LLM.Model,
			APIKey:    app.LLM.APIKey,
			MaxTokens: app.LLM.MaxTokens,
		})
		switch {
		case err == nil:
			g.analyzer = analyzer
		case errors.Is(err, llm.ErrDisabled):
			// Disabled on purpose; nothing to warn about.
		default:
			warnf("Warning: failed to initialize LLM analyzer: %v (continuing with rule-based notes)\n", err)
		}
	}

	g.history = cfg.History
	if g.history == nil && app.History.Enabled {
		store, err := history.New(app.History.Path)
		if err != nil {
			warnf("Warning: failed to open run history: %v (continuing without history)\n", err)
		} else {
			g.history = store
		}
	}

	return g
}

// GenerateReleaseNotes produces categorized release notes for the window.
//
// Every source is fetched concurrently; a failed fetch empties that
// source's bucket and the run continues. When an analyzer is present it
// gets exactly one attempt: on success its output is adopted as-is
// (including empty categories), on failure the same raw activity goes
// through the rule-based path instead. An invalid window is the only error.
func (g *Generator) GenerateReleaseNotes(ctx context.Context, window types.DateRange) (*types.ReleaseNotesResult, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	activity, counts := g.fetchActivity(ctx, window)

	entries, meta := g.categorize(ctx, activity)
	meta.AnalysisTimeMS = time.Since(startTime).Milliseconds()
	meta.SourceCounts = counts

	result := &types.ReleaseNotesResult{
		Range:    window,
		Entries:  entries,
		Metadata: meta,
	}

	if g.history != nil {
		if _, err := g.history.RecordRun(ctx, result); err != nil {
			g.warnf("Warning: failed to record run: %v\n", err)
		}
	}

	return result, nil
}

// fetchActivity queries every source in parallel and concatenates results
// in source order, so output is deterministic no matter which fetch
// finishes first.
func (g *Generator) fetchActivity(ctx context.Context, window types.DateRange) ([]types.Activity, types.SourceCounts) {
	results := make([][]types.Activity, len(g.sources))

	var group errgroup.Group
	for i, src := range g.sources {
		i, src := i, src
		group.Go(func() error {
			items, err := src.Fetch(ctx, window)
			if err != nil {
				g.warnf("Warning: %v (continuing without %s)\n",
					&types.SourceFetchError{Source: src.Kind(), Err: err}, src.Name())
				return nil
			}
			results[i] = items
			return nil
		})
	}
	// Fetch failures degrade to empty buckets above, so Wait never errors.
	_ = group.Wait()

	var all []types.Activity
	var counts types.SourceCounts
	for i, src := range g.sources {
		switch src.Kind() {
		case types.SourceCode:
			counts.Code += len(results[i])
		case types.SourceIssues:
			counts.Issues += len(results[i])
		case types.SourceChat:
			counts.Chat += len(results[i])
		}
		all = append(all, results[i]...)
	}
	return all, counts
}

// categorize runs the single LLM attempt when an analyzer is present and
// falls back to rule-based categorization on any analysis error.
func (g *Generator) categorize(ctx context.Context, activity []types.Activity) (types.CategorizedChanges, types.GenerationMetadata) {
	if g.analyzer != nil {
		analysis, err := g.analyzer.Analyze(ctx, activity)
		if err == nil {
			// Adopt the LLM output as-is. Empty categories mean the model
			// judged nothing noteworthy, not that the rules should fill in.
			return analysis.Changes, types.GenerationMetadata{
				GenerationMethod: types.MethodLLMEnhanced,
				AIGenerated:      analysis.Changes.Total(),
				LLMProvider:      analysis.Provider,
				LLMModel:         analysis.Model,
			}
		}
		g.warnf("Warning: LLM analysis failed: %v (falling back to rule-based categorization)\n", err)
	}

	return g.rules.Categorize(activity), types.GenerationMetadata{
		GenerationMethod: types.MethodRuleBased,
	}
}

// ServiceStatus reports which subsystems this generator was built with. It
// reads construction state only and never calls a provider.
func (g *Generator) ServiceStatus() types.ServiceStatus {
	status := types.ServiceStatus{}
	if g.analyzer != nil {
		llmStatus := g.analyzer.Status()
		status.LLMAnalyzer = true
		status.LLMStatus = &llmStatus
	}
	return status
}

// Close releases resources held by optional subsystems.
func (g *Generator) Close() error {
	if closer, ok := g.history.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
