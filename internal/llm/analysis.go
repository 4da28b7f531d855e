package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shipnote/shipnote/internal/cost"
	"github.com/shipnote/shipnote/internal/types"
)

// Analysis is one successful categorization pass plus its call metadata.
// Empty Changes are a legitimate outcome: the model judged nothing
// user-visible shipped, and that judgment is authoritative.
type Analysis struct {
	Changes types.CategorizedChanges

	Provider     string
	Model        string
	AnalysisType string
	Duration     time.Duration
	InputTokens  int64
	OutputTokens int64
}

// analysisResponse is the JSON shape the prompt demands from the model.
type analysisResponse struct {
	NewFeatures  []entryResponse `json:"newFeatures"`
	Improvements []entryResponse `json:"improvements"`
	Fixes        []entryResponse `json:"fixes"`
}

type entryResponse struct {
	Title       string  `json:"title"`       // Short user-facing headline
	Description string  `json:"description"` // One or two sentences of detail
	UserValue   string  `json:"userValue"`   // Why a user should care
	Confidence  float64 `json:"confidence"`  // Model's certainty (0.0-1.0)
}

// Analyze makes exactly one categorization pass over the raw activity.
// Retries and backoff happen inside this call; a returned error is terminal
// for this run and the caller falls back to rule-based generation.
func (a *Analyzer) Analyze(ctx context.Context, activity []types.Activity) (*Analysis, error) {
	startTime := time.Now()

	// Nothing to analyze: succeed with empty categories instead of burning
	// an API call on an empty prompt.
	if len(activity) == 0 {
		return &Analysis{
			Provider:     a.provider.Name(),
			Model:        a.provider.Model(),
			AnalysisType: "categorization",
			Duration:     time.Since(startTime),
		}, nil
	}

	prompt := buildCategorizationPrompt(activity)

	var completion *Completion
	err := a.retryWithBackoff(ctx, "categorization", func(attemptCtx context.Context) error {
		c, apiErr := a.provider.Complete(attemptCtx, prompt, a.maxTokens)
		if apiErr != nil {
			return apiErr
		}
		completion = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("llm categorization failed: %w", err)
	}

	parseResult := Parse[analysisResponse](completion.Text, "categorization response")
	if !parseResult.Success {
		return nil, fmt.Errorf("failed to parse categorization response: %s (response: %s)",
			parseResult.Error, truncate(completion.Text, 500))
	}

	changes := normalizeResponse(parseResult.Data)
	duration := time.Since(startTime)

	if usd, ok := cost.Estimate(a.provider.Model(), completion.InputTokens, completion.OutputTokens); ok {
		fmt.Fprintf(os.Stderr, "LLM usage [categorization]: input=%d output=%d cost=$%.4f duration=%v\n",
			completion.InputTokens, completion.OutputTokens, usd, duration)
	} else {
		fmt.Fprintf(os.Stderr, "LLM usage [categorization]: input=%d output=%d duration=%v\n",
			completion.InputTokens, completion.OutputTokens, duration)
	}

	return &Analysis{
		Changes:      changes,
		Provider:     a.provider.Name(),
		Model:        a.provider.Model(),
		AnalysisType: "categorization",
		Duration:     duration,
		InputTokens:  completion.InputTokens,
		OutputTokens: completion.OutputTokens,
	}, nil
}

// normalizeResponse converts the wire response into the domain model,
// repairing what can be repaired: confidence is clamped into [0,1], a
// missing userValue stays an empty string. Entries without a title are the
// one thing dropped (with a warning) since they cannot be rendered.
func normalizeResponse(response analysisResponse) types.CategorizedChanges {
	var changes types.CategorizedChanges
	for _, group := range []struct {
		category types.Category
		entries  []entryResponse
	}{
		{types.CategoryNewFeatures, response.NewFeatures},
		{types.CategoryImprovements, response.Improvements},
		{types.CategoryFixes, response.Fixes},
	} {
		for _, e := range group.entries {
			if strings.TrimSpace(e.Title) == "" {
				fmt.Fprintf(os.Stderr, "Warning: dropping untitled %s entry from LLM response\n", group.category)
				continue
			}
			changes.Append(types.CategorizedEntry{
				Title:       strings.TrimSpace(e.Title),
				Description: strings.TrimSpace(e.Description),
				UserValue:   strings.TrimSpace(e.UserValue),
				Confidence:  clamp01(e.Confidence),
				Category:    group.category,
			})
		}
	}
	return changes
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// activityBodyLimit keeps one noisy commit message from dominating the
// prompt budget.
const activityBodyLimit = 300

// buildCategorizationPrompt builds the single-turn categorization prompt.
func buildCategorizationPrompt(activity []types.Activity) string {
	var b strings.Builder
	for _, a := range activity {
		fmt.Fprintf(&b, "- [%s %s", a.Kind, a.ID)
		if a.Author != "" {
			fmt.Fprintf(&b, " by %s", a.Author)
		}
		fmt.Fprintf(&b, "] %s", a.Title)
		if body := strings.TrimSpace(a.Body); body != "" {
			fmt.Fprintf(&b, "\n  %s", truncate(strings.ReplaceAll(body, "\n", " "), activityBodyLimit))
		}
		b.WriteString("\n")
	}

	return fmt.Sprintf(`You are a release-notes writer analyzing a team's engineering activity. Categorize the activity below into user-facing release notes.

Activity records (commits, pull requests, issues, chat messages):
%s
Write entries for changes that matter to end users. Group them into exactly three categories:
- newFeatures: capabilities that did not exist before
- improvements: existing behavior made better, faster, or smoother
- fixes: repaired defects

For each entry provide:
- title: short user-facing headline (not the raw commit subject)
- description: one or two sentences of detail
- userValue: one sentence on why a user should care
- confidence: 0.0-1.0, your certainty the categorization and framing are right

Leave a category empty if nothing belongs in it. Internal-only work (refactors, CI, dependency bumps) should be omitted entirely.

Respond in JSON format:
{
  "newFeatures": [{"title": "...", "description": "...", "userValue": "...", "confidence": 0.9}],
  "improvements": [],
  "fixes": []
}

IMPORTANT: Respond with ONLY raw JSON. Do NOT wrap it in markdown code fences.`, b.String())
}
