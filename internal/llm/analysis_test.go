package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shipnote/shipnote/internal/types"
)

// fakeProvider scripts provider behavior for analyzer tests. Errors in errs
// are returned call by call; once exhausted, response is returned.
type fakeProvider struct {
	response string
	errs     []error
	calls    int
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model-1" }

func (f *fakeProvider) Complete(ctx context.Context, prompt string, maxTokens int) (*Completion, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &Completion{Text: f.response, InputTokens: 120, OutputTokens: 45}, nil
}

// fastRetry keeps retry tests from sleeping for real.
func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:        2,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
		Timeout:           time.Second,
	}
}

func testAnalyzer(p Provider) *Analyzer {
	return &Analyzer{provider: p, maxTokens: defaultMaxTokens, retry: fastRetry()}
}

func someActivity() []types.Activity {
	return []types.Activity{
		{ID: "c1", Source: types.SourceCode, Kind: types.KindCommit, Title: "Add analytics dashboard", Author: "alice"},
		{ID: "i7", Source: types.SourceIssues, Kind: types.KindIssue, Title: "Dashboard rollout", State: "completed"},
	}
}

func TestAnalyzeAdoptsResponse(t *testing.T) {
	provider := &fakeProvider{response: `{
		"newFeatures": [{"title": "New Analytics Dashboard", "description": "Track usage in real time.", "userValue": "See what your team ships.", "confidence": 0.9}],
		"improvements": [],
		"fixes": []
	}`}
	a := testAnalyzer(provider)

	analysis, err := a.Analyze(context.Background(), someActivity())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(analysis.Changes.NewFeatures) != 1 {
		t.Fatalf("expected 1 feature, got %+v", analysis.Changes)
	}
	entry := analysis.Changes.NewFeatures[0]
	if entry.Title != "New Analytics Dashboard" {
		t.Errorf("title = %q", entry.Title)
	}
	if entry.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", entry.Confidence)
	}
	if entry.Category != types.CategoryNewFeatures {
		t.Errorf("category = %q", entry.Category)
	}

	if analysis.Provider != "fake" || analysis.Model != "fake-model-1" {
		t.Errorf("provenance not recorded: %q/%q", analysis.Provider, analysis.Model)
	}
	if analysis.AnalysisType != "categorization" {
		t.Errorf("AnalysisType = %q", analysis.AnalysisType)
	}
	if analysis.InputTokens != 120 || analysis.OutputTokens != 45 {
		t.Errorf("token usage not recorded: %d/%d", analysis.InputTokens, analysis.OutputTokens)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

// An all-empty response is a success, not a failure: the model judged that
// nothing user-visible shipped.
func TestAnalyzeEmptyCategoriesIsSuccess(t *testing.T) {
	provider := &fakeProvider{response: `{"newFeatures": [], "improvements": [], "fixes": []}`}
	a := testAnalyzer(provider)

	analysis, err := a.Analyze(context.Background(), someActivity())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !analysis.Changes.IsEmpty() {
		t.Errorf("expected empty changes, got %+v", analysis.Changes)
	}
}

func TestAnalyzeEmptyActivitySkipsProvider(t *testing.T) {
	provider := &fakeProvider{response: `{}`}
	a := testAnalyzer(provider)

	analysis, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider should not be called for empty activity, got %d calls", provider.calls)
	}
	if !analysis.Changes.IsEmpty() {
		t.Errorf("expected empty changes, got %+v", analysis.Changes)
	}
	if analysis.Provider != "fake" {
		t.Errorf("provenance should still be recorded, got %q", analysis.Provider)
	}
}

func TestAnalyzeUnparseableResponse(t *testing.T) {
	provider := &fakeProvider{response: "I'm sorry, I can't categorize that activity."}
	a := testAnalyzer(provider)

	_, err := a.Analyze(context.Background(), someActivity())
	if err == nil {
		t.Fatal("unparseable response should fail analysis")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should mention parsing: %v", err)
	}
}

func TestAnalyzeNonRetriableFailsFast(t *testing.T) {
	provider := &fakeProvider{errs: []error{errors.New("401 unauthorized")}}
	a := testAnalyzer(provider)

	_, err := a.Analyze(context.Background(), someActivity())
	if err == nil {
		t.Fatal("provider failure should fail analysis")
	}
	if provider.calls != 1 {
		t.Errorf("non-retriable error should not retry, got %d calls", provider.calls)
	}
}

func TestAnalyzeRetriesTransientErrors(t *testing.T) {
	provider := &fakeProvider{
		response: `{"newFeatures": [], "improvements": [], "fixes": []}`,
		errs:     []error{errors.New("429 rate limit"), errors.New("503 service unavailable"), nil},
	}
	a := testAnalyzer(provider)

	_, err := a.Analyze(context.Background(), someActivity())
	if err != nil {
		t.Fatalf("Analyze should succeed after retries: %v", err)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", provider.calls)
	}
}

func TestAnalyzeExhaustsRetries(t *testing.T) {
	provider := &fakeProvider{
		errs: []error{
			errors.New("429 rate limit"),
			errors.New("429 rate limit"),
			errors.New("429 rate limit"),
		},
	}
	a := testAnalyzer(provider)

	_, err := a.Analyze(context.Background(), someActivity())
	if err == nil {
		t.Fatal("persistent failures should exhaust retries")
	}
	// MaxRetries=2 means 3 total attempts.
	if provider.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", provider.calls)
	}
}

func TestAnalyzeFencedResponse(t *testing.T) {
	provider := &fakeProvider{response: "```json\n" +
		`{"newFeatures": [], "improvements": [{"title": "Faster search", "description": "", "userValue": "", "confidence": 0.7}], "fixes": []}` +
		"\n```"}
	a := testAnalyzer(provider)

	analysis, err := a.Analyze(context.Background(), someActivity())
	if err != nil {
		t.Fatalf("fenced response should still parse: %v", err)
	}
	if len(analysis.Changes.Improvements) != 1 {
		t.Errorf("expected 1 improvement, got %+v", analysis.Changes)
	}
}

func TestNormalizeResponseClampsConfidence(t *testing.T) {
	response := analysisResponse{
		Fixes: []entryResponse{
			{Title: "too high", Confidence: 1.7},
			{Title: "too low", Confidence: -0.4},
			{Title: "in range", Confidence: 0.55},
		},
	}
	changes := normalizeResponse(response)
	want := []float64{1.0, 0.0, 0.55}
	for i, entry := range changes.Fixes {
		if entry.Confidence != want[i] {
			t.Errorf("Fixes[%d].Confidence = %v, want %v", i, entry.Confidence, want[i])
		}
		if err := entry.Validate(); err != nil {
			t.Errorf("normalized entry should validate: %v", err)
		}
	}
}

func TestNormalizeResponseDropsUntitled(t *testing.T) {
	response := analysisResponse{
		NewFeatures: []entryResponse{
			{Title: "   ", Description: "whitespace title", Confidence: 0.9},
			{Title: "Kept", Confidence: 0.9},
		},
	}
	changes := normalizeResponse(response)
	if len(changes.NewFeatures) != 1 || changes.NewFeatures[0].Title != "Kept" {
		t.Errorf("untitled entries should be dropped: %+v", changes.NewFeatures)
	}
}

func TestNormalizeResponseMissingUserValue(t *testing.T) {
	response := analysisResponse{
		Improvements: []entryResponse{{Title: "No value given", Confidence: 0.8}},
	}
	changes := normalizeResponse(response)
	if changes.Improvements[0].UserValue != "" {
		t.Errorf("missing userValue should stay empty, got %q", changes.Improvements[0].UserValue)
	}
}

func TestBuildCategorizationPrompt(t *testing.T) {
	prompt := buildCategorizationPrompt(someActivity())

	for _, want := range []string{
		"Add analytics dashboard",
		"alice",
		"newFeatures",
		"improvements",
		"fixes",
		"ONLY raw JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildCategorizationPromptTruncatesBodies(t *testing.T) {
	long := strings.Repeat("x", 2000)
	prompt := buildCategorizationPrompt([]types.Activity{
		{ID: "c1", Source: types.SourceCode, Kind: types.KindCommit, Title: "Big change", Body: long},
	})
	if strings.Contains(prompt, long) {
		t.Error("long bodies should be truncated in the prompt")
	}
}
