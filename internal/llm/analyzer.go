// Package llm provides the optional LLM analysis half of the release-notes
// pipeline. Construction is allowed to fail (disabled, unknown provider,
// missing credential); callers treat any construction error as "no analyzer"
// and generate rule-based notes instead.
package llm

import (
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/shipnote/shipnote/internal/types"
)

// ErrDisabled is returned by New when LLM analysis is turned off in
// configuration. It is an ordinary construction failure: callers degrade,
// they do not special-case it.
var ErrDisabled = errors.New("llm analysis disabled")

// defaultMaxTokens caps categorization responses. Release notes for a
// typical window fit comfortably; a response this large is malformed.
const defaultMaxTokens = 4096

// Config holds analyzer configuration.
type Config struct {
	Enabled   bool        // Master switch; false fails construction with ErrDisabled
	Provider  string      // "anthropic" (default) or "openai"
	Model     string      // Model override (empty = provider default)
	APIKey    string      // Credential override (empty = provider env var)
	MaxTokens int         // Response cap (0 = defaultMaxTokens)
	Retry     RetryConfig // Retry configuration (zero value = defaults)
}

// Analyzer turns raw activity into categorized release-note suggestions by
// prompting an LLM provider. All fields are read-only after construction, so
// one analyzer may serve concurrent generation runs.
type Analyzer struct {
	provider       Provider
	maxTokens      int
	retry          RetryConfig
	circuitBreaker *CircuitBreaker
	concurrencySem *semaphore.Weighted
}

// New constructs an analyzer, or explains why one cannot exist. Every
// failure here is recoverable by design: the generation pipeline runs
// rule-based without an analyzer.
func New(cfg Config) (*Analyzer, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	var provider Provider
	var err error
	switch cfg.Provider {
	case "", "anthropic":
		provider, err = newAnthropicProvider(cfg)
	case "openai":
		provider, err = newOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	var circuitBreaker *CircuitBreaker
	if retry.CircuitBreakerEnabled {
		circuitBreaker = NewCircuitBreaker(retry.FailureThreshold, retry.SuccessThreshold, retry.OpenTimeout)
	}

	var concurrencySem *semaphore.Weighted
	if retry.MaxConcurrentCalls > 0 {
		concurrencySem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}

	return &Analyzer{
		provider:       provider,
		maxTokens:      maxTokens,
		retry:          retry,
		circuitBreaker: circuitBreaker,
		concurrencySem: concurrencySem,
	}, nil
}

// Status reports the analyzer's construction-time identity. It never probes
// the provider.
func (a *Analyzer) Status() types.LLMStatus {
	return types.LLMStatus{
		Enabled:  true,
		Provider: a.provider.Name(),
		Model:    a.provider.Model(),
	}
}
