package types

import "fmt"

// Category is one of the three buckets every release-note entry lands in.
// The set is closed: consumers rely on exactly these three keys being
// present in every result, even when a bucket is empty.
type Category string

const (
	CategoryNewFeatures  Category = "newFeatures"
	CategoryImprovements Category = "improvements"
	CategoryFixes        Category = "fixes"
)

// IsValid checks if the category value is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryNewFeatures, CategoryImprovements, CategoryFixes:
		return true
	}
	return false
}

// AllCategories returns the categories in their canonical display order.
func AllCategories() []Category {
	return []Category{CategoryNewFeatures, CategoryImprovements, CategoryFixes}
}

// DisplayName returns the human-readable heading for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryNewFeatures:
		return "New Features"
	case CategoryImprovements:
		return "Improvements"
	case CategoryFixes:
		return "Fixes"
	}
	return string(c)
}

// CategorizedEntry is one finished release-note line item.
type CategorizedEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	UserValue   string   `json:"userValue"`
	Confidence  float64  `json:"confidence"`
	Category    Category `json:"category"`
}

// Validate checks if the entry has valid field values
func (e *CategorizedEntry) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("entry title is required")
	}
	if e.Confidence < 0.0 || e.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0 (got %.2f)", e.Confidence)
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", e.Category)
	}
	return nil
}

// CategorizedChanges holds the three category buckets. Being a struct rather
// than a map guarantees all three keys exist in every serialized result.
// Within a bucket, entries keep the order they were appended in.
type CategorizedChanges struct {
	NewFeatures  []CategorizedEntry `json:"newFeatures"`
	Improvements []CategorizedEntry `json:"improvements"`
	Fixes        []CategorizedEntry `json:"fixes"`
}

// Append adds an entry to the bucket named by its Category field.
// Entries with an unknown category go to improvements so nothing is dropped.
func (c *CategorizedChanges) Append(e CategorizedEntry) {
	switch e.Category {
	case CategoryNewFeatures:
		c.NewFeatures = append(c.NewFeatures, e)
	case CategoryFixes:
		c.Fixes = append(c.Fixes, e)
	default:
		e.Category = CategoryImprovements
		c.Improvements = append(c.Improvements, e)
	}
}

// ForCategory returns the bucket for the given category (nil for unknown).
func (c *CategorizedChanges) ForCategory(cat Category) []CategorizedEntry {
	switch cat {
	case CategoryNewFeatures:
		return c.NewFeatures
	case CategoryImprovements:
		return c.Improvements
	case CategoryFixes:
		return c.Fixes
	}
	return nil
}

// Total counts entries across all buckets.
func (c *CategorizedChanges) Total() int {
	return len(c.NewFeatures) + len(c.Improvements) + len(c.Fixes)
}

// IsEmpty reports whether every bucket is empty.
func (c *CategorizedChanges) IsEmpty() bool {
	return c.Total() == 0
}

// GenerationMethod records which pipeline produced a result.
type GenerationMethod string

const (
	// MethodLLMEnhanced means the LLM analysis was attempted and succeeded;
	// the result is the LLM's output adopted wholesale.
	MethodLLMEnhanced GenerationMethod = "llm-enhanced"
	// MethodRuleBased means deterministic categorization produced the result,
	// either because no analyzer was available or because analysis failed.
	MethodRuleBased GenerationMethod = "rule-based"
)

// IsValid checks if the generation method value is valid
func (m GenerationMethod) IsValid() bool {
	switch m {
	case MethodLLMEnhanced, MethodRuleBased:
		return true
	}
	return false
}

// SourceCounts is the per-source tally of raw activity that fed a run.
// A source that failed or returned nothing counts zero.
type SourceCounts struct {
	Code   int `json:"code"`
	Issues int `json:"issues"`
	Chat   int `json:"chat"`
}

// Total sums the per-source counts.
func (s SourceCounts) Total() int {
	return s.Code + s.Issues + s.Chat
}

// GenerationMetadata is the provenance block attached to every result.
type GenerationMetadata struct {
	GenerationMethod GenerationMethod `json:"generationMethod"`
	// AIGenerated is the number of entries produced by the LLM path.
	// Always 0 for rule-based results.
	AIGenerated    int          `json:"aiGenerated"`
	LLMProvider    string       `json:"llmProvider,omitempty"`
	LLMModel       string       `json:"llmModel,omitempty"`
	AnalysisTimeMS int64        `json:"analysisTime"`
	SourceCounts   SourceCounts `json:"sourceCounts"`
}

// ReleaseNotesResult is the complete output of one generation run. Treated
// as immutable once returned; the review flow edits a copy.
type ReleaseNotesResult struct {
	Range    DateRange          `json:"range"`
	Entries  CategorizedChanges `json:"entries"`
	Metadata GenerationMetadata `json:"metadata"`
}

// LLMStatus describes a constructed analyzer.
type LLMStatus struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// ServiceStatus is the introspection snapshot returned by the generator.
// LLMStatus is nil exactly when no analyzer was constructed.
type ServiceStatus struct {
	LLMAnalyzer bool       `json:"llmAnalyzer"`
	LLMStatus   *LLMStatus `json:"llmStatus"`
}
