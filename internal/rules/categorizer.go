// Package rules implements deterministic keyword categorization of raw
// activity. It is the always-available half of the hybrid pipeline: pure,
// no I/O, and total — every record it is given lands in exactly one
// category, malformed or not.
package rules

import (
	"strings"
	"unicode"

	"github.com/shipnote/shipnote/internal/types"
)

// Confidence levels for rule-based entries. Deliberately below typical LLM
// confidence so downstream consumers can tell the two apart.
const (
	// ConfidenceKeyword is assigned when a strong keyword or commit prefix matched.
	ConfidenceKeyword = 0.7
	// ConfidenceDefault is assigned when nothing matched and the entry fell
	// through to improvements.
	ConfidenceDefault = 0.5
)

// fixKeywords mark work that repairs existing behavior.
var fixKeywords = []string{
	"fix", "bug", "crash", "regression", "hotfix", "patch",
	"resolve", "broken", "error", "fault",
}

// featureKeywords mark work that introduces new capability.
var featureKeywords = []string{
	"add", "new", "introduce", "implement", "launch",
	"create", "support for", "initial",
}

// titlePrefixes are conventional-commit style markers stripped from display
// titles. Matching is case-insensitive and tolerates a scope, e.g. "feat(ui):".
var titlePrefixes = []string{
	"feat", "feature", "fix", "bug", "chore", "refactor",
	"perf", "docs", "style", "test", "build", "ci",
}

// Categorizer classifies activity records with keyword heuristics.
// It is stateless; the zero value is ready to use.
type Categorizer struct{}

// NewCategorizer returns a rule-based categorizer.
func NewCategorizer() *Categorizer {
	return &Categorizer{}
}

// Categorize maps every activity record to a release-note entry. The result
// always carries all three category buckets; input order is preserved within
// each bucket. Records that match nothing are improvements, never dropped.
func (c *Categorizer) Categorize(activity []types.Activity) types.CategorizedChanges {
	var changes types.CategorizedChanges
	for _, a := range activity {
		changes.Append(c.classify(a))
	}
	return changes
}

// classify builds the entry for one record.
func (c *Categorizer) classify(a types.Activity) types.CategorizedEntry {
	text := strings.ToLower(a.Title + " " + a.Body)

	category := types.CategoryImprovements
	confidence := ConfidenceDefault

	switch {
	case containsAny(text, fixKeywords):
		category = types.CategoryFixes
		confidence = ConfidenceKeyword
	case containsAny(text, featureKeywords):
		category = types.CategoryNewFeatures
		confidence = ConfidenceKeyword
	}

	return types.CategorizedEntry{
		Title:       displayTitle(a),
		Description: firstLine(a.Body),
		UserValue:   userValueFor(category),
		Confidence:  confidence,
		Category:    category,
	}
}

// containsAny reports whether text contains any of the keywords as a
// substring. Text is already lowercased by the caller.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// displayTitle cleans the activity title for display: conventional-commit
// prefixes are stripped, whitespace trimmed, first letter capitalized. A
// record with no usable title gets a kind-derived placeholder so it still
// renders.
func displayTitle(a types.Activity) string {
	title := strings.TrimSpace(a.Title)
	title = stripPrefix(title)
	if title == "" {
		return "Untitled " + kindNoun(a.Kind)
	}
	r := []rune(title)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// stripPrefix removes a leading conventional-commit marker like "feat:",
// "fix(auth):" or "chore!:".
func stripPrefix(title string) string {
	colon := strings.Index(title, ":")
	if colon <= 0 {
		return title
	}
	marker := strings.ToLower(title[:colon])
	if paren := strings.Index(marker, "("); paren > 0 {
		marker = marker[:paren]
	}
	marker = strings.TrimSuffix(marker, "!")
	for _, p := range titlePrefixes {
		if marker == p {
			return strings.TrimSpace(title[colon+1:])
		}
	}
	return title
}

// firstLine returns the first non-empty line of body, trimmed and capped.
func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 200 {
			line = line[:197] + "..."
		}
		return line
	}
	return ""
}

// userValueFor returns the fixed user-facing framing for a category. The
// rule path cannot infer real user impact, so it states the generic one.
func userValueFor(category types.Category) string {
	switch category {
	case types.CategoryNewFeatures:
		return "Adds a new capability you can start using right away."
	case types.CategoryFixes:
		return "Resolves an issue that may have been affecting your work."
	default:
		return "Makes the product work better for you."
	}
}

func kindNoun(k types.ActivityKind) string {
	switch k {
	case types.KindCommit:
		return "change"
	case types.KindPullRequest:
		return "pull request"
	case types.KindIssue:
		return "issue"
	case types.KindChatMessage:
		return "update"
	}
	return "change"
}
