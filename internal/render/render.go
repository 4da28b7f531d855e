// Package render turns categorized release notes into publishable
// documents.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/shipnote/shipnote/internal/types"
)

// Output formats accepted by Render.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var categoryEmoji = map[types.Category]string{
	types.CategoryNewFeatures:  "🚀",
	types.CategoryImprovements: "✨",
	types.CategoryFixes:        "🐛",
}

// Render produces a document in the given format. An empty format renders
// markdown.
func Render(result *types.ReleaseNotesResult, format string) (string, error) {
	switch format {
	case "", FormatMarkdown:
		return Markdown(result), nil
	case FormatHTML:
		return HTML(result)
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// Markdown renders the release notes as a GitHub-flavored markdown
// document. Categories appear in canonical order; empty categories are
// omitted rather than rendered as bare headings.
func Markdown(result *types.ReleaseNotesResult) string {
	var b strings.Builder

	b.WriteString("# Release Notes\n\n")
	fmt.Fprintf(&b, "**%s – %s**\n",
		result.Range.Start.Format("January 2, 2006"),
		result.Range.End.Format("January 2, 2006"))

	if result.Entries.IsEmpty() {
		b.WriteString("\n_No user-facing changes in this period._\n")
	}

	for _, category := range types.AllCategories() {
		entries := result.Entries.ForCategory(category)
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s %s\n\n", categoryEmoji[category], category.DisplayName())
		for _, entry := range entries {
			writeEntry(&b, entry)
		}
	}

	b.WriteString("\n---\n\n")
	b.WriteString(footer(result.Metadata))
	b.WriteString("\n")

	return b.String()
}

func writeEntry(b *strings.Builder, entry types.CategorizedEntry) {
	fmt.Fprintf(b, "- **%s**", entry.Title)
	if entry.Description != "" {
		fmt.Fprintf(b, " — %s", entry.Description)
	}
	b.WriteString("\n")
	if entry.UserValue != "" {
		fmt.Fprintf(b, "  - _Why it matters: %s_\n", entry.UserValue)
	}
}

// footer is the provenance line readers see at the bottom of every
// document.
func footer(meta types.GenerationMetadata) string {
	counts := meta.SourceCounts
	line := fmt.Sprintf("_Generated from %d activity records (%d code, %d issues, %d chat) in %dms",
		counts.Total(), counts.Code, counts.Issues, counts.Chat, meta.AnalysisTimeMS)
	if meta.GenerationMethod == types.MethodLLMEnhanced && meta.LLMModel != "" {
		line += fmt.Sprintf(" using %s", meta.LLMModel)
	} else {
		line += " using rule-based categorization"
	}
	return line + "._"
}

// HTML renders the markdown document and converts it with goldmark.
func HTML(result *types.ReleaseNotesResult) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(result)), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Write renders the result and writes it to path, or to stdout when path
// is empty.
func Write(result *types.ReleaseNotesResult, format, path string) error {
	doc, err := Render(result, format)
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Print(doc)
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
