package review

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/shipnote/shipnote/internal/render"
	"github.com/shipnote/shipnote/internal/types"
)

func (s *Session) cmdList(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	n := 0
	for _, category := range types.AllCategories() {
		entries := s.result.Entries.ForCategory(category)
		if len(entries) == 0 {
			continue
		}

		fmt.Printf("%s\n", cyan(category.DisplayName()))
		for _, entry := range entries {
			n++
			fmt.Printf("  %s %s %s\n",
				green(fmt.Sprintf("%2d.", n)), entry.Title,
				gray(fmt.Sprintf("(%.1f)", entry.Confidence)))
		}
	}
	if n == 0 {
		fmt.Println("No entries.")
	}
	fmt.Println()
	return nil
}

func (s *Session) cmdShow(args []string) error {
	ref, err := s.parseIndex(args)
	if err != nil {
		return err
	}
	entry := (*s.categorySlice(ref.category))[ref.index]

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("\n%s %s\n", bold("Title:"), entry.Title)
	fmt.Printf("%s %s\n", bold("Category:"), entry.Category.DisplayName())
	fmt.Printf("%s %.1f\n", bold("Confidence:"), entry.Confidence)
	if entry.Description != "" {
		fmt.Printf("%s %s\n", bold("Description:"), entry.Description)
	}
	if entry.UserValue != "" {
		fmt.Printf("%s %s\n", bold("User value:"), entry.UserValue)
	}
	fmt.Println()
	return nil
}

func (s *Session) cmdDrop(args []string) error {
	ref, err := s.parseIndex(args)
	if err != nil {
		return err
	}

	bucket := s.categorySlice(ref.category)
	title := (*bucket)[ref.index].Title
	*bucket = slices.Delete(*bucket, ref.index, ref.index+1)

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Dropped %q\n", yellow("✗"), title)
	return nil
}

func (s *Session) cmdMove(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: move <n> <features|improvements|fixes>")
	}
	ref, err := s.parseIndex(args[:1])
	if err != nil {
		return err
	}
	target, err := parseCategory(args[1])
	if err != nil {
		return err
	}
	if target == ref.category {
		return nil
	}

	bucket := s.categorySlice(ref.category)
	entry := (*bucket)[ref.index]
	*bucket = slices.Delete(*bucket, ref.index, ref.index+1)

	entry.Category = target
	dest := s.categorySlice(target)
	*dest = append(*dest, entry)

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Moved %q to %s\n", green("✓"), entry.Title, target.DisplayName())
	return nil
}

func (s *Session) cmdEdit(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: edit <n> <title|desc|value> <new text>")
	}
	ref, err := s.parseIndex(args[:1])
	if err != nil {
		return err
	}
	text := strings.Join(args[2:], " ")

	entry := &(*s.categorySlice(ref.category))[ref.index]
	switch args[1] {
	case "title":
		entry.Title = text
	case "desc", "description":
		entry.Description = text
	case "value", "uservalue":
		entry.UserValue = text
	default:
		return fmt.Errorf("unknown field %q (use title, desc, or value)", args[1])
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Updated %q\n", green("✓"), entry.Title)
	return nil
}

func (s *Session) cmdPreview(args []string) error {
	fmt.Println(render.Markdown(s.result))
	return nil
}

func (s *Session) cmdDone(args []string) error {
	s.finished = true
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Review complete: %d entries\n", green("✓"), s.result.Entries.Total())
	return nil
}

func (s *Session) cmdQuit(args []string) error {
	s.finished = true
	s.aborted = true
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Discarding review edits\n", yellow("✗"))
	return nil
}

func (s *Session) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Printf("\n%s\n", cyan("Review Commands:"))
	commands := []struct {
		name string
		desc string
	}{
		{"list, ls", "Show numbered entries by category"},
		{"show <n>", "Show one entry in full"},
		{"drop <n>", "Remove an entry"},
		{"move <n> <category>", "Recategorize (features, improvements, fixes)"},
		{"edit <n> <field> <text>", "Rewrite title, desc, or value"},
		{"preview", "Render the current markdown"},
		{"done, save", "Finish and keep edits"},
		{"quit, abort", "Finish and discard edits"},
	}
	for _, cmd := range commands {
		fmt.Printf("  %s  %s\n", green(fmt.Sprintf("%-24s", cmd.name)), cmd.desc)
	}
	fmt.Println()
	return nil
}

func (s *Session) parseIndex(args []string) (entryRef, error) {
	if len(args) < 1 {
		return entryRef{}, fmt.Errorf("entry number required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return entryRef{}, fmt.Errorf("invalid entry number %q", args[0])
	}
	return s.entryAt(n)
}

func parseCategory(name string) (types.Category, error) {
	switch strings.ToLower(name) {
	case "features", "feature", "new", "newfeatures":
		return types.CategoryNewFeatures, nil
	case "improvements", "improvement", "improved":
		return types.CategoryImprovements, nil
	case "fixes", "fix", "fixed":
		return types.CategoryFixes, nil
	default:
		return "", fmt.Errorf("unknown category %q (use features, improvements, or fixes)", name)
	}
}
