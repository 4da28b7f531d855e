// Package review provides the interactive editing pass over generated
// release notes before publishing: drop noise, fix wording, move entries
// between categories.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/shipnote/shipnote/internal/types"
)

// ErrAborted is returned by Run when the reviewer discards the session.
var ErrAborted = errors.New("review aborted")

// Session edits a working copy of a generation result. The original is
// never touched.
type Session struct {
	result   *types.ReleaseNotesResult
	commands map[string]commandHandler
	finished bool
	aborted  bool
}

type commandHandler func(args []string) error

// entryRef addresses one entry by its current category and position.
type entryRef struct {
	category types.Category
	index    int
}

// New starts a review session over a deep copy of result.
func New(result *types.ReleaseNotesResult) (*Session, error) {
	if result == nil {
		return nil, fmt.Errorf("result is required")
	}

	s := &Session{
		result:   cloneResult(result),
		commands: make(map[string]commandHandler),
	}
	s.registerCommands()
	return s, nil
}

// Run drives the session from a terminal and returns the edited result.
// Finishing with 'quit' returns ErrAborted instead.
func (s *Session) Run(ctx context.Context) (*types.ReleaseNotesResult, error) {
	cyan := color.New(color.FgCyan).SprintFunc()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("review> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "done",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.printWelcome()
	_ = s.cmdList(nil)

	for !s.finished {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				// Ctrl+D keeps the edits, same as 'done'.
				break
			}
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.handleLine(line); err != nil {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}

	if s.aborted {
		return nil, ErrAborted
	}
	return s.result, nil
}

// handleLine dispatches one command line against the working copy.
func (s *Session) handleLine(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	handler, ok := s.commands[parts[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (try 'help')", parts[0])
	}
	return handler(parts[1:])
}

func (s *Session) registerCommands() {
	s.commands["list"] = s.cmdList
	s.commands["ls"] = s.cmdList
	s.commands["show"] = s.cmdShow
	s.commands["drop"] = s.cmdDrop
	s.commands["rm"] = s.cmdDrop
	s.commands["move"] = s.cmdMove
	s.commands["mv"] = s.cmdMove
	s.commands["edit"] = s.cmdEdit
	s.commands["preview"] = s.cmdPreview
	s.commands["done"] = s.cmdDone
	s.commands["save"] = s.cmdDone
	s.commands["quit"] = s.cmdQuit
	s.commands["abort"] = s.cmdQuit
	s.commands["help"] = s.cmdHelp
	s.commands["?"] = s.cmdHelp
}

func (s *Session) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Release Notes Review"))
	fmt.Printf("%d entries to review. Type 'help' for commands, 'done' to finish, 'quit' to discard.\n\n",
		s.result.Entries.Total())
}

// refs rebuilds the display numbering from the current working copy.
// Numbers follow category display order and are 1-based.
func (s *Session) refs() []entryRef {
	var out []entryRef
	for _, category := range types.AllCategories() {
		for i := range s.result.Entries.ForCategory(category) {
			out = append(out, entryRef{category: category, index: i})
		}
	}
	return out
}

// entryAt resolves a 1-based display number.
func (s *Session) entryAt(n int) (entryRef, error) {
	refs := s.refs()
	if n < 1 || n > len(refs) {
		return entryRef{}, fmt.Errorf("no entry %d (have %d)", n, len(refs))
	}
	return refs[n-1], nil
}

func (s *Session) categorySlice(category types.Category) *[]types.CategorizedEntry {
	switch category {
	case types.CategoryNewFeatures:
		return &s.result.Entries.NewFeatures
	case types.CategoryFixes:
		return &s.result.Entries.Fixes
	default:
		return &s.result.Entries.Improvements
	}
}

func cloneResult(result *types.ReleaseNotesResult) *types.ReleaseNotesResult {
	clone := *result
	clone.Entries.NewFeatures = slices.Clone(result.Entries.NewFeatures)
	clone.Entries.Improvements = slices.Clone(result.Entries.Improvements)
	clone.Entries.Fixes = slices.Clone(result.Entries.Fixes)
	return &clone
}
