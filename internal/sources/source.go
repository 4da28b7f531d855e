// Package sources fetches raw engineering activity from upstream systems.
// Each source is independent: construction failures skip that source, fetch
// failures are isolated by the caller, and no source knows about the others.
package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/shipnote/shipnote/internal/config"
	"github.com/shipnote/shipnote/internal/types"
)

// Source is one upstream activity feed.
type Source interface {
	// Name identifies the source in logs and warnings ("github", "linear",
	// "slack").
	Name() string

	// Kind says which activity bucket this source fills.
	Kind() types.ActivitySource

	// Fetch returns the activity inside the window, oldest first. An empty
	// window is an empty slice, not an error; errors are transport or auth
	// failures.
	Fetch(ctx context.Context, window types.DateRange) ([]types.Activity, error)
}

// Build assembles every source with usable configuration. A source with no
// credentials at all is skipped silently (not configured). A source with
// partial configuration is skipped with a warning so a typo in the config
// file does not silently drop a whole activity feed.
func Build(cfg config.SourcesConfig) []Source {
	var built []Source

	if anySet(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Token) {
		if s, err := NewGitHub(cfg.GitHub); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping github source: %v\n", err)
		} else {
			built = append(built, s)
		}
	}

	if anySet(cfg.Linear.APIKey, cfg.Linear.TeamID) {
		if s, err := NewLinear(cfg.Linear); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping linear source: %v\n", err)
		} else {
			built = append(built, s)
		}
	}

	if cfg.Slack.Token != "" || len(cfg.Slack.Channels) > 0 {
		if s, err := NewSlack(cfg.Slack); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping slack source: %v\n", err)
		} else {
			built = append(built, s)
		}
	}

	return built
}

func anySet(values ...string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}
