package sources

import (
	"testing"

	"github.com/shipnote/shipnote/internal/config"
	"github.com/shipnote/shipnote/internal/types"
)

func TestBuildEmptyConfig(t *testing.T) {
	if got := Build(config.SourcesConfig{}); len(got) != 0 {
		t.Errorf("Build with no credentials returned %d sources", len(got))
	}
}

func TestBuildSkipsPartialConfig(t *testing.T) {
	// Owner without token is a config mistake, not "unconfigured". The source
	// is dropped (with a warning on stderr) rather than built broken.
	cfg := config.SourcesConfig{
		GitHub: config.GitHubConfig{Owner: "acme"},
	}
	if got := Build(cfg); len(got) != 0 {
		t.Errorf("partial github config built %d sources, want 0", len(got))
	}
}

func TestBuildAllConfigured(t *testing.T) {
	cfg := config.SourcesConfig{
		GitHub: config.GitHubConfig{Owner: "acme", Repo: "shipit", Token: "ghp_x"},
		Linear: config.LinearConfig{APIKey: "lin_api_x", TeamID: "team-1"},
		Slack:  config.SlackConfig{Token: "xoxb-x", Channels: []string{"C123"}},
	}

	got := Build(cfg)
	if len(got) != 3 {
		t.Fatalf("Build returned %d sources, want 3", len(got))
	}

	kinds := map[types.ActivitySource]string{}
	for _, s := range got {
		kinds[s.Kind()] = s.Name()
	}
	if kinds[types.SourceCode] != "github" {
		t.Errorf("code source = %q", kinds[types.SourceCode])
	}
	if kinds[types.SourceIssues] != "linear" {
		t.Errorf("issues source = %q", kinds[types.SourceIssues])
	}
	if kinds[types.SourceChat] != "slack" {
		t.Errorf("chat source = %q", kinds[types.SourceChat])
	}
}

func TestBuildSubsetConfigured(t *testing.T) {
	cfg := config.SourcesConfig{
		Slack: config.SlackConfig{Token: "xoxb-x", Channels: []string{"C123"}},
	}

	got := Build(cfg)
	if len(got) != 1 {
		t.Fatalf("Build returned %d sources, want 1", len(got))
	}
	if got[0].Name() != "slack" {
		t.Errorf("source = %q, want slack", got[0].Name())
	}
}
