package sources

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shipnote/shipnote/internal/config"
	"github.com/shipnote/shipnote/internal/types"
)

func TestNewLinearValidation(t *testing.T) {
	if _, err := NewLinear(config.LinearConfig{}); err == nil {
		t.Error("missing api key should fail")
	}

	s, err := NewLinear(config.LinearConfig{APIKey: "lin_api_x"})
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if s.Name() != "linear" || s.Kind() != types.SourceIssues {
		t.Errorf("identity wrong: %s/%s", s.Name(), s.Kind())
	}
}

func TestIssueToActivity(t *testing.T) {
	// Decode through JSON the way the GraphQL client does.
	payload := `{
		"identifier": "ENG-42",
		"title": "Dashboard rollout",
		"description": "Track rollout of the analytics dashboard.",
		"url": "https://linear.app/acme/issue/ENG-42",
		"priority": 2,
		"updatedAt": "2025-03-11T08:15:00.000Z",
		"state": {"name": "Done", "type": "completed"},
		"assignee": {"displayName": "Dana"}
	}`
	var node linearIssueNode
	if err := json.Unmarshal([]byte(payload), &node); err != nil {
		t.Fatalf("fixture failed to decode: %v", err)
	}

	a := issueToActivity(node)

	if a.ID != "ENG-42" {
		t.Errorf("ID = %q", a.ID)
	}
	if a.Kind != types.KindIssue || a.Source != types.SourceIssues {
		t.Errorf("kind/source = %s/%s", a.Kind, a.Source)
	}
	if a.State != "completed" {
		t.Errorf("State = %q, want the workflow state type", a.State)
	}
	if a.Priority != 2 {
		t.Errorf("Priority = %d", a.Priority)
	}
	if a.Author != "Dana" {
		t.Errorf("Author = %q", a.Author)
	}
	want := time.Date(2025, 3, 11, 8, 15, 0, 0, time.UTC)
	if !a.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", a.Timestamp, want)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("mapped activity should validate: %v", err)
	}
}

func TestIssueToActivityNoAssignee(t *testing.T) {
	var node linearIssueNode
	node.Identifier = "ENG-7"
	node.Title = "Untriaged bug"
	node.State.Type = "backlog"

	a := issueToActivity(node)
	if a.Author != "" {
		t.Errorf("Author = %q, want empty for unassigned issues", a.Author)
	}
}
