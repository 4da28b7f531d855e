package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/machinebox/graphql"
	"golang.org/x/time/rate"

	"github.com/shipnote/shipnote/internal/config"
	"github.com/shipnote/shipnote/internal/types"
)

const (
	linearEndpoint = "https://api.linear.app/graphql"
	linearMaxPages = 10
	linearPageSize = 100
)

// LinearSource reads issue activity from Linear's GraphQL API.
type LinearSource struct {
	client  *graphql.Client
	apiKey  string
	teamID  string
	limiter *rate.Limiter
}

// NewLinear validates the configuration and builds the source.
func NewLinear(cfg config.LinearConfig) (*LinearSource, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("linear api key is required")
	}

	return &LinearSource{
		client:  graphql.NewClient(linearEndpoint),
		apiKey:  cfg.APIKey,
		teamID:  cfg.TeamID,
		limiter: rate.NewLimiter(rate.Every(300*time.Millisecond), 2),
	}, nil
}

func (s *LinearSource) Name() string               { return "linear" }
func (s *LinearSource) Kind() types.ActivitySource { return types.SourceIssues }

// linearIssuesQuery pages through issues updated inside the window. The
// team filter clause is only present when a team is configured.
const linearIssuesQuery = `
query Issues($start: DateTimeOrDuration!, $end: DateTimeOrDuration!, $after: String) {
  issues(
    first: %d
    after: $after
    filter: {updatedAt: {gte: $start, lte: $end}%s}
  ) {
    nodes {
      identifier
      title
      description
      url
      priority
      updatedAt
      state { name type }
      assignee { displayName }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

type linearIssueNode struct {
	Identifier  string    `json:"identifier"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Priority    float64   `json:"priority"`
	UpdatedAt   time.Time `json:"updatedAt"`
	State       struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"state"`
	Assignee *struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
}

type linearIssuesResponse struct {
	Issues struct {
		Nodes    []linearIssueNode `json:"nodes"`
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
	} `json:"issues"`
}

// Fetch returns issues updated inside the window.
func (s *LinearSource) Fetch(ctx context.Context, window types.DateRange) ([]types.Activity, error) {
	teamClause := ""
	if s.teamID != "" {
		teamClause = fmt.Sprintf(`, team: {id: {eq: %q}}`, s.teamID)
	}
	query := fmt.Sprintf(linearIssuesQuery, linearPageSize, teamClause)

	var activity []types.Activity
	after := ""

	for page := 0; page < linearMaxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req := graphql.NewRequest(query)
		req.Header.Set("Authorization", s.apiKey)
		req.Var("start", window.Start.Format(time.RFC3339))
		req.Var("end", window.End.Format(time.RFC3339))
		if after != "" {
			req.Var("after", after)
		}

		var resp linearIssuesResponse
		if err := s.client.Run(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("querying linear issues: %w", err)
		}

		for _, node := range resp.Issues.Nodes {
			activity = append(activity, issueToActivity(node))
		}

		if !resp.Issues.PageInfo.HasNextPage {
			break
		}
		after = resp.Issues.PageInfo.EndCursor
	}

	return activity, nil
}

// issueToActivity maps one Linear issue onto the activity model. State is
// the workflow state TYPE (backlog/unstarted/started/completed/canceled),
// which is stable across teams that rename their columns.
func issueToActivity(node linearIssueNode) types.Activity {
	a := types.Activity{
		ID:        node.Identifier,
		Source:    types.SourceIssues,
		Kind:      types.KindIssue,
		Timestamp: node.UpdatedAt,
		Title:     node.Title,
		Body:      node.Description,
		URL:       node.URL,
		State:     node.State.Type,
		Priority:  int(node.Priority),
	}
	if node.Assignee != nil {
		a.Author = node.Assignee.DisplayName
	}
	return a
}
