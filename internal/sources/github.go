package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/time/rate"

	"github.com/shipnote/shipnote/internal/config"
	"github.com/shipnote/shipnote/internal/types"
)

// githubMaxPages bounds pagination. A window needing more than this many
// pages of commits is beyond what release notes can usefully summarize.
const githubMaxPages = 10

// GitHubSource reads commits and merged pull requests from one repository.
type GitHubSource struct {
	client  *github.Client
	owner   string
	repo    string
	limiter *rate.Limiter
}

// NewGitHub validates the configuration and builds the source.
func NewGitHub(cfg config.GitHubConfig) (*GitHubSource, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github owner and repo are required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token is required")
	}

	return &GitHubSource{
		client: github.NewClient(nil).WithAuthToken(cfg.Token),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		// Secondary rate limits kick in well below the documented quota
		// when requests burst, so pace list calls.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
	}, nil
}

func (s *GitHubSource) Name() string               { return "github" }
func (s *GitHubSource) Kind() types.ActivitySource { return types.SourceCode }

// Fetch returns commits and merged pull requests in the window.
func (s *GitHubSource) Fetch(ctx context.Context, window types.DateRange) ([]types.Activity, error) {
	commits, err := s.fetchCommits(ctx, window)
	if err != nil {
		return nil, err
	}

	prs, err := s.fetchMergedPRs(ctx, window)
	if err != nil {
		return nil, err
	}

	return append(commits, prs...), nil
}

func (s *GitHubSource) fetchCommits(ctx context.Context, window types.DateRange) ([]types.Activity, error) {
	var activity []types.Activity

	opts := &github.CommitsListOptions{
		Since:       window.Start,
		Until:       window.End,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for page := 0; page < githubMaxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		commits, resp, err := s.client.Repositories.ListCommits(ctx, s.owner, s.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing commits for %s/%s: %w", s.owner, s.repo, err)
		}

		for _, c := range commits {
			activity = append(activity, commitToActivity(c))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return activity, nil
}

func (s *GitHubSource) fetchMergedPRs(ctx context.Context, window types.DateRange) ([]types.Activity, error) {
	var activity []types.Activity

	opts := &github.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for page := 0; page < githubMaxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		prs, resp, err := s.client.PullRequests.List(ctx, s.owner, s.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s/%s: %w", s.owner, s.repo, err)
		}

		pastWindow := false
		for _, pr := range prs {
			// Sorted by update time descending: once updates predate the
			// window, nothing older can have merged inside it.
			if pr.GetUpdatedAt().Time.Before(window.Start) {
				pastWindow = true
				break
			}
			if pr.MergedAt == nil || !window.Contains(pr.GetMergedAt().Time) {
				continue
			}
			activity = append(activity, prToActivity(pr))
		}

		if pastWindow || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return activity, nil
}

// commitToActivity maps one GitHub commit onto the activity model.
func commitToActivity(c *github.RepositoryCommit) types.Activity {
	title, body := splitMessage(c.GetCommit().GetMessage())

	author := c.GetAuthor().GetLogin()
	if author == "" {
		author = c.GetCommit().GetAuthor().GetName()
	}

	return types.Activity{
		ID:        c.GetSHA(),
		Source:    types.SourceCode,
		Kind:      types.KindCommit,
		Timestamp: c.GetCommit().GetAuthor().GetDate().Time,
		Title:     title,
		Body:      body,
		Author:    author,
		URL:       c.GetHTMLURL(),
		Ref:       shortSHA(c.GetSHA()),
		Additions: c.GetStats().GetAdditions(),
		Deletions: c.GetStats().GetDeletions(),
	}
}

// prToActivity maps one merged pull request onto the activity model.
func prToActivity(pr *github.PullRequest) types.Activity {
	return types.Activity{
		ID:        fmt.Sprintf("pr-%d", pr.GetNumber()),
		Source:    types.SourceCode,
		Kind:      types.KindPullRequest,
		Timestamp: pr.GetMergedAt().Time,
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		Author:    pr.GetUser().GetLogin(),
		URL:       pr.GetHTMLURL(),
		Ref:       fmt.Sprintf("#%d", pr.GetNumber()),
		Additions: pr.GetAdditions(),
		Deletions: pr.GetDeletions(),
		Merged:    true,
	}
}

// splitMessage separates a commit message into subject and body.
func splitMessage(message string) (title, body string) {
	parts := strings.SplitN(message, "\n", 2)
	title = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		body = strings.TrimSpace(parts[1])
	}
	return title, body
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
