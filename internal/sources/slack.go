package sources

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/shipnote/shipnote/internal/config"
	"github.com/shipnote/shipnote/internal/types"
)

const slackMaxPagesPerChannel = 5

// SlackSource reads ship/release chatter from configured channels.
type SlackSource struct {
	client   *slack.Client
	channels []string
	limiter  *rate.Limiter
}

// NewSlack validates the configuration and builds the source.
func NewSlack(cfg config.SlackConfig) (*SlackSource, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("slack token is required")
	}
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("at least one slack channel is required")
	}

	return &SlackSource{
		client:   slack.New(cfg.Token),
		channels: cfg.Channels,
		// conversations.history is a Tier 3 method: ~50 requests/minute.
		limiter: rate.NewLimiter(rate.Every(1200*time.Millisecond), 2),
	}, nil
}

func (s *SlackSource) Name() string               { return "slack" }
func (s *SlackSource) Kind() types.ActivitySource { return types.SourceChat }

// Fetch returns user messages posted in the window across all configured
// channels. Joins, bots, and other subtype noise are filtered out.
func (s *SlackSource) Fetch(ctx context.Context, window types.DateRange) ([]types.Activity, error) {
	var activity []types.Activity

	for _, channel := range s.channels {
		messages, err := s.fetchChannel(ctx, channel, window)
		if err != nil {
			return nil, fmt.Errorf("reading channel %s: %w", channel, err)
		}
		activity = append(activity, messages...)
	}

	return activity, nil
}

func (s *SlackSource) fetchChannel(ctx context.Context, channel string, window types.DateRange) ([]types.Activity, error) {
	var activity []types.Activity

	params := &slack.GetConversationHistoryParameters{
		ChannelID: channel,
		Oldest:    slackTimestamp(window.Start),
		Latest:    slackTimestamp(window.End),
		Limit:     200,
	}

	for page := 0; page < slackMaxPagesPerChannel; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.client.GetConversationHistoryContext(ctx, params)
		if err != nil {
			return nil, err
		}

		for _, m := range resp.Messages {
			if a, ok := messageToActivity(m, channel); ok {
				activity = append(activity, a)
			}
		}

		if !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			break
		}
		params.Cursor = resp.ResponseMetaData.NextCursor
	}

	return activity, nil
}

// messageToActivity maps one Slack message onto the activity model. Returns
// false for messages that carry no release-note signal (joins, topic
// changes, empty text).
func messageToActivity(m slack.Message, channel string) (types.Activity, bool) {
	if m.SubType != "" || strings.TrimSpace(m.Text) == "" {
		return types.Activity{}, false
	}

	author := m.Username
	if author == "" {
		author = m.User
	}

	return types.Activity{
		ID:        fmt.Sprintf("%s-%s", channel, m.Timestamp),
		Source:    types.SourceChat,
		Kind:      types.KindChatMessage,
		Timestamp: parseSlackTimestamp(m.Timestamp),
		Title:     messageTitle(m.Text),
		Body:      m.Text,
		Author:    author,
		URL:       fmt.Sprintf("https://slack.com/archives/%s/p%s", channel, strings.Replace(m.Timestamp, ".", "", 1)),
		Channel:   channel,
	}, true
}

// messageTitle derives a headline from the first line of the message.
func messageTitle(text string) string {
	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if len(line) > 120 {
		line = line[:117] + "..."
	}
	return line
}

// slackTimestamp renders a time as the seconds-with-fraction string the
// history API expects.
func slackTimestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10) + ".000000"
}

// parseSlackTimestamp converts "1712345678.000100" back into a time. A
// malformed timestamp yields the zero time rather than an error; the record
// is still worth keeping.
func parseSlackTimestamp(ts string) time.Time {
	seconds, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(int64(seconds), 0).UTC()
}
