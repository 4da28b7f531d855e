package types

import (
	"fmt"
	"time"
)

// DateRange is the inclusive window a generation run covers. Construct with
// NewDateRange; a range whose start is after its end is rejected with
// ErrInvalidDateRange.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a validated range. Start and End are inclusive.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks the range invariant (start <= end, both set).
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end must both be set", ErrInvalidDateRange)
	}
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidDateRange, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return nil
}

// Contains reports whether t falls inside the range (inclusive).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the number of calendar days the range spans, minimum 1.
func (r DateRange) Days() int {
	d := int(r.End.Sub(r.Start).Hours()/24) + 1
	if d < 1 {
		return 1
	}
	return d
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}

// ActivitySource identifies which upstream system produced an activity record.
type ActivitySource string

const (
	SourceCode   ActivitySource = "code"
	SourceIssues ActivitySource = "issues"
	SourceChat   ActivitySource = "chat"
)

// IsValid checks if the source value is valid
func (s ActivitySource) IsValid() bool {
	switch s {
	case SourceCode, SourceIssues, SourceChat:
		return true
	}
	return false
}

// AllSources returns the sources in their canonical order.
func AllSources() []ActivitySource {
	return []ActivitySource{SourceCode, SourceIssues, SourceChat}
}

// ActivityKind categorizes the concrete record type within a source.
type ActivityKind string

const (
	KindCommit      ActivityKind = "commit"
	KindPullRequest ActivityKind = "pull_request"
	KindIssue       ActivityKind = "issue"
	KindChatMessage ActivityKind = "chat_message"
)

// IsValid checks if the kind value is valid
func (k ActivityKind) IsValid() bool {
	switch k {
	case KindCommit, KindPullRequest, KindIssue, KindChatMessage:
		return true
	}
	return false
}

// Activity is one raw record fetched from an upstream source. It is a flat
// union: the Source/Kind pair says which of the optional fields are
// meaningful. Raw activity is transient per run and never persisted.
type Activity struct {
	ID        string         `json:"id"`
	Source    ActivitySource `json:"source"`
	Kind      ActivityKind   `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	Title     string         `json:"title"`
	Body      string         `json:"body,omitempty"`
	Author    string         `json:"author,omitempty"`
	URL       string         `json:"url,omitempty"`

	// Code activity (commits, pull requests)
	Ref       string `json:"ref,omitempty"`
	Additions int    `json:"additions,omitempty"`
	Deletions int    `json:"deletions,omitempty"`
	Merged    bool   `json:"merged,omitempty"`

	// Issue activity
	State    string `json:"state,omitempty"`
	Priority int    `json:"priority,omitempty"`

	// Chat activity
	Channel string `json:"channel,omitempty"`
}

// Validate checks if the activity has valid field values
func (a *Activity) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("activity id is required")
	}
	if !a.Source.IsValid() {
		return fmt.Errorf("invalid activity source: %s", a.Source)
	}
	if !a.Kind.IsValid() {
		return fmt.Errorf("invalid activity kind: %s", a.Kind)
	}
	return nil
}
