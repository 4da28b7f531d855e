package types

import (
	"errors"
	"fmt"
)

// ErrInvalidDateRange is the only error a generation run treats as fatal:
// a malformed window means the request itself is wrong, not the pipeline.
var ErrInvalidDateRange = errors.New("invalid date range")

// SourceFetchError wraps a failure from one activity source. The pipeline
// isolates these per source: a failing source contributes nothing but never
// aborts the run.
type SourceFetchError struct {
	Source ActivitySource
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetching %s activity: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}
