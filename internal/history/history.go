// Package history persists generation runs to a local SQLite database so
// past release notes can be listed and re-rendered without refetching.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/shipnote/shipnote/internal/types"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one recorded generation.
type Run struct {
	ID             string
	Range          types.DateRange
	Method         types.GenerationMethod
	EntryCount     int
	AIGenerated    int
	LLMProvider    string
	LLMModel       string
	AnalysisTimeMS int64
	Counts         types.SourceCounts
	CreatedAt      time.Time

	// Result is the full release-notes payload. Populated by GetRun;
	// left nil by ListRuns.
	Result *types.ReleaseNotesResult
}

// Store records generation runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the history database at path and ensures the
// schema exists.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// RecordRun stores a completed result and returns the new run's ID.
func (s *Store) RecordRun(ctx context.Context, result *types.ReleaseNotesResult) (string, error) {
	if result == nil {
		return "", errors.New("result is nil")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode release notes: %w", err)
	}

	id := uuid.New().String()
	meta := result.Metadata

	query := `
		INSERT INTO runs (
			id, range_start, range_end, generation_method,
			entry_count, ai_generated, llm_provider, llm_model,
			analysis_time_ms, source_code, source_issues, source_chat,
			notes_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		id,
		result.Range.Start.UTC(),
		result.Range.End.UTC(),
		string(meta.GenerationMethod),
		result.Entries.Total(),
		meta.AIGenerated,
		meta.LLMProvider,
		meta.LLMModel,
		meta.AnalysisTimeMS,
		meta.SourceCounts.Code,
		meta.SourceCounts.Issues,
		meta.SourceCounts.Chat,
		string(payload),
		time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	return id, nil
}

// GetRun loads one run, including the full release-notes payload.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
		SELECT id, range_start, range_end, generation_method,
		       entry_count, ai_generated, llm_provider, llm_model,
		       analysis_time_ms, source_code, source_issues, source_chat,
		       notes_json, created_at
		FROM runs
		WHERE id = ?
	`

	var run Run
	var payload string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Range.Start,
		&run.Range.End,
		&run.Method,
		&run.EntryCount,
		&run.AIGenerated,
		&run.LLMProvider,
		&run.LLMModel,
		&run.AnalysisTimeMS,
		&run.Counts.Code,
		&run.Counts.Issues,
		&run.Counts.Chat,
		&payload,
		&run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	var result types.ReleaseNotesResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored release notes: %w", err)
	}
	run.Result = &result

	return &run, nil
}

// ListRuns returns the most recent runs, newest first, without their
// release-notes payloads. A non-positive limit defaults to 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, range_start, range_end, generation_method,
		       entry_count, ai_generated, llm_provider, llm_model,
		       analysis_time_ms, source_code, source_issues, source_chat,
		       created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.ID,
			&run.Range.Start,
			&run.Range.End,
			&run.Method,
			&run.EntryCount,
			&run.AIGenerated,
			&run.LLMProvider,
			&run.LLMModel,
			&run.AnalysisTimeMS,
			&run.Counts.Code,
			&run.Counts.Issues,
			&run.Counts.Chat,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
