package history

const schema = `
-- Generation runs, one row per completed GenerateReleaseNotes call.
-- notes_json holds the full result payload; the remaining columns are
-- denormalized so listing runs never unmarshals notes.
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    range_start DATETIME NOT NULL,
    range_end DATETIME NOT NULL,
    generation_method TEXT NOT NULL,
    entry_count INTEGER NOT NULL DEFAULT 0,
    ai_generated INTEGER NOT NULL DEFAULT 0,
    llm_provider TEXT NOT NULL DEFAULT '',
    llm_model TEXT NOT NULL DEFAULT '',
    analysis_time_ms INTEGER NOT NULL DEFAULT 0,
    source_code INTEGER NOT NULL DEFAULT 0,
    source_issues INTEGER NOT NULL DEFAULT 0,
    source_chat INTEGER NOT NULL DEFAULT 0,
    notes_json TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`
