package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewDateRange(t *testing.T) {
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid range", jan1, jan31, false},
		{"single day", jan1, jan1, false},
		{"start after end", jan31, jan1, true},
		{"zero start", time.Time{}, jan31, true},
		{"zero end", jan1, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewDateRange(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got range %v", r)
				}
				if !errors.Is(err, ErrInvalidDateRange) {
					t.Errorf("error should wrap ErrInvalidDateRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !r.Start.Equal(tt.start) || !r.End.Equal(tt.end) {
				t.Errorf("range fields not preserved: got %v", r)
			}
		})
	}
}

func TestDateRangeDays(t *testing.T) {
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	r, _ := NewDateRange(jan1, jan1.AddDate(0, 0, 6))
	if got := r.Days(); got != 7 {
		t.Errorf("Days() = %d, want 7", got)
	}

	single, _ := NewDateRange(jan1, jan1)
	if got := single.Days(); got != 1 {
		t.Errorf("single-day Days() = %d, want 1", got)
	}
}

func TestDateRangeContains(t *testing.T) {
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	r, _ := NewDateRange(jan1, jan31)

	if !r.Contains(jan1) || !r.Contains(jan31) {
		t.Error("range bounds should be inclusive")
	}
	if r.Contains(jan1.AddDate(0, 0, -1)) {
		t.Error("day before start should be outside the range")
	}
	if r.Contains(jan31.AddDate(0, 0, 1)) {
		t.Error("day after end should be outside the range")
	}
}

func TestActivityValidate(t *testing.T) {
	valid := Activity{
		ID:        "abc123",
		Source:    SourceCode,
		Kind:      KindCommit,
		Timestamp: time.Now(),
		Title:     "Fix login crash",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid activity failed validation: %v", err)
	}

	missing := valid
	missing.ID = ""
	if err := missing.Validate(); err == nil {
		t.Error("activity without id should fail validation")
	}

	badSource := valid
	badSource.Source = "email"
	if err := badSource.Validate(); err == nil {
		t.Error("unknown source should fail validation")
	}

	badKind := valid
	badKind.Kind = "meeting"
	if err := badKind.Validate(); err == nil {
		t.Error("unknown kind should fail validation")
	}
}

func TestCategoryIsValid(t *testing.T) {
	for _, c := range AllCategories() {
		if !c.IsValid() {
			t.Errorf("canonical category %q reported invalid", c)
		}
	}
	if Category("misc").IsValid() {
		t.Error("unknown category should be invalid")
	}
}

func TestCategorizedEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   CategorizedEntry
		wantErr string
	}{
		{
			name:  "valid",
			entry: CategorizedEntry{Title: "New dashboard", Confidence: 0.9, Category: CategoryNewFeatures},
		},
		{
			name:    "missing title",
			entry:   CategorizedEntry{Confidence: 0.5, Category: CategoryFixes},
			wantErr: "title",
		},
		{
			name:    "confidence too high",
			entry:   CategorizedEntry{Title: "x", Confidence: 1.5, Category: CategoryFixes},
			wantErr: "confidence",
		},
		{
			name:    "confidence negative",
			entry:   CategorizedEntry{Title: "x", Confidence: -0.1, Category: CategoryFixes},
			wantErr: "confidence",
		},
		{
			name:    "bad category",
			entry:   CategorizedEntry{Title: "x", Confidence: 0.5, Category: "other"},
			wantErr: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestCategorizedChangesAppend(t *testing.T) {
	var c CategorizedChanges
	c.Append(CategorizedEntry{Title: "a", Category: CategoryNewFeatures})
	c.Append(CategorizedEntry{Title: "b", Category: CategoryFixes})
	c.Append(CategorizedEntry{Title: "c", Category: CategoryImprovements})
	// Unknown categories must not lose the entry.
	c.Append(CategorizedEntry{Title: "d", Category: "mystery"})

	if len(c.NewFeatures) != 1 || len(c.Fixes) != 1 {
		t.Errorf("unexpected bucket sizes: %d features, %d fixes", len(c.NewFeatures), len(c.Fixes))
	}
	if len(c.Improvements) != 2 {
		t.Fatalf("improvements should absorb unknown categories, got %d entries", len(c.Improvements))
	}
	if c.Improvements[1].Category != CategoryImprovements {
		t.Error("absorbed entry should be re-labeled improvements")
	}
	if c.Total() != 4 {
		t.Errorf("Total() = %d, want 4", c.Total())
	}
}

func TestCategorizedChangesInsertionOrder(t *testing.T) {
	var c CategorizedChanges
	for _, title := range []string{"first", "second", "third"} {
		c.Append(CategorizedEntry{Title: title, Category: CategoryFixes})
	}
	for i, want := range []string{"first", "second", "third"} {
		if c.Fixes[i].Title != want {
			t.Errorf("Fixes[%d] = %q, want %q", i, c.Fixes[i].Title, want)
		}
	}
}

// TestCategorizedChangesJSONKeys verifies the serialized form always carries
// all three category keys, even when every bucket is empty.
func TestCategorizedChangesJSONKeys(t *testing.T) {
	data, err := json.Marshal(CategorizedChanges{})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"newFeatures", "improvements", "fixes"} {
		if _, ok := m[key]; !ok {
			t.Errorf("serialized changes missing %q key", key)
		}
	}
	if len(m) != 3 {
		t.Errorf("serialized changes should have exactly 3 keys, got %d", len(m))
	}
}

func TestGenerationMethodIsValid(t *testing.T) {
	if !MethodLLMEnhanced.IsValid() || !MethodRuleBased.IsValid() {
		t.Error("canonical methods reported invalid")
	}
	if GenerationMethod("hybrid").IsValid() {
		t.Error("unknown method should be invalid")
	}
}

func TestSourceCountsTotal(t *testing.T) {
	s := SourceCounts{Code: 3, Issues: 2, Chat: 1}
	if s.Total() != 6 {
		t.Errorf("Total() = %d, want 6", s.Total())
	}
}

func TestSourceFetchErrorUnwrap(t *testing.T) {
	inner := errors.New("rate limited")
	err := &SourceFetchError{Source: SourceChat, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("SourceFetchError should unwrap to the inner error")
	}
	if !strings.Contains(err.Error(), "chat") {
		t.Errorf("error message should name the source: %q", err.Error())
	}
}
