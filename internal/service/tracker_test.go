package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestRecordClick_CountedAndDuplicate(t *testing.T) {
	st := newTestStore(t)
	svc := NewTrackerService(st, nil, nil, 0)
	ctx := context.Background()

	input := RecordClickInput{VideoID: "vid1", UserID: "alice", Origin: "10.0.0.1"}

	outcome, err := svc.RecordClick(ctx, input)
	if err != nil {
		t.Fatalf("record click: %v", err)
	}
	if outcome != model.OutcomeCounted {
		t.Errorf("expected counted, got %q", outcome)
	}

	outcome, err = svc.RecordClick(ctx, input)
	if err != nil {
		t.Fatalf("record duplicate: %v", err)
	}
	if outcome != model.OutcomeDuplicate {
		t.Errorf("expected duplicate, got %q", outcome)
	}
}

func TestRecordClick_DefaultsOriginAndDay(t *testing.T) {
	st := newTestStore(t)
	svc := NewTrackerService(st, nil, nil, 0)
	ctx := context.Background()

	// No origin, no day: both default, so repeating the call on the
	// same UTC day is a duplicate.
	outcome, err := svc.RecordClick(ctx, RecordClickInput{VideoID: "vid1", UserID: "alice"})
	if err != nil {
		t.Fatalf("record click: %v", err)
	}
	if outcome != model.OutcomeCounted {
		t.Errorf("expected counted, got %q", outcome)
	}

	outcome, err = svc.RecordClick(ctx, RecordClickInput{VideoID: "vid1", UserID: "alice"})
	if err != nil {
		t.Fatalf("record second click: %v", err)
	}
	if outcome != model.OutcomeDuplicate {
		t.Errorf("expected duplicate for defaulted origin and day, got %q", outcome)
	}

	// An explicit origin is a distinct tuple from the unknown one.
	outcome, err = svc.RecordClick(ctx, RecordClickInput{VideoID: "vid1", UserID: "alice", Origin: "10.0.0.1"})
	if err != nil {
		t.Fatalf("record click with origin: %v", err)
	}
	if outcome != model.OutcomeCounted {
		t.Errorf("expected counted for explicit origin, got %q", outcome)
	}
}

func TestRecordClick_Validation(t *testing.T) {
	st := newTestStore(t)
	svc := NewTrackerService(st, nil, nil, 0)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RecordClickInput
	}{
		{"missing video", RecordClickInput{UserID: "alice"}},
		{"missing user", RecordClickInput{VideoID: "vid1"}},
		{"malformed day", RecordClickInput{VideoID: "vid1", UserID: "alice", Day: "30-08-2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.RecordClick(ctx, tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCountForUser(t *testing.T) {
	st := newTestStore(t)
	svc := NewTrackerService(st, nil, nil, 0)
	ctx := context.Background()

	for _, day := range []string{"2026-08-28", "2026-08-29", "2026-08-30"} {
		_, err := svc.RecordClick(ctx, RecordClickInput{VideoID: "vid1", UserID: "alice", Origin: "10.0.0.1", Day: day})
		if err != nil {
			t.Fatalf("record click: %v", err)
		}
	}

	count, err := svc.CountForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("count for user: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}

	// Unknown users have zero clicks, not an error.
	count, err = svc.CountForUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("count for unknown user: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if _, err := svc.CountForUser(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty user, got %v", err)
	}
}

func TestRankingAndReset(t *testing.T) {
	st := newTestStore(t)
	svc := NewTrackerService(st, nil, nil, time.Second)
	ctx := context.Background()

	clicks := []struct {
		user string
		day  string
	}{
		{"alice", "2026-08-28"},
		{"alice", "2026-08-29"},
		{"bob", "2026-08-28"},
	}
	for _, c := range clicks {
		if _, err := svc.RecordClick(ctx, RecordClickInput{VideoID: "vid1", UserID: c.user, Origin: "10.0.0.1", Day: c.day}); err != nil {
			t.Fatalf("record click: %v", err)
		}
	}

	entries, err := svc.Ranking(ctx)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != "alice" || entries[0].Count != 2 {
		t.Errorf("expected alice first with 2, got %+v", entries[0])
	}

	if err := svc.ResetClicks(ctx); err != nil {
		t.Fatalf("reset clicks: %v", err)
	}

	entries, err = svc.Ranking(ctx)
	if err != nil {
		t.Fatalf("ranking after reset: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty ranking after reset, got %d entries", len(entries))
	}
}
