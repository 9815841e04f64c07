package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCommandHistoryAppendAndFetch(t *testing.T) {
	s := newTestStorage(t)

	err := s.AppendCommandHistory("guild-1", CommandHistoryRecord{
		UserID:   "user-1",
		Username: "listener",
		Command:  "play",
		Datetime: time.Now(),
	})
	if err != nil {
		t.Fatalf("AppendCommandHistory() returned error: %v", err)
	}

	history, err := s.FetchCommandHistory("guild-1")
	if err != nil {
		t.Fatalf("FetchCommandHistory() returned error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Command != "play" {
		t.Errorf("Command = %q, want play", history[0].Command)
	}
}

func TestCommandHistoryCapped(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		err := s.AppendCommandHistory("guild-1", CommandHistoryRecord{
			Command:  fmt.Sprintf("cmd-%d", i),
			Datetime: time.Now(),
		})
		if err != nil {
			t.Fatalf("AppendCommandHistory() returned error: %v", err)
		}
	}

	history, err := s.FetchCommandHistory("guild-1")
	if err != nil {
		t.Fatalf("FetchCommandHistory() returned error: %v", err)
	}
	if len(history) != commandHistoryLimit {
		t.Fatalf("history length = %d, want %d", len(history), commandHistoryLimit)
	}
	// Oldest entries are dropped first.
	if history[len(history)-1].Command != fmt.Sprintf("cmd-%d", commandHistoryLimit+4) {
		t.Errorf("newest entry = %q, want cmd-%d", history[len(history)-1].Command, commandHistoryLimit+4)
	}
}

func TestTrackHistoryCapped(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < trackHistoryLimit+3; i++ {
		err := s.AppendTrackHistory("guild-1", TrackHistoryRecord{
			Title:    fmt.Sprintf("track-%d", i),
			PlayedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("AppendTrackHistory() returned error: %v", err)
		}
	}

	history, err := s.FetchTrackHistory("guild-1")
	if err != nil {
		t.Fatalf("FetchTrackHistory() returned error: %v", err)
	}
	if len(history) != trackHistoryLimit {
		t.Fatalf("history length = %d, want %d", len(history), trackHistoryLimit)
	}
	if history[0].Title != fmt.Sprintf("track-%d", 3) {
		t.Errorf("oldest kept entry = %q, want track-3", history[0].Title)
	}
}

func TestGuildsAreIsolated(t *testing.T) {
	s := newTestStorage(t)

	if err := s.AppendTrackHistory("guild-1", TrackHistoryRecord{Title: "one"}); err != nil {
		t.Fatalf("AppendTrackHistory() returned error: %v", err)
	}

	other, err := s.FetchTrackHistory("guild-2")
	if err != nil {
		t.Fatalf("FetchTrackHistory() returned error: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("guild-2 history length = %d, want 0", len(other))
	}
}
