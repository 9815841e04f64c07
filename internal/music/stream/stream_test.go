package stream

import (
	"context"
	"math"
	"testing"
	"time"

	"groovebot/internal/music/resolver"
)

func newTestActiveStream() *activeStream {
	ctx, cancel := context.WithCancel(context.Background())
	return &activeStream{ctx: ctx, cancel: cancel, finished: make(chan struct{})}
}

func TestScaleSample(t *testing.T) {
	tests := []struct {
		name   string
		sample int16
		gain   float64
		want   int16
	}{
		{"unity gain untouched", 1000, 1, 1000},
		{"zero gain untouched", 1000, 0, 1000},
		{"negative gain untouched", 1000, -2, 1000},
		{"halved", 1000, 0.5, 500},
		{"amplified", 1000, 2, 2000},
		{"clamped high", 30000, 2, math.MaxInt16},
		{"clamped low", -30000, 2, math.MinInt16},
		{"negative sample halved", -1000, 0.5, -500},
		{"silence stays silent", 0, 0.5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := scaleSample(tc.sample, tc.gain); got != tc.want {
				t.Errorf("scaleSample(%d, %v) = %d, want %d", tc.sample, tc.gain, got, tc.want)
			}
		})
	}
}

func TestEndedEarly(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		seekSec  float64
		want     bool
	}{
		{"unknown duration never recovers", 0, 10, false},
		{"died at the start", 3 * time.Minute, 5, true},
		{"died mid-track", 3 * time.Minute, 90, true},
		{"died just before the end", 3 * time.Minute, 179, false},
		{"died at the end", 3 * time.Minute, 180, false},
		{"short track within tolerance", 3 * time.Second, 1.5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &pcmStream{
				track:   &resolver.Track{Title: "t", Duration: tc.duration},
				seekSec: tc.seekSec,
			}
			if got := s.endedEarly(); got != tc.want {
				t.Errorf("endedEarly() at %.0fs of %v = %v, want %v", tc.seekSec, tc.duration, got, tc.want)
			}
		})
	}
}

func TestPauseGate(t *testing.T) {
	st := newTestActiveStream()

	if !st.gate() {
		t.Fatal("gate() = false on a fresh stream")
	}

	st.pause()
	if !st.isPaused() {
		t.Fatal("isPaused() = false after pause")
	}

	released := make(chan bool, 1)
	go func() { released <- st.gate() }()

	select {
	case <-released:
		t.Fatal("gate() returned while paused")
	case <-time.After(50 * time.Millisecond):
	}

	st.unpause()
	select {
	case ok := <-released:
		if !ok {
			t.Fatal("gate() = false after unpause, want true")
		}
	case <-time.After(time.Second):
		t.Fatal("gate() still blocked after unpause")
	}

	// Cancelling must release a paused gate too.
	st.pause()
	go func() { released <- st.gate() }()
	st.cancel()
	select {
	case ok := <-released:
		if ok {
			t.Fatal("gate() = true after cancel, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("gate() still blocked after cancel")
	}

	// Repeated pause and unpause are idempotent.
	st2 := newTestActiveStream()
	st2.pause()
	st2.pause()
	st2.unpause()
	st2.unpause()
	if st2.isPaused() {
		t.Error("isPaused() = true after double unpause")
	}
}
