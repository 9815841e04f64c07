// Package player owns the per-guild playback session: the voice transport
// handle, the playback state machine and the single-active-stream rule.
package player

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"groovebot/internal/music/resolver"
)

type State int

const (
	StateIdle State = iota
	StateResolving
	StatePlaying
	StatePaused
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateResolving:
		return "Resolving"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateRemoved:
		return "Removed"
	}
	return "Unknown"
}

func (s State) StringEmoji() string {
	m := map[State]string{
		StateIdle:      "💤",
		StateResolving: "🔎",
		StatePlaying:   "▶️",
		StatePaused:    "⏸️",
		StateRemoved:   "⏏️",
	}
	return m[s]
}

var (
	ErrNotInVoiceChannel = errors.New("user is not in a voice channel")
	ErrAlreadyPlaying    = errors.New("already playing audio")
	ErrInvalidState      = errors.New("operation not valid in current playback state")
	ErrNotConnected      = errors.New("not connected to a voice channel")
	ErrResolutionFailed  = errors.New("failed to resolve track")
)

// Session is the single authority over voice playback for one guild.
// At most one of Resolving/Playing/Paused is ever active.
type Session struct {
	mu      sync.Mutex
	state   State
	current *resolver.Track

	// gen is bumped whenever playback is torn down (stop, leave). A resolve
	// or stream-end callback started under an older generation is stale and
	// its result is discarded.
	gen uint64

	guildID   string
	transport Transport
	resolver  Resolver
	registry  *Registry
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() string { return s.guildID }

// State returns the current playback state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentTrack returns the track bound to the session, or nil when nothing
// is playing or paused.
func (s *Session) CurrentTrack() *resolver.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Join connects the voice transport to the channel, moving it if it is
// already connected elsewhere. Playback state is not affected.
func (s *Session) Join(channelID string) error {
	s.mu.Lock()
	if s.state == StateRemoved {
		s.mu.Unlock()
		return ErrNotConnected
	}
	t := s.transport
	s.mu.Unlock()

	return t.Join(channelID)
}

// Play resolves the query and starts streaming the result. The blocking
// resolution runs on the caller's goroutine with the session lock released;
// the Resolving state keeps concurrent Play calls out in the meantime.
func (s *Session) Play(ctx context.Context, query string) (*resolver.Track, error) {
	s.mu.Lock()
	switch s.state {
	case StateRemoved:
		s.mu.Unlock()
		return nil, ErrNotConnected
	case StateResolving, StatePlaying, StatePaused:
		s.mu.Unlock()
		return nil, ErrAlreadyPlaying
	}
	s.state = StateResolving
	gen := s.gen
	s.mu.Unlock()

	track, err := s.resolver.Resolve(ctx, query)

	s.mu.Lock()
	if s.gen != gen || s.state != StateResolving {
		// The session left the channel while we were resolving. Discard the
		// result, never bind a stale track.
		s.mu.Unlock()
		return nil, ErrNotConnected
	}
	if err != nil {
		s.state = StateIdle
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}

	if perr := s.transport.Play(track, func(streamErr error) {
		s.streamEnded(gen, streamErr)
	}); perr != nil {
		s.state = StateIdle
		s.mu.Unlock()
		return nil, perr
	}
	s.current = track
	s.state = StatePlaying
	s.mu.Unlock()

	return track, nil
}

// Pause suspends the active stream.
func (s *Session) Pause() error {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = StatePaused
	t := s.transport
	s.mu.Unlock()

	t.Pause()
	return nil
}

// Resume continues a paused stream.
func (s *Session) Resume() error {
	s.mu.Lock()
	if s.state != StatePaused {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = StatePlaying
	t := s.transport
	s.mu.Unlock()

	t.Resume()
	return nil
}

// Stop halts the active stream and returns the session to Idle. The voice
// connection stays up so another Play can follow immediately.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != StatePlaying && s.state != StatePaused {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.gen++
	s.state = StateIdle
	s.current = nil
	t := s.transport
	s.mu.Unlock()

	t.Stop()
	return nil
}

// Leave stops any active stream, tears down the voice transport and evicts
// the session from its registry. The session is terminal afterwards; a new
// one must be created to rejoin.
func (s *Session) Leave() error {
	s.mu.Lock()
	if s.state == StateRemoved {
		s.mu.Unlock()
		return ErrNotConnected
	}
	s.gen++
	s.state = StateRemoved
	s.current = nil
	t := s.transport
	s.mu.Unlock()

	t.Stop()
	err := t.Leave()
	s.registry.Remove(s.guildID)
	return err
}

// streamEnded is invoked by the transport when a stream finishes, cleanly
// or not. A non-nil error is logged only; playback completion is
// fire-and-forget from the caller's point of view.
func (s *Session) streamEnded(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || (s.state != StatePlaying && s.state != StatePaused) {
		return
	}
	if err != nil {
		log.Printf("[ERR] Player error in guild %s: %v", s.guildID, err)
	}
	s.state = StateIdle
	s.current = nil
}
