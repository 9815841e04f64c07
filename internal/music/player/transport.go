package player

import (
	"context"

	"groovebot/internal/music/resolver"
)

// Transport carries encoded audio into a voice channel. Implementations are
// owned by exactly one Session and must be safe for concurrent use.
type Transport interface {
	// Join connects to the given voice channel, moving the connection if it
	// is already up elsewhere.
	Join(channelID string) error
	// Leave disconnects and releases the underlying voice connection.
	Leave() error
	// Play starts streaming the track. It must return once the stream is
	// launched, then invoke done exactly once from another goroutine when
	// the stream finishes. done receives nil on clean completion and the
	// stream error otherwise. Play must never call done synchronously.
	Play(track *resolver.Track, done func(error)) error
	// Stop aborts the active stream, if any. The stream's done callback
	// still fires exactly once.
	Stop()
	Pause()
	Resume()
	Playing() bool
	Paused() bool
	// ChannelID reports the connected voice channel, empty when down.
	ChannelID() string
}

// Resolver turns a user query into a streamable track.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*resolver.Track, error)
}
