// Package music holds the voice playback commands. They are registered at
// runtime with the bot instance bound, not from init, because they need the
// session registry and resolver.
package music

import (
	"errors"
	"fmt"
	"time"

	"groovebot/internal/music/player"
	"groovebot/internal/music/resolver"
)

// userMessage translates playback errors into replies that tell the user
// what to do next. More specific kinds are matched before the wrappers.
func userMessage(err error) string {
	switch {
	case errors.Is(err, player.ErrNotInVoiceChannel):
		return "🎵 You need to be in a voice channel first."
	case errors.Is(err, player.ErrAlreadyPlaying):
		return "🎵 Already playing. Use `/stop` before starting another track."
	case errors.Is(err, player.ErrNotConnected):
		return "🎵 Not connected to a voice channel. Use `/join` or `/play`."
	case errors.Is(err, player.ErrInvalidState):
		return "🎵 Nothing to do in the current playback state."
	case errors.Is(err, resolver.ErrNotFound):
		return "🎵 No playable result found for that query."
	case errors.Is(err, resolver.ErrNetwork):
		return "🎵 The media backend is unreachable, try again in a bit."
	case errors.Is(err, resolver.ErrBadMetadata):
		return "🎵 The source returned unusable track data."
	case errors.Is(err, player.ErrResolutionFailed):
		return "🎵 Failed to resolve that query."
	default:
		return "🎵 Error: " + err.Error()
	}
}

func trackLine(t *resolver.Track) string {
	switch {
	case t.Title != "" && t.SourceURL != "":
		return fmt.Sprintf("🎶 [%s](%s)", t.Title, t.SourceURL)
	case t.Title != "":
		return "🎶 " + t.Title
	case t.SourceURL != "":
		return "🎶 " + t.SourceURL
	default:
		return "🎶 Unknown track"
	}
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
