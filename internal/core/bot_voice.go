package core

import (
	"context"

	"groovebot/internal/music/player"
	"groovebot/internal/music/resolver"
)

// BotVoice is the surface the music commands use to reach the bot's
// playback machinery without importing the discord package.
type BotVoice interface {
	// Sessions returns the guild session registry.
	Sessions() *player.Registry
	// Suggest returns autocomplete suggestions for a partial query.
	Suggest(ctx context.Context, partial string, limit int) []resolver.Suggestion
	// FindUserVoiceState locates the voice channel a user is connected to.
	// It returns player.ErrNotInVoiceChannel when the user is in none.
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
}

// VoiceState holds minimal voice channel state for a user.
type VoiceState struct {
	ChannelID string
	UserID    string
}
