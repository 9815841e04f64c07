package discord

import (
	"context"

	"groovebot/internal/commands/music"
	"groovebot/internal/core"
	"groovebot/internal/music/player"
	"groovebot/internal/music/resolver"
)

// registerMusicCommands registers the voice commands. They cannot
// self-register from init because they need the bot instance.
func (b *Bot) registerMusicCommands() {
	for _, cmd := range []core.Command{
		&music.JoinCommand{Bot: b},
		&music.PlayCommand{Bot: b},
		&music.PauseCommand{Bot: b},
		&music.ResumeCommand{Bot: b},
		&music.StopCommand{Bot: b},
		&music.LeaveCommand{Bot: b},
		&music.NowPlayingCommand{Bot: b},
		&music.HistoryCommand{Bot: b},
	} {
		core.RegisterCommand(
			core.ApplyMiddlewares(
				cmd,
				core.WithGuildOnly(),
				core.WithCommandLogger(),
			),
		)
	}
}

// Sessions returns the guild playback session registry.
func (b *Bot) Sessions() *player.Registry {
	return b.sessions
}

// Suggest returns autocomplete suggestions for a partial query.
func (b *Bot) Suggest(ctx context.Context, partial string, limit int) []resolver.Suggestion {
	return b.resolver.Suggest(ctx, partial, limit)
}

// FindUserVoiceState finds the voice state of a user
func (b *Bot) FindUserVoiceState(guildID, userID string) (*core.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, player.ErrNotInVoiceChannel
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return &core.VoiceState{
				ChannelID: vs.ChannelID,
				UserID:    vs.UserID,
			}, nil
		}
	}
	return nil, player.ErrNotInVoiceChannel
}
