package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/music/player"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()

	state := discordgo.NewState()
	err := state.GuildAdd(&discordgo.Guild{
		ID: "guild-1",
		VoiceStates: []*discordgo.VoiceState{
			{GuildID: "guild-1", ChannelID: "voice-1", UserID: "user-in-voice"},
		},
	})
	if err != nil {
		t.Fatalf("GuildAdd() returned error: %v", err)
	}

	return &Bot{
		dg:       &discordgo.Session{State: state},
		sessions: player.NewRegistry(nil, nil),
	}
}

func TestFindUserVoiceState(t *testing.T) {
	b := newTestBot(t)

	vs, err := b.FindUserVoiceState("guild-1", "user-in-voice")
	if err != nil {
		t.Fatalf("FindUserVoiceState() returned error: %v", err)
	}
	if vs.ChannelID != "voice-1" {
		t.Errorf("ChannelID = %q, want voice-1", vs.ChannelID)
	}
	if vs.UserID != "user-in-voice" {
		t.Errorf("UserID = %q, want user-in-voice", vs.UserID)
	}
}

func TestFindUserVoiceStateNotInVoice(t *testing.T) {
	b := newTestBot(t)

	tests := []struct {
		name    string
		guildID string
		userID  string
	}{
		{"user not in any channel", "guild-1", "user-elsewhere"},
		{"unknown guild", "guild-unknown", "user-in-voice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.FindUserVoiceState(tt.guildID, tt.userID)
			if !errors.Is(err, player.ErrNotInVoiceChannel) {
				t.Fatalf("FindUserVoiceState() error = %v, want ErrNotInVoiceChannel", err)
			}
			// A failed lookup must never leave a session behind.
			if b.sessions.Len() != 0 {
				t.Errorf("sessions.Len() = %d, want 0", b.sessions.Len())
			}
		})
	}
}
