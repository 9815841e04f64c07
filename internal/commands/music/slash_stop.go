package music

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
	"groovebot/internal/music/player"
)

type StopCommand struct {
	Bot core.BotVoice
}

func (c *StopCommand) Name() string { return "stop" }
func (c *StopCommand) Description() string {
	return "Stop playback but stay in the voice channel"
}
func (c *StopCommand) Aliases() []string { return []string{} }
func (c *StopCommand) Group() string     { return "music" }
func (c *StopCommand) Category() string  { return "🎵 Music" }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *StopCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event := sc.Session, sc.Event

	sess, found := c.Bot.Sessions().Get(event.GuildID)
	if !found {
		return core.RespondEphemeral(session, event, "🎵 Not connected to a voice channel.")
	}

	if err := sess.Stop(); err != nil {
		if errors.Is(err, player.ErrInvalidState) {
			return core.RespondEphemeral(session, event, "🎵 Nothing is playing right now.")
		}
		return core.RespondEphemeral(session, event, userMessage(err))
	}

	return core.Respond(session, event, "⏹️ Playback stopped.")
}
