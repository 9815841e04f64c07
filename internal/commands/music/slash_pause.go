package music

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
	"groovebot/internal/music/player"
)

type PauseCommand struct {
	Bot core.BotVoice
}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause the current track" }
func (c *PauseCommand) Aliases() []string   { return []string{} }
func (c *PauseCommand) Group() string       { return "music" }
func (c *PauseCommand) Category() string    { return "🎵 Music" }

func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PauseCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event := sc.Session, sc.Event

	sess, found := c.Bot.Sessions().Get(event.GuildID)
	if !found {
		return core.RespondEphemeral(session, event, "🎵 Not connected to a voice channel.")
	}

	if err := sess.Pause(); err != nil {
		if errors.Is(err, player.ErrInvalidState) {
			return core.RespondEphemeral(session, event, "🎵 Nothing is playing right now.")
		}
		return core.RespondEphemeral(session, event, userMessage(err))
	}

	return core.Respond(session, event, player.StatePaused.StringEmoji()+" Playback paused.")
}
