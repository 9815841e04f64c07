package music

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
	"groovebot/internal/music/player"
)

type ResumeCommand struct {
	Bot core.BotVoice
}

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume a paused track" }
func (c *ResumeCommand) Aliases() []string   { return []string{} }
func (c *ResumeCommand) Group() string       { return "music" }
func (c *ResumeCommand) Category() string    { return "🎵 Music" }

func (c *ResumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *ResumeCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event := sc.Session, sc.Event

	sess, found := c.Bot.Sessions().Get(event.GuildID)
	if !found {
		return core.RespondEphemeral(session, event, "🎵 Not connected to a voice channel.")
	}

	if err := sess.Resume(); err != nil {
		if errors.Is(err, player.ErrInvalidState) {
			return core.RespondEphemeral(session, event, "🎵 Playback is not paused.")
		}
		return core.RespondEphemeral(session, event, userMessage(err))
	}

	return core.Respond(session, event, player.StatePlaying.StringEmoji()+" Playback resumed.")
}
