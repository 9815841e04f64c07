package music

import (
	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
	"groovebot/internal/music/player"
)

type LeaveCommand struct {
	Bot core.BotVoice
}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Stop playback and leave the voice channel" }
func (c *LeaveCommand) Aliases() []string   { return []string{} }
func (c *LeaveCommand) Group() string       { return "music" }
func (c *LeaveCommand) Category() string    { return "🎵 Music" }

func (c *LeaveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *LeaveCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event := sc.Session, sc.Event

	sess, found := c.Bot.Sessions().Get(event.GuildID)
	if !found {
		return core.RespondEphemeral(session, event, "🎵 Not connected to a voice channel.")
	}

	if err := sess.Leave(); err != nil {
		return core.RespondEphemeral(session, event, userMessage(err))
	}

	return core.Respond(session, event, player.StateRemoved.StringEmoji()+" Left the voice channel.")
}
