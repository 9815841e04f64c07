package music

import (
	"groovebot/internal/core"

	"github.com/bwmarrin/discordgo"
)

type JoinCommand struct {
	Bot core.BotVoice
}

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Description() string { return "Summon the bot to your voice channel" }
func (c *JoinCommand) Aliases() []string   { return []string{} }
func (c *JoinCommand) Group() string       { return "music" }
func (c *JoinCommand) Category() string    { return "🎵 Music" }

func (c *JoinCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *JoinCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event := sc.Session, sc.Event

	voiceState, err := c.Bot.FindUserVoiceState(event.GuildID, event.Member.User.ID)
	if err != nil {
		return core.RespondEphemeral(session, event, userMessage(err))
	}

	sess := c.Bot.Sessions().GetOrCreate(event.GuildID)
	if err := sess.Join(voiceState.ChannelID); err != nil {
		return core.RespondEphemeral(session, event, userMessage(err))
	}

	return core.Respond(session, event, "🔊 Joined your voice channel.")
}
