package music

import (
	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
)

type NowPlayingCommand struct {
	Bot core.BotVoice
}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show the track currently playing" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np"} }
func (c *NowPlayingCommand) Group() string       { return "music" }
func (c *NowPlayingCommand) Category() string    { return "🎵 Music" }

func (c *NowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *NowPlayingCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event := sc.Session, sc.Event

	sess, found := c.Bot.Sessions().Get(event.GuildID)
	if !found {
		return core.RespondEphemeral(session, event, "🎵 Not connected to a voice channel.")
	}

	track := sess.CurrentTrack()
	if track == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing right now.")
	}
	state := sess.State()

	desc := trackLine(track)
	if track.Duration > 0 {
		desc += " `" + fmtDuration(track.Duration) + "`"
	}

	embed := &discordgo.MessageEmbed{
		Title:       state.StringEmoji() + " " + state.String(),
		Description: desc,
		Color:       core.EmbedColor,
	}
	if track.Uploader != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: track.Uploader}
	}

	return core.RespondEmbed(session, event, embed)
}
