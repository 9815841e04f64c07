package music

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
)

type HistoryCommand struct {
	Bot core.BotVoice
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "List recently played tracks" }
func (c *HistoryCommand) Aliases() []string   { return []string{} }
func (c *HistoryCommand) Group() string       { return "music" }
func (c *HistoryCommand) Category() string    { return "🎵 Music" }

func (c *HistoryCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *HistoryCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event, store := sc.Session, sc.Event, sc.Storage

	records, err := store.FetchTrackHistory(event.GuildID)
	if err != nil {
		return core.RespondEphemeral(session, event, "🎵 Error: "+err.Error())
	}
	if len(records) == 0 {
		return core.RespondEphemeral(session, event, "🎵 No tracks have been played here yet.")
	}

	// Newest first; storage keeps them in play order.
	var sb strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		title := r.Title
		if title == "" {
			title = r.SourceURL
		}
		if r.SourceURL != "" {
			sb.WriteString(fmt.Sprintf("`%2d.` [%s](%s)", len(records)-i, truncate(title, 80), r.SourceURL))
		} else {
			sb.WriteString(fmt.Sprintf("`%2d.` %s", len(records)-i, truncate(title, 80)))
		}
		if !r.PlayedAt.IsZero() {
			sb.WriteString(fmt.Sprintf(" <t:%d:R>", r.PlayedAt.Unix()))
		}
		sb.WriteString("\n")
	}

	return core.RespondEmbed(session, event, &discordgo.MessageEmbed{
		Title:       "🎶 Recently Played",
		Description: sb.String(),
		Color:       core.EmbedColor,
	})
}
