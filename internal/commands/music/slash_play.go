package music

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
	"groovebot/internal/music/player"
	"groovebot/internal/storage"
)

// resolveTimeout caps how long one play request may spend in yt-dlp and
// the search backend. The interaction is deferred, so the reply arrives as
// a followup either way.
const resolveTimeout = 2 * time.Minute

type PlayCommand struct {
	Bot core.BotVoice
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a YouTube track by link or search query" }
func (c *PlayCommand) Aliases() []string   { return []string{} }
func (c *PlayCommand) Group() string       { return "music" }
func (c *PlayCommand) Category() string    { return "🎵 Music" }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "query",
				Description:  "Link to a video or a search query",
				Required:     true,
				Autocomplete: true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event, store := sc.Session, sc.Event, sc.Storage
	guildID := event.GuildID
	member := event.Member

	var query string
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = strings.TrimSpace(opt.StringValue())
		}
	}
	if query == "" {
		return core.RespondEphemeral(session, event, "🎵 Error: query is required")
	}

	// Resolution can outlive the three second interaction window.
	if err := core.RespondDeferred(session, event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	voiceState, err := c.Bot.FindUserVoiceState(guildID, member.User.ID)
	if err != nil {
		return core.FollowupEphemeral(session, event, userMessage(err))
	}

	sess := c.Bot.Sessions().GetOrCreate(guildID)
	if err := sess.Join(voiceState.ChannelID); err != nil {
		return core.FollowupEphemeral(session, event, userMessage(err))
	}

	rctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	track, err := sess.Play(rctx, query)
	if err != nil {
		return core.FollowupEphemeral(session, event, userMessage(err))
	}

	if e := store.AppendTrackHistory(guildID, storage.TrackHistoryRecord{
		Title:     track.Title,
		Uploader:  track.Uploader,
		SourceURL: track.SourceURL,
		PlayedAt:  time.Now(),
	}); e != nil {
		log.Println("[WARN] Failed to record track history:", e)
	}

	desc := trackLine(track)
	if track.Duration > 0 {
		desc += " `" + fmtDuration(track.Duration) + "`"
	}

	return core.FollowupEmbed(session, event, &discordgo.MessageEmbed{
		Title:       player.StatePlaying.StringEmoji() + " Now Playing",
		Description: desc,
		Color:       core.EmbedColor,
	})
}

// Autocomplete suggests tracks for the partial query. Discord expects an
// answer within about three seconds, so the lookup is capped well below
// that.
func (c *PlayCommand) Autocomplete(ctx *core.AutocompleteContext) error {
	var partial string
	for _, opt := range ctx.Event.ApplicationCommandData().Options {
		if opt.Name == "query" && opt.Focused {
			partial = strings.TrimSpace(opt.StringValue())
		}
	}
	if partial == "" {
		return core.RespondChoices(ctx.Session, ctx.Event, nil)
	}

	sctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	suggestions := c.Bot.Suggest(sctx, partial, 10)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(suggestions))
	for _, s := range suggestions {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(s.Title, 100),
			Value: s.URL,
		})
	}
	return core.RespondChoices(ctx.Session, ctx.Event, choices)
}
