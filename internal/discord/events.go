package discord

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
	"groovebot/internal/music/player"
)

// onInteractionCreate dispatches slash commands and autocomplete queries
// to the command registry.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		cmdName := i.ApplicationCommandData().Name
		cmd, ok := core.GetCommand(cmdName)
		if !ok {
			log.Printf("[WARN] Unknown command: %s", cmdName)
			return
		}

		ctx := &core.SlashInteractionContext{
			Session: s,
			Event:   i,
			Storage: b.storage,
		}
		if err := cmd.Run(ctx); err != nil {
			log.Println("[ERR] Error running slash command:", err)
			core.RespondEmbedEphemeral(s, i, &discordgo.MessageEmbed{
				Description: fmt.Sprintf("Error running slash command: %v", err),
			})
		}

	case discordgo.InteractionApplicationCommandAutocomplete:
		cmdName := i.ApplicationCommandData().Name
		cmd, ok := core.GetCommand(cmdName)
		if !ok {
			return
		}
		handler, ok := cmd.(core.AutocompleteHandler)
		if !ok {
			return
		}

		ctx := &core.AutocompleteContext{
			Session: s,
			Event:   i,
			Storage: b.storage,
		}
		if err := handler.Autocomplete(ctx); err != nil {
			log.Printf("[WARN] Autocomplete for /%s failed: %v", cmdName, err)
		}
	}
}

// onVoiceStateUpdate watches for the bot being disconnected from voice by
// someone else (kick, channel delete). The session is torn down so its
// state matches reality instead of playing into the void.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	if s.State.User == nil || e.UserID != s.State.User.ID {
		return
	}
	if e.ChannelID != "" {
		return
	}

	sess, ok := b.sessions.Get(e.GuildID)
	if !ok {
		return
	}

	log.Printf("[INFO] Voice connection closed externally on guild %s, cleaning up session", e.GuildID)
	if err := sess.Leave(); err != nil && !errors.Is(err, player.ErrNotConnected) {
		log.Printf("[WARN] Cleanup after forced disconnect failed: %v", err)
	}
}
