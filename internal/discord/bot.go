// Package discord runs the bot: the gateway session, event handlers,
// slash-command registration and the per-guild playback wiring.
package discord

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/config"
	"groovebot/internal/core"
	"groovebot/internal/music/player"
	"groovebot/internal/music/resolver"
	"groovebot/internal/music/stream"
	"groovebot/internal/storage"
	"groovebot/pkg/retry"
)

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	storage  *storage.Storage
	cfg      *config.Config
	sessions *player.Registry
	resolver *resolver.Resolver

	// cmdLimiter paces bulk slash-command creation against the Discord
	// rate limit.
	cmdLimiter *retry.Limiter
	started    time.Time
}

// StartBot starts the Discord bot and blocks until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, store *storage.Storage) error {
	b := &Bot{
		cfg:        cfg,
		storage:    store,
		cmdLimiter: retry.New(time.Second/40, 3, 250*time.Millisecond, 2*time.Second),
		started:    time.Now(),
	}
	if err := b.run(ctx, cfg.DiscordToken); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

// run starts the Discord bot
func (b *Bot) run(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	b.resolver = resolver.New(resolver.Options{
		YtdlpPath:   b.cfg.YtdlpPath,
		CookiesFile: b.cfg.CookiesFile,
	})
	b.sessions = player.NewRegistry(b.resolver, func(guildID string) player.Transport {
		return stream.NewVoice(dg, guildID, stream.Options{
			FfmpegPath:        b.cfg.FfmpegPath,
			Gain:              b.cfg.AudioGain,
			Retries:           b.cfg.StreamRetries,
			ReconnectDelayMax: b.cfg.ReconnectDelayMax,
		})
	})

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	go statusServer(ctx, b, b.cfg.StatusAddr)

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	b.disconnectAll()
	return nil
}

// configureIntents configures the Discord intents
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
}

// disconnectAll leaves every connected voice channel, so guilds are not
// left with a ghost participant after shutdown.
func (b *Bot) disconnectAll() {
	for _, info := range b.sessions.Snapshot() {
		sess, ok := b.sessions.Get(info.GuildID)
		if !ok {
			continue
		}
		if err := sess.Leave(); err != nil {
			log.Printf("[WARN] Failed to leave voice on guild %s: %v", info.GuildID, err)
		}
	}
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	if err := s.UpdateGameStatus(0, "/help for commands"); err != nil {
		log.Println("[WARN] Failed to set presence:", err)
	}

	b.registerMusicCommands()

	if b.cfg.InitSlashCommands {
		for _, g := range r.Guilds {
			if err := b.registerCommands(g.ID); err != nil {
				log.Println("[ERR] Error registering slash commands for guild", g.ID, ":", err)
			}
		}
	} else {
		log.Println("[INFO] Registering slash commands skipped")
	}

	log.Printf("[INFO] ✅ Discord bot %v is running.", botInfo.Username)
}

// onGuildCreate is called when a guild is created
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	b.registerMusicCommands()

	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
	}
}

// registerCommands reconciles the guild's slash commands with the registry,
// creating changed ones and deleting obsolete ones. A local hash cache
// keeps unchanged commands off the API.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.dg.State.User.ID
	if appID == "" {
		user, err := b.dg.User("@me")
		if err != nil {
			return err
		}
		appID = user.ID
	}

	existing, _ := b.dg.ApplicationCommands(appID, guildID)
	localHashes := loadCommandHashes(guildID)

	var wanted []*discordgo.ApplicationCommand
	wantedHashes := make(map[string]string)
	for _, cmd := range core.AllCommands() {
		if def := normalizeDefinition(cmd); def != nil {
			wanted = append(wanted, def)
			wantedHashes[def.Name] = hashCommand(def)
		}
	}

	// Delete obsolete
	for _, old := range existing {
		if _, ok := wantedHashes[old.Name]; !ok {
			log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
			if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
				log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, old.Name, err)
			}
			delete(localHashes, old.Name)
		}
	}

	// Create or update changed commands
	var changed []*discordgo.ApplicationCommand
	for _, cmd := range wanted {
		if localHashes[cmd.Name] != wantedHashes[cmd.Name] {
			changed = append(changed, cmd)
		}
	}

	if len(changed) > 0 {
		log.Printf("[INFO] [%s] %d commands changed, updating with rate limit...", guildID, len(changed))
		b.registerCommandsWithRateLimit(guildID, changed)
		for _, c := range changed {
			localHashes[c.Name] = wantedHashes[c.Name]
		}
	}

	saveCommandHashes(guildID, localHashes)
	return nil
}

// normalizeDefinition normalizes a command definition
func normalizeDefinition(cmd core.Command) *discordgo.ApplicationCommand {
	slash, ok := cmd.(core.SlashProvider)
	if !ok {
		return nil
	}
	def := slash.SlashDefinition()
	if def == nil {
		return nil
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}

// registerCommandsWithRateLimit creates commands concurrently while the
// shared limiter paces the API calls and retries transient failures.
func (b *Bot) registerCommandsWithRateLimit(guildID string, cmds []*discordgo.ApplicationCommand) {
	var wg sync.WaitGroup

	for _, job := range cmds {
		wg.Add(1)

		go func(cmd *discordgo.ApplicationCommand) {
			defer wg.Done()

			err := b.cmdLimiter.Do(context.Background(), func() error {
				_, err := b.dg.ApplicationCommandCreate(b.dg.State.User.ID, guildID, cmd)
				return err
			})
			if err != nil {
				log.Printf("[ERR] Can't create command %s: %v", cmd.Name, err)
			} else {
				log.Printf("[DONE] Command created: %s", cmd.Name)
			}
		}(job)
	}

	wg.Wait()
}
