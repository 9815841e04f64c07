package core

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"groovebot/internal/core"
)

const (
	discordMaxMessageLength = 2000
	codeLeftBlockWrapper    = "```md"
	codeRightBlockWrapper   = "```"
)

var maxContentLength = discordMaxMessageLength - len(codeLeftBlockWrapper) - len(codeRightBlockWrapper)

type LogCommand struct{}

func (c *LogCommand) Name() string        { return "log" }
func (c *LogCommand) Description() string { return "Review recently used commands" }
func (c *LogCommand) Aliases() []string   { return []string{} }
func (c *LogCommand) Group() string       { return "core" }
func (c *LogCommand) Category() string    { return "🛠️ Maintenance" }

func (c *LogCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *LogCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session, event := context.Session, context.Event

	records, err := context.Storage.FetchCommandHistory(event.GuildID)
	if err != nil {
		return core.RespondEphemeral(session, event, fmt.Sprintf("Failed to fetch command history: %v", err))
	}
	if len(records) == 0 {
		return core.RespondEphemeral(session, event, "No command history found yet.")
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%-19s\t%-15s\t%-15s\t%s\n", "# Datetime", "# Username", "# Channel", "# Command"))

	// Newest first, trimmed to what fits in one message.
	for idx := len(records) - 1; idx >= 0; idx-- {
		rec := records[idx]
		entry := fmt.Sprintf(
			"%-19s\t%-15s\t#%-14s\t%s\n",
			rec.Datetime.Format("2006-01-02 15:04:05"),
			rec.Username,
			rec.ChannelName,
			rec.Command,
		)
		if builder.Len()+len(entry) > maxContentLength {
			break
		}
		builder.WriteString(entry)
	}

	return core.RespondEphemeral(session, event, codeLeftBlockWrapper+"\n"+builder.String()+codeRightBlockWrapper)
}

func init() {
	core.RegisterCommand(
		core.ApplyMiddlewares(
			&LogCommand{},
			core.WithGuildOnly(),
			core.WithCommandLogger(),
		),
	)
}
