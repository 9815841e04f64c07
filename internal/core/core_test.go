package core

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

type stubCommand struct {
	name    string
	aliases []string
	runs    int
}

func (c *stubCommand) Name() string        { return c.name }
func (c *stubCommand) Description() string { return "stub" }
func (c *stubCommand) Aliases() []string   { return c.aliases }
func (c *stubCommand) Group() string       { return "test" }
func (c *stubCommand) Category() string    { return "Test" }
func (c *stubCommand) Run(ctx interface{}) error {
	c.runs++
	return nil
}

func slashCtx(guildID string) *SlashInteractionContext {
	return &SlashInteractionContext{
		Event: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{GuildID: guildID},
		},
	}
}

func TestRegistryAliasLookup(t *testing.T) {
	cmd := &stubCommand{name: "nowplaying", aliases: []string{"np"}}
	RegisterCommand(cmd)

	for _, name := range []string{"nowplaying", "np"} {
		got, ok := GetCommand(name)
		if !ok {
			t.Fatalf("GetCommand(%q) not found", name)
		}
		if got.Name() != "nowplaying" {
			t.Errorf("GetCommand(%q).Name() = %q", name, got.Name())
		}
	}

	if _, ok := GetCommand("unregistered"); ok {
		t.Error("GetCommand returned a command for an unregistered name")
	}
}

func TestAllCommandsDeduplicatesAliases(t *testing.T) {
	RegisterCommand(&stubCommand{name: "aliased", aliases: []string{"a1", "a2"}})

	count := 0
	for _, cmd := range AllCommands() {
		if cmd.Name() == "aliased" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("AllCommands lists %q %d times, want 1", "aliased", count)
	}
}

func TestWithGuildOnly(t *testing.T) {
	inner := &stubCommand{name: "guildonly"}
	cmd := ApplyMiddlewares(inner, WithGuildOnly())

	if err := cmd.Run(slashCtx("")); err != nil {
		t.Fatalf("Run() on DM context error = %v", err)
	}
	if inner.runs != 0 {
		t.Error("command ran for a DM interaction")
	}

	if err := cmd.Run(slashCtx("guild-1")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if inner.runs != 1 {
		t.Errorf("command runs = %d, want 1", inner.runs)
	}
}

func TestWrappedCommandForwardsSlashDefinition(t *testing.T) {
	inner := &stubCommand{name: "plain"}
	wrapped := ApplyMiddlewares(inner, WithGuildOnly())

	sp, ok := wrapped.(SlashProvider)
	if !ok {
		t.Fatal("wrapped command lost the SlashProvider surface")
	}
	// The inner stub is not a SlashProvider, so the wrapper reports nil.
	if def := sp.SlashDefinition(); def != nil {
		t.Errorf("SlashDefinition() = %+v, want nil", def)
	}
}
