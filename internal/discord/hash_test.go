package discord

import (
	"os"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func playDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "play",
		Description: "Play a track",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "query",
				Description:  "Link or search query",
				Required:     true,
				Autocomplete: true,
			},
		},
	}
}

func TestHashCommandDeterministic(t *testing.T) {
	a := hashCommand(playDefinition())
	b := hashCommand(playDefinition())
	if a != b {
		t.Errorf("hashCommand() not deterministic: %s != %s", a, b)
	}
}

func TestHashCommandIgnoresOptionOrder(t *testing.T) {
	def := &discordgo.ApplicationCommand{
		Name:        "multi",
		Description: "Command with two options",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "alpha", Description: "a"},
			{Type: discordgo.ApplicationCommandOptionString, Name: "beta", Description: "b"},
		},
	}
	reversed := &discordgo.ApplicationCommand{
		Name:        "multi",
		Description: "Command with two options",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "beta", Description: "b"},
			{Type: discordgo.ApplicationCommandOptionString, Name: "alpha", Description: "a"},
		},
	}

	if hashCommand(def) != hashCommand(reversed) {
		t.Error("hashCommand() changed with option order")
	}
}

func TestHashCommandChangesOnEdit(t *testing.T) {
	base := hashCommand(playDefinition())

	edited := playDefinition()
	edited.Description = "Play a YouTube track"
	if hashCommand(edited) == base {
		t.Error("hashCommand() unchanged after description edit")
	}

	noComplete := playDefinition()
	noComplete.Options[0].Autocomplete = false
	if hashCommand(noComplete) == base {
		t.Error("hashCommand() unchanged after autocomplete toggle")
	}
}

func TestCommandHashCacheRoundTrip(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if got := loadCommandHashes("guild-1"); len(got) != 0 {
		t.Fatalf("fresh cache = %v, want empty", got)
	}

	saveCommandHashes("guild-1", map[string]string{"play": "abc123", "stop": "def456"})

	got := loadCommandHashes("guild-1")
	if got["play"] != "abc123" || got["stop"] != "def456" || len(got) != 2 {
		t.Errorf("loaded cache = %v, want the saved hashes", got)
	}
}
