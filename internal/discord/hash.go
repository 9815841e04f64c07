package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// Slash commands are reconciled by fingerprint: each definition is reduced
// to the fields Discord serves and hashed, and only commands whose hash
// differs from the cached one touch the API.

type commandShape struct {
	Name        string                           `json:"name"`
	Description string                           `json:"description"`
	Type        discordgo.ApplicationCommandType `json:"type"`
	Options     []optionShape                    `json:"options,omitempty"`
}

type optionShape struct {
	Name         string                                 `json:"name"`
	Description  string                                 `json:"description"`
	Type         discordgo.ApplicationCommandOptionType `json:"type"`
	Required     bool                                   `json:"required"`
	Autocomplete bool                                   `json:"autocomplete,omitempty"`
	Choices      []choiceShape                          `json:"choices,omitempty"`
	Options      []optionShape                          `json:"options,omitempty"`
}

type choiceShape struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// hashCommand fingerprints a command definition. Runtime fields (IDs,
// version) never enter the hash and option order is irrelevant; toggling
// autocomplete changes it.
func hashCommand(cmd *discordgo.ApplicationCommand) string {
	shape := commandShape{
		Name:        cmd.Name,
		Description: cmd.Description,
		Type:        cmd.Type,
		Options:     shapeOptions(cmd.Options),
	}
	data, _ := json.Marshal(shape)
	return fmt.Sprintf("%x", sha1.Sum(data))
}

func shapeOptions(opts []*discordgo.ApplicationCommandOption) []optionShape {
	if len(opts) == 0 {
		return nil
	}
	shaped := make([]optionShape, 0, len(opts))
	for _, o := range opts {
		s := optionShape{
			Name:         o.Name,
			Description:  o.Description,
			Type:         o.Type,
			Required:     o.Required,
			Autocomplete: o.Autocomplete,
			Options:      shapeOptions(o.Options),
		}
		for _, c := range o.Choices {
			s.Choices = append(s.Choices, choiceShape{Name: c.Name, Value: c.Value})
		}
		shaped = append(shaped, s)
	}
	sort.Slice(shaped, func(i, j int) bool { return shaped[i].Name < shaped[j].Name })
	return shaped
}

// commandCachePath returns the on-disk location of a guild's hash cache.
func commandCachePath(guildID string) string {
	return filepath.Join("data", "commands", guildID+".json")
}

// loadCommandHashes reads the cached hashes for a guild. A missing or
// unreadable cache simply means every command looks changed.
func loadCommandHashes(guildID string) map[string]string {
	hashes := make(map[string]string)

	raw, err := os.ReadFile(commandCachePath(guildID))
	if err == nil {
		_ = json.Unmarshal(raw, &hashes)
	}
	return hashes
}

// saveCommandHashes persists the guild's command hashes.
func saveCommandHashes(guildID string, hashes map[string]string) {
	path := commandCachePath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	raw, _ := json.MarshalIndent(hashes, "", "  ")
	_ = os.WriteFile(path, raw, 0644)
}
