// Package core is the command framework: the Command interface, the global
// registry, middlewares and interaction reply helpers.
package core

import (
	"groovebot/internal/storage"

	"github.com/bwmarrin/discordgo"
)

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Group() string
	Category() string
	Run(ctx interface{}) error
}

// Providers - how this command should be registered with Discord
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// AutocompleteHandler is implemented by commands that answer autocomplete
// queries for their options.
type AutocompleteHandler interface {
	Autocomplete(ctx *AutocompleteContext) error
}

// Contexts - what runtime hands you when executing a command
type SlashInteractionContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}

type AutocompleteContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}
