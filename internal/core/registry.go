package core

import "sync"

// The voice commands are registered at runtime once the bot instance
// exists, concurrently with ready/guild-create handlers, so the registry
// is locked unlike a plain init-time map.
var (
	regMu    sync.RWMutex
	registry = map[string]Command{}
)

// RegisterCommand registers a command under its name and aliases.
// Re-registering a name replaces the previous command.
func RegisterCommand(cmd Command) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		registry[a] = cmd
	}
}

// GetCommand returns the command with the given name
func GetCommand(name string) (Command, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	cmd, ok := registry[name]
	return cmd, ok
}

// AllCommands returns all registered commands
func AllCommands() []Command {
	regMu.RLock()
	defer regMu.RUnlock()

	seen := map[string]bool{}
	list := make([]Command, 0)
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	return list
}
