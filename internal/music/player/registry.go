package player

import "sync"

// TransportFactory builds the voice transport for a new guild session.
type TransportFactory func(guildID string) Transport

// Registry maps guild IDs to their playback sessions. Lookups for the same
// guild always return the same live session until it is removed.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	resolver Resolver
	factory  TransportFactory
}

func NewRegistry(res Resolver, factory TransportFactory) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		resolver: res,
		factory:  factory,
	}
}

// GetOrCreate returns the guild's session, creating an idle one on first
// use.
func (r *Registry) GetOrCreate(guildID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[guildID]; ok {
		return s
	}
	s := &Session{
		guildID:   guildID,
		state:     StateIdle,
		transport: r.factory(guildID),
		resolver:  r.resolver,
		registry:  r,
	}
	r.sessions[guildID] = s
	return s
}

// Get returns the guild's session without creating one.
func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// Remove evicts the guild's session. Removing an absent guild is a no-op.
func (r *Registry) Remove(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SessionInfo is a point-in-time view of one session, for status reporting.
type SessionInfo struct {
	GuildID   string `json:"guild_id"`
	State     string `json:"state"`
	ChannelID string `json:"channel_id,omitempty"`
	Track     string `json:"track,omitempty"`
}

// Snapshot captures every live session. Each entry is read under that
// session's own lock, so the slice is consistent per session, not globally.
func (r *Registry) Snapshot() []SessionInfo {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		info := SessionInfo{
			GuildID:   s.guildID,
			State:     s.state.String(),
			ChannelID: s.transport.ChannelID(),
		}
		if s.current != nil {
			info.Track = s.current.Title
		}
		s.mu.Unlock()
		infos = append(infos, info)
	}
	return infos
}
