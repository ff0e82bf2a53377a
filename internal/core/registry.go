package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jamwave/jamroom/internal/domain"
)

// Registry is the process-wide room map. Rooms are created lazily on first
// reference and never evicted; memory grows with distinct ids ever seen.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]*Room)}
}

// GetOrCreate returns the room for id, creating it on first reference.
// Concurrent calls with the same id observe one room.
func (g *Registry) GetOrCreate(id domain.RoomID) *Room {
	g.mu.RLock()
	room, ok := g.rooms[id]
	g.mu.RUnlock()
	if ok {
		return room
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if room, ok = g.rooms[id]; ok {
		return room
	}
	room = NewRoom(id)
	g.rooms[id] = room
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("room created")
	return room
}

func (g *Registry) List() []RoomInfo {
	rooms := g.Rooms()
	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Info())
	}
	return out
}

// Rooms returns a point-in-time slice of registered rooms. Per-room work on
// the result happens outside the registry lock.
func (g *Registry) Rooms() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, r)
	}
	return out
}
