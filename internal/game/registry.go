package game

import "sync"

// Registry is the process-wide table of live rooms. It only guards the
// table itself; per-room state is serialized by each room's own mutex.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// CreateOrGet returns the room with the given id, creating it via
// factory if absent. Idempotent.
func (reg *Registry) CreateOrGet(id string, factory func() *Room) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room, ok := reg.rooms[id]; ok {
		return room
	}
	room := factory()
	reg.rooms[id] = room
	return room
}

func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}

func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Snapshot returns the current set of rooms. Callers must lock each
// room before reading its state.
func (reg *Registry) Snapshot() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		out = append(out, room)
	}
	return out
}
