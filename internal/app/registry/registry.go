package registry

import (
	"context"
	"sync"

	"github.com/eric-kaloki/server-medconnect/internal/core/contracts"
)

// Registry is the in-memory room membership table. Rooms are created on
// first join and deleted when the last member leaves, so an empty room
// and a non-existent room are indistinguishable.
//
// A connection may be in any number of rooms. All maps are guarded by a
// single RWMutex; every mutation is a short memory operation, so one
// lock keeps join/leave/disconnect and broadcast from interleaving
// without becoming a bottleneck.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]contracts.Client            // conn id → client
	rooms   map[string]map[string]contracts.Client // room id → member set
	joined  map[string]map[string]struct{}         // conn id → rooms joined
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]contracts.Client),
		rooms:   make(map[string]map[string]contracts.Client),
		joined:  make(map[string]map[string]struct{}),
	}
}

func (h *Registry) Register(c contracts.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID()] = c
}

// Unregister purges the connection from every room it was a member of.
// Must run exactly once per connection teardown or membership leaks.
func (h *Registry) Unregister(c contracts.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := c.ID()
	for roomID := range h.joined[id] {
		h.removeLocked(id, roomID)
	}
	delete(h.joined, id)
	delete(h.clients, id)
}

func (h *Registry) Join(c contracts.Client, roomID string) {
	if roomID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := c.ID()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]contracts.Client)
	}
	h.rooms[roomID][id] = c
	if h.joined[id] == nil {
		h.joined[id] = make(map[string]struct{})
	}
	h.joined[id][roomID] = struct{}{}
}

func (h *Registry) Leave(c contracts.Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := c.ID()
	h.removeLocked(id, roomID)
	if set := h.joined[id]; set != nil {
		delete(set, roomID)
		if len(set) == 0 {
			delete(h.joined, id)
		}
	}
}

// removeLocked drops the member and garbage collects the room if it is
// now empty. Caller holds the write lock.
func (h *Registry) removeLocked(id, roomID string) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// Broadcast delivers data to every member of the room except exceptID.
// An empty exceptID reaches all members, which is how the HTTP call-state
// endpoints address a room without being in it. Unknown rooms are a
// silent no-op: fire-and-forget signaling has no one to report to.
func (h *Registry) Broadcast(ctx context.Context, roomID, exceptID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.rooms[roomID] {
		if id == exceptID {
			continue
		}
		_ = c.Send(ctx, data)
	}
}

// RoomSize reports current membership, mainly for tests and logs.
func (h *Registry) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Rooms reports how many rooms the connection is currently in.
func (h *Registry) Rooms(id string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.joined[id])
}
