package service

import "sync"

// Registry is the process-wide room store. It is an explicitly owned value
// passed into the hub rather than a hidden global, so tests can run
// isolated instances. Insert and remove are atomic relative to lookups:
// no lookup ever observes a partially constructed room.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*room
	playerRoom map[string]string
	// waiting is the FIFO matchmaking slot: the player ID currently
	// waiting for an opponent, or empty.
	waiting string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:      make(map[string]*room),
		playerRoom: make(map[string]string),
	}
}

// insert stores a fully constructed room and maps its participants.
func (reg *Registry) insert(rm *room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rooms[rm.ID] = rm
	for _, id := range rm.PlayerOrder {
		reg.playerRoom[id] = rm.ID
	}
}

// remove unmaps the room and its players. Safe to call twice.
func (reg *Registry) remove(roomID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	rm, ok := reg.rooms[roomID]
	if !ok {
		return
	}
	delete(reg.rooms, roomID)
	for _, id := range rm.PlayerOrder {
		if reg.playerRoom[id] == roomID {
			delete(reg.playerRoom, id)
		}
	}
}

// lookup returns the room by ID.
func (reg *Registry) lookup(roomID string) (*room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rm, ok := reg.rooms[roomID]
	return rm, ok
}

// roomOf returns the room a player currently belongs to.
func (reg *Registry) roomOf(playerID string) (*room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	roomID, ok := reg.playerRoom[playerID]
	if !ok {
		return nil, false
	}
	rm, ok := reg.rooms[roomID]
	return rm, ok
}

// inRoom reports whether the player is mapped to any room.
func (reg *Registry) inRoom(playerID string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.playerRoom[playerID]
	return ok
}

// takeWaiting swaps the waiting slot: it returns the previously waiting
// player (and clears the slot) or parks the caller when the slot is empty.
func (reg *Registry) takeWaiting(playerID string) (opponentID string, parked bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.waiting == "" || reg.waiting == playerID {
		reg.waiting = playerID
		return "", true
	}
	opponentID = reg.waiting
	reg.waiting = ""
	return opponentID, false
}

// clearWaiting drops the waiting slot if it is held by the given player.
func (reg *Registry) clearWaiting(playerID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.waiting == playerID {
		reg.waiting = ""
	}
}

// count reports how many rooms are live.
func (reg *Registry) count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
