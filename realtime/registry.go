// realtime/registry.go - Room broadcast registry
//
// Maps room IDs to their current members. Owned by main and passed by
// reference into the handlers that need it; membership lives only as
// long as the connection, so a reconnecting client re-joins explicitly.
package realtime

import (
	"log"
	"sync"
)

// Event kinds relayed to room members.
const (
	EventMessage         = "message"
	EventPlayerJoined    = "playerJoined"
	EventPlayerLeft      = "playerLeft"
	EventAnswerSubmitted = "answerSubmitted"
	EventGameStarted     = "gameStarted"
	EventGameFinished    = "gameFinished"
	EventRoomClosed      = "roomClosed"
)

// Event is the wire envelope for everything the relay fans out. The
// relay never inspects Payload; validation happens before the event is
// handed in.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[*Client]bool)}
}

// Join adds the client to a room. Re-joining is a no-op.
func (r *Registry) Join(roomID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[*Client]bool)
		r.rooms[roomID] = members
	}
	members[c] = true
}

// Leave removes the client from one room. Empty rooms are deleted.
func (r *Registry) Leave(roomID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if members, ok := r.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
}

// Drop removes the client from every room it is in. Called on
// disconnect.
func (r *Registry) Drop(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for roomID, members := range r.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(r.rooms, roomID)
			}
		}
	}
}

// Broadcast delivers an event to every current member of the room,
// best effort. A room with no members is a no-op. A member that cannot
// take the event is closed; the rest still get it.
func (r *Registry) Broadcast(roomID string, ev Event) {
	r.mu.RLock()
	members := make([]*Client, 0, len(r.rooms[roomID]))
	for c := range r.rooms[roomID] {
		members = append(members, c)
	}
	r.mu.RUnlock()

	for _, c := range members {
		c.enqueue(ev)
	}
}

// CloseRoom tells members the room is gone and removes it.
func (r *Registry) CloseRoom(roomID string) {
	r.mu.Lock()
	members := r.rooms[roomID]
	delete(r.rooms, roomID)
	r.mu.Unlock()

	for c := range members {
		c.enqueue(Event{Type: EventRoomClosed, Payload: map[string]string{"roomId": roomID}})
	}
	if len(members) > 0 {
		log.Printf("🧹 Closed room %s (%d members)", roomID, len(members))
	}
}

// RoomSize reports the current member count of a room.
func (r *Registry) RoomSize(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Rooms lists room IDs with their member counts, for the debug
// endpoint.
func (r *Registry) Rooms() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(r.rooms))
	for roomID, members := range r.rooms {
		out[roomID] = len(members)
	}
	return out
}
