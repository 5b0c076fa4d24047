package core

import "sync"

type presenceRecord struct {
	room  string
	name  string
	conns int
}

// Presence maps client identifiers to the single room they occupy.
//
// The same identifier may hold several connections to the same room (for
// example two tabs). The record is reference counted: every Register for the
// occupied room adds one, every matching Unregister removes one, and the
// record disappears with the last connection. The display name is the one
// given by the most recent Register.
type Presence struct {
	mu      sync.RWMutex
	clients map[string]*presenceRecord
	rooms   map[string]map[string]string
}

// NewPresence builds an empty presence table.
func NewPresence() *Presence {
	return &Presence{
		clients: make(map[string]*presenceRecord),
		rooms:   make(map[string]map[string]string),
	}
}

// Register records that clientID occupies room. A record for a different
// room is overwritten.
func (p *Presence) Register(clientID, room, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.clients[clientID]
	switch {
	case ok && rec.room == room:
		rec.conns++
		rec.name = name
	case ok:
		p.dropFromRoom(clientID, rec.room)
		p.clients[clientID] = &presenceRecord{room: room, name: name, conns: 1}
	default:
		p.clients[clientID] = &presenceRecord{room: room, name: name, conns: 1}
	}

	members, ok := p.rooms[room]
	if !ok {
		members = make(map[string]string)
		p.rooms[room] = members
	}
	members[clientID] = name
}

// Unregister releases one connection of clientID, but only if its recorded
// room equals room. It returns true when the record was removed.
func (p *Presence) Unregister(clientID, room string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.clients[clientID]
	if !ok || rec.room != room {
		return false
	}
	rec.conns--
	if rec.conns > 0 {
		return false
	}
	delete(p.clients, clientID)
	p.dropFromRoom(clientID, room)
	return true
}

// Lookup returns the room clientID currently occupies.
func (p *Presence) Lookup(clientID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.clients[clientID]
	if !ok {
		return "", false
	}
	return rec.room, true
}

// MembersOf returns a copy of the room's client id -> display name roster.
func (p *Presence) MembersOf(room string) map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	members := p.rooms[room]
	out := make(map[string]string, len(members))
	for id, name := range members {
		out[id] = name
	}
	return out
}

func (p *Presence) dropFromRoom(clientID, room string) {
	members, ok := p.rooms[room]
	if !ok {
		return
	}
	delete(members, clientID)
	if len(members) == 0 {
		delete(p.rooms, room)
	}
}
