package core

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// RoomInfo is a read-only view of a live room.
type RoomInfo struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// Registry maps room keys to their member connections.
// A key present in the registry always has at least one member: rooms are
// created by the first Join and deleted by the Leave that empties them,
// atomically with that membership change.
//
// Lock order is registry.mu, then Room.mu.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	log   *zerolog.Logger
}

// NewRegistry builds an empty registry. A nil logger disables logging.
func NewRegistry(logger *zerolog.Logger) *Registry {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Registry{
		rooms: make(map[string]*Room),
		log:   logger,
	}
}

// Join adds c to the room, creating the room if absent.
func (r *Registry) Join(name string, c Conn) {
	r.join(name, c, nil)
}

// Leave removes c from the room and deletes the room once it is empty.
// Unknown rooms and non-members are ignored.
func (r *Registry) Leave(name string, c Conn) {
	r.leave(name, c, nil)
}

// Broadcast delivers ev to every member of the room except exclude.
// Broadcasting to an unknown room is a no-op.
func (r *Registry) Broadcast(name string, ev *Event, exclude Conn) PublishResult {
	room := r.lockRoom(name)
	if room == nil {
		return PublishResult{}
	}
	defer room.mu.Unlock()
	return r.publish(room, ev, exclude)
}

// join runs fn inside the room's serialization boundary after adding c.
// fn may broadcast through room.
func (r *Registry) join(name string, c Conn, fn func(room *Room)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[name]
	if !ok {
		room = NewRoom(name)
		r.rooms[name] = room
		r.log.Debug().Str("module", "core.registry").Str("room", name).Msg("room created")
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	room.addMember(c)
	if fn != nil {
		fn(room)
	}
}

// leave runs fn inside the room's serialization boundary after removing c
// and before an emptied room is deleted. fn gets a nil room if the room does
// not exist; an empty room has no one left to broadcast to.
func (r *Registry) leave(name string, c Conn, fn func(room *Room)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[name]
	if !ok {
		if fn != nil {
			fn(nil)
		}
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	room.removeMember(c)
	if fn != nil {
		fn(room)
	}
	if room.empty() {
		delete(r.rooms, name)
		r.log.Debug().Str("module", "core.registry").Str("room", name).Msg("room removed")
	}
}

// publish fans ev out to the room's members. Caller holds room.mu.
func (r *Registry) publish(room *Room, ev *Event, exclude Conn) PublishResult {
	res := room.broadcast(ev, exclude, r.log)
	r.log.Debug().
		Str("module", "core.registry").
		Str("room", room.Name).
		Str("event", ev.Kind.String()).
		Int("sent_to", res.Sent).
		Int("dropped", len(res.Dropped)).
		Msg("broadcast result")
	return res
}

// lockRoom returns the room with its mutex held, or nil if absent.
func (r *Registry) lockRoom(name string) *Room {
	r.mu.Lock()
	room, ok := r.rooms[name]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	room.mu.Lock()
	r.mu.Unlock()
	return room
}

// Members returns a snapshot of the room's connections.
func (r *Registry) Members(name string) []Conn {
	room := r.lockRoom(name)
	if room == nil {
		return nil
	}
	defer room.mu.Unlock()

	out := make([]Conn, 0, len(room.members))
	for c := range room.members {
		out = append(out, c)
	}
	return out
}

// Has reports whether the room currently exists.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[name]
	return ok
}

// List returns live rooms sorted by name.
func (r *Registry) List() []RoomInfo {
	r.mu.Lock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.Unlock()

	out := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		room.mu.Lock()
		n := len(room.members)
		room.mu.Unlock()
		if n == 0 {
			continue
		}
		out = append(out, RoomInfo{Name: room.Name, Members: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
