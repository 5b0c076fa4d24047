package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// PublishResult reports how a broadcast went.
type PublishResult struct {
	Sent    int
	Dropped []Conn
}

// Room groups connections subscribed to the same key.
// All membership changes and broadcasts for one room run under mu, which is
// what gives every member the same event order.
type Room struct {
	Name    string
	mu      sync.Mutex
	members map[Conn]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[Conn]struct{}),
	}
}

// addMember inserts a connection. Returns true if newly added. Caller holds mu.
func (r *Room) addMember(c Conn) bool {
	if _, exists := r.members[c]; exists {
		return false
	}
	r.members[c] = struct{}{}
	return true
}

// removeMember deletes a connection. Returns true if removed. Caller holds mu.
func (r *Room) removeMember(c Conn) bool {
	if _, exists := r.members[c]; !exists {
		return false
	}
	delete(r.members, c)
	return true
}

// broadcast sends an event to every member except exclude. Caller holds mu.
// A failing member is logged and skipped; it never stops delivery to the rest.
func (r *Room) broadcast(ev *Event, exclude Conn, logger *zerolog.Logger) PublishResult {
	res := PublishResult{}
	for c := range r.members {
		if exclude != nil && c == exclude {
			continue
		}
		if err := c.Send(ev); err != nil {
			res.Dropped = append(res.Dropped, c)
			logger.Warn().
				Err(err).
				Str("module", "core.room").
				Str("room", r.Name).
				Str("conn_id", c.ID()).
				Str("event", ev.Kind.String()).
				Msg("drop event for member")
			continue
		}
		res.Sent++
	}
	return res
}

// empty returns true if no connections are in the room. Caller holds mu.
func (r *Room) empty() bool {
	return len(r.members) == 0
}
