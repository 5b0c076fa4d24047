package store

import (
	"context"
	"time"
)

// ActivityKind describes a presence transition.
type ActivityKind string

const (
	ActivityJoined   ActivityKind = "joined"
	ActivityLeft     ActivityKind = "left"
	ActivityRejected ActivityKind = "rejected"
)

// Activity is one presence transition of a client in a room.
// Message bodies are never recorded.
type Activity struct {
	ID        int64
	Scope     string // manager name, e.g. "community" or "work"
	Room      string
	ClientID  string
	Name      string
	Kind      ActivityKind
	Reason    string // rejection code for ActivityRejected
	CreatedAt time.Time
}

// ActivityStore handles presence activity persistence.
type ActivityStore interface {
	// RecordActivity appends an activity entry. ID and CreatedAt are filled in.
	RecordActivity(ctx context.Context, a *Activity) error

	// ListActivity returns the newest entries first. An empty room lists all rooms.
	ListActivity(ctx context.Context, room string, limit int) ([]*Activity, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	ActivityStore

	// Close closes the underlying database connection.
	Close() error
}

// Nop is a Store that discards everything. Used when no database is configured.
type Nop struct{}

func (Nop) RecordActivity(context.Context, *Activity) error { return nil }

func (Nop) ListActivity(context.Context, string, int) ([]*Activity, error) {
	return []*Activity{}, nil
}

func (Nop) Close() error { return nil }
