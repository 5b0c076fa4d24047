package core

import (
	"sync/atomic"
	"time"
)

// SessionState is the lifecycle position of an admitted connection.
type SessionState int32

const (
	// StatePending means the connection is accepted but not yet admitted.
	StatePending SessionState = iota
	// StateActive means the connection is a room member.
	StateActive
	// StateClosed is terminal.
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// AdmitRequest is what the listener extracts from the connection request.
type AdmitRequest struct {
	ClientID string
	Room     string
	Name     string
}

// Session is a connection bound to a client identifier and a room.
type Session struct {
	ClientID string
	Room     string
	Name     string
	Conn     Conn
	JoinedAt time.Time

	state atomic.Int32
}

func newSession(conn Conn, req AdmitRequest) *Session {
	return &Session{
		ClientID: req.ClientID,
		Room:     req.Room,
		Name:     req.Name,
		Conn:     conn,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) transition(from, to SessionState) bool {
	return s.state.CompareAndSwap(int32(from), int32(to))
}
