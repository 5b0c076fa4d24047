package core

// Conn is one bidirectional channel to a remote party as seen by the core.
// It is owned by the transport that accepted it; rooms only hold a
// non-owning reference while the connection is a member.
type Conn interface {
	// ID identifies the connection in logs.
	ID() string
	// Send enqueues an event without blocking. It returns ErrBackpressure if
	// the outbound buffer is full and ErrConnClosed after Close.
	Send(ev *Event) error
	// Close flushes already queued events and then closes the transport.
	// Calling it more than once is a no-op.
	Close(reason string)
}
