package http

import (
	"sync"

	"github.com/coder/websocket"

	"github.com/vovakirdan/hangrelay/internal/core"
)

// maxCloseReason keeps close reasons inside the 123 byte control frame limit.
const maxCloseReason = 120

// wsConn adapts a websocket to core.Conn. Events are queued on a buffered
// channel drained by the handler's write loop; closing the channel tells the
// write loop to flush and close the socket.
type wsConn struct {
	id     string
	ws     *websocket.Conn
	events chan *core.Event

	mu     sync.RWMutex
	closed bool
	reason string
}

func newWSConn(id string, ws *websocket.Conn, buffer int) *wsConn {
	if buffer <= 0 {
		buffer = 1
	}
	return &wsConn{
		id:     id,
		ws:     ws,
		events: make(chan *core.Event, buffer),
	}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(ev *core.Event) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.events <- ev:
		return nil
	default:
		return core.ErrBackpressure
	}
}

func (c *wsConn) Close(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.reason = truncateReason(reason)
	close(c.events)
}

func (c *wsConn) closeReason() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reason
}

func truncateReason(reason string) string {
	if len(reason) <= maxCloseReason {
		return reason
	}
	// Cut on a rune boundary.
	cut := maxCloseReason
	for cut > 0 && reason[cut]&0xC0 == 0x80 {
		cut--
	}
	return reason[:cut]
}
