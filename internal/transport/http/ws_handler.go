package http

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/hangrelay/internal/config"
	"github.com/vovakirdan/hangrelay/internal/core"
	"github.com/vovakirdan/hangrelay/internal/utils"
)

const defaultUsername = "Anonymous"

// WSHandler upgrades HTTP connections and bridges them to a core.Manager.
type WSHandler struct {
	manager *core.Manager
	cfg     *config.Config
	accept  *websocket.AcceptOptions
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(manager *core.Manager, cfg *config.Config, logger *zerolog.Logger) *WSHandler {
	opts := &websocket.AcceptOptions{}
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = cfg.AllowedOrigins
	}

	l := logger.With().Str("module", "transport.ws").Str("scope", manager.Name()).Logger()
	return &WSHandler{manager: manager, cfg: cfg, accept: opts, log: &l}
}

// ServeCommunity handles GET /ws/community/:room/:client.
func (h *WSHandler) ServeCommunity(c *gin.Context) {
	h.serve(c, core.AdmitRequest{
		ClientID: c.Param("client"),
		Room:     c.Param("room"),
	})
}

// ServeWork handles GET /ws/work/:room/:client?username=.
func (h *WSHandler) ServeWork(c *gin.Context) {
	name := c.Query("username")
	if name == "" {
		name = defaultUsername
	}
	h.serve(c, core.AdmitRequest{
		ClientID: c.Param("client"),
		Room:     c.Param("room"),
		Name:     name,
	})
}

func (h *WSHandler) serve(c *gin.Context, req core.AdmitRequest) {
	ws, err := websocket.Accept(c.Writer, c.Request, h.accept)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	if h.cfg.MaxMessageBytes > 0 {
		ws.SetReadLimit(h.cfg.MaxMessageBytes)
	}

	conn := newWSConn(utils.NewID(), ws, h.cfg.SendBuffer)
	logger := h.log.With().
		Str("conn_id", conn.id).
		Str("client_id", req.ClientID).
		Str("room", req.Room).
		Logger()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- h.writeLoop(ctx, conn, &logger)
	}()

	session, err := h.manager.Admit(ctx, conn, req)
	if err != nil {
		// The manager queued the error event and closed conn; wait for the flush.
		<-writeErr
		return
	}

	readErr := h.readLoop(ctx, session, conn)
	h.manager.Depart(context.WithoutCancel(ctx), session)

	reason := "closing"
	if isExpectedClose(readErr) {
		logger.Debug().Err(readErr).Msg("ws connection closed")
	} else {
		reason = "read error"
		logger.Warn().Err(readErr).Msg("ws connection closed with error")
	}
	conn.Close(reason)
	<-writeErr
}

// readLoop forwards every inbound text frame to the manager until the
// connection ends. It holds no locks while blocked in Read.
func (h *WSHandler) readLoop(ctx context.Context, session *core.Session, conn *wsConn) error {
	for {
		typ, data, err := conn.ws.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		if err := h.manager.Relay(session, string(data)); err != nil {
			return err
		}
	}
}

// writeLoop drains queued events onto the socket. When the queue is closed it
// closes the socket with the recorded reason.
func (h *WSHandler) writeLoop(ctx context.Context, conn *wsConn, logger *zerolog.Logger) error {
	for {
		select {
		case event, ok := <-conn.events:
			if !ok {
				err := conn.ws.Close(websocket.StatusNormalClosure, conn.closeReason())
				if err != nil && !isExpectedClose(err) {
					logger.Debug().Err(err).Msg("ws close")
				}
				return nil
			}
			if err := h.write(ctx, conn, event); err != nil {
				logger.Error().Err(err).Str("event", event.Kind.String()).Msg("write ws event")
				// Unblock the reader so the session departs.
				_ = conn.ws.CloseNow()
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) write(ctx context.Context, conn *wsConn, event *core.Event) error {
	if h.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.WriteTimeout)
		defer cancel()
	}
	return wsjson.Write(ctx, conn.ws, outboundFromEvent(event))
}

func isExpectedClose(err error) bool {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway, websocket.StatusNoStatusRcvd:
		return true
	}
	return false
}
