package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/hangrelay/internal/core"
	"github.com/vovakirdan/hangrelay/internal/store"
)

const (
	scopeCommunity = "community"
	scopeWork      = "work"

	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomHandlers provides read-only HTTP handlers over live relay state.
type RoomHandlers struct {
	managers Managers
	store    store.Store
	log      *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(managers Managers, st store.Store, logger *zerolog.Logger) *RoomHandlers {
	if st == nil {
		st = store.Nop{}
	}
	return &RoomHandlers{
		managers: managers,
		store:    st,
		log:      logger,
	}
}

// RoomsResponse lists live rooms per scope.
type RoomsResponse struct {
	Community []core.RoomInfo `json:"community"`
	Work      []core.RoomInfo `json:"work"`
}

// MembersResponse is the roster of one room.
type MembersResponse struct {
	Scope   string            `json:"scope"`
	Room    string            `json:"room"`
	Members map[string]string `json:"members"`
}

// ActivityResponse represents one presence activity entry.
type ActivityResponse struct {
	ID        int64  `json:"id"`
	Scope     string `json:"scope"`
	Room      string `json:"room"`
	ClientID  string `json:"client_id"`
	Name      string `json:"name,omitempty"`
	Kind      string `json:"kind"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ListRooms returns live rooms with member counts.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, RoomsResponse{
		Community: h.managers.Community.Rooms(),
		Work:      h.managers.Work.Rooms(),
	})
}

// RoomMembers returns the roster of a live room.
// GET /api/rooms/:room/members?scope=work
func (h *RoomHandlers) RoomMembers(c *gin.Context) {
	scope := c.DefaultQuery("scope", scopeWork)
	var mgr *core.Manager
	switch scope {
	case scopeWork:
		mgr = h.managers.Work
	case scopeCommunity:
		mgr = h.managers.Community
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown scope"})
		return
	}

	room := c.Param("room")
	members, ok := mgr.Roster(room)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	c.JSON(http.StatusOK, MembersResponse{Scope: scope, Room: room, Members: members})
}

// ListContexts returns the configured work contexts.
// GET /api/contexts
func (h *RoomHandlers) ListContexts(c *gin.Context) {
	if h.managers.Contexts == nil {
		c.JSON(http.StatusOK, []core.WorkContext{})
		return
	}
	c.JSON(http.StatusOK, h.managers.Contexts.Contexts())
}

// ListActivity returns recent presence activity, newest first.
// GET /api/activity?room=&limit=
func (h *RoomHandlers) ListActivity(c *gin.Context) {
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = min(n, maxActivityLimit)
	}

	room := c.Query("room")
	entries, err := h.store.ListActivity(c.Request.Context(), room, limit)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to list activity")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := make([]ActivityResponse, 0, len(entries))
	for _, a := range entries {
		resp = append(resp, ActivityResponse{
			ID:        a.ID,
			Scope:     a.Scope,
			Room:      a.Room,
			ClientID:  a.ClientID,
			Name:      a.Name,
			Kind:      string(a.Kind),
			Reason:    a.Reason,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, resp)
}
