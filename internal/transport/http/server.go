package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/hangrelay/internal/config"
	"github.com/vovakirdan/hangrelay/internal/core"
	"github.com/vovakirdan/hangrelay/internal/store"
)

// Managers groups the relay instances served by one HTTP server.
type Managers struct {
	Community *core.Manager
	Work      *core.Manager
	Contexts  *core.ContextPolicy
}

// NewServer builds an HTTP server with the WebSocket and read-only API routes.
func NewServer(managers Managers, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(ginMode(cfg.Mode))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", healthHandler)

	community := NewWSHandler(managers.Community, cfg, logger)
	work := NewWSHandler(managers.Work, cfg, logger)
	router.GET("/ws/community/:room/:client", community.ServeCommunity)
	router.GET("/ws/work/:room/:client", work.ServeWork)

	rooms := NewRoomHandlers(managers, st, logger)
	api := router.Group("/api")
	{
		api.GET("/rooms", rooms.ListRooms)
		api.GET("/rooms/:room/members", rooms.RoomMembers)
		api.GET("/contexts", rooms.ListContexts)
		api.GET("/activity", rooms.ListActivity)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
