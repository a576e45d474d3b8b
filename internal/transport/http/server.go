package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/auth"
	"github.com/vovakirdan/wireboard-server/internal/config"
	"github.com/vovakirdan/wireboard-server/internal/core"
	"github.com/vovakirdan/wireboard-server/internal/store"
)

// NewServer builds the HTTP server: REST API for auth and rooms, plus the
// WebSocket relay endpoint.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	apiHandlers := NewAPIHandlers(authService, logger)
	roomHandlers := NewRoomHandlers(st, hub, logger)

	router.GET("/health", healthHandler)

	api := router.Group("/api")
	{
		api.POST("/signup", apiHandlers.SignUp)
		api.POST("/signin", apiHandlers.SignIn)
		api.POST("/guest", apiHandlers.GuestLogin)

		authed := api.Group("")
		authed.Use(AuthMiddleware(authService, logger))
		{
			authed.POST("/rooms", roomHandlers.CreateRoom)
			authed.GET("/rooms", roomHandlers.ListRooms)
			authed.GET("/rooms/:slug", roomHandlers.GetRoom)
			authed.GET("/rooms/:slug/drawings", roomHandlers.ListDrawings)
			authed.GET("/rooms/:slug/members", roomHandlers.ListMembers)
		}
	}

	// The relay endpoint authenticates via ?token= itself.
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	_, _ = fmt.Fprint(c.Writer, "ok")
}
