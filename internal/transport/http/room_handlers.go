package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/core"
	"github.com/vovakirdan/wireboard-server/internal/store"
)

// RoomHandlers provides HTTP handlers for room management and drawing
// history endpoints.
type RoomHandlers struct {
	store store.Store
	hub   *core.Hub
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.Store, hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store: st,
		hub:   hub,
		log:   logger,
	}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// RoomResponse represents a room in API responses. Slug is the roomId used
// on the relay connection.
type RoomResponse struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	OwnerID   *int64 `json:"owner_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// DrawingResponse represents one persisted drawing record.
type DrawingResponse struct {
	ID        int64  `json:"id"`
	ShapeID   string `json:"shape_id"`
	Message   string `json:"message"`
	AuthorID  int64  `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

// MembersResponse lists the usernames currently connected to a room.
type MembersResponse struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

// CreateRoom handles room creation.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		h.log.Error().Msg("user_id not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	uid, ok := userID.(int64)
	if !ok {
		h.log.Error().Msg("invalid user_id type in context")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	slug := slugify(req.Name)
	if slug == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room name has no usable characters"})
		return
	}

	room, err := h.store.CreateRoom(c.Request.Context(), slug, req.Name, &uid)
	if err != nil {
		// Check if it's a duplicate slug error (SQLite UNIQUE constraint)
		if strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "room with this name already exists"})
			return
		}
		h.log.Error().Err(err).Str("room_name", req.Name).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("slug", room.Slug).Int64("room_id", room.ID).Int64("owner_id", uid).Msg("room created")
	c.JSON(http.StatusCreated, roomResponse(room))
}

// ListRooms handles listing rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, roomResponse(room))
	}

	c.JSON(http.StatusOK, response)
}

// GetRoom handles room lookup by slug.
// GET /api/rooms/:slug
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	slug := c.Param("slug")

	room, err := h.store.GetRoomBySlug(c.Request.Context(), slug)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	c.JSON(http.StatusOK, roomResponse(room))
}

// ListDrawings returns a room's drawing history in creation order so a
// joining client can reconstruct the canvas before live events arrive.
// GET /api/rooms/:slug/drawings?limit=&offset=
func (h *RoomHandlers) ListDrawings(c *gin.Context) {
	slug := c.Param("slug")

	limit := parseIntQuery(c, "limit", 100)
	offset := parseIntQuery(c, "offset", 0)

	drawings, err := h.store.ListDrawings(c.Request.Context(), slug, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Str("room", slug).Msg("failed to list drawings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]DrawingResponse, 0, len(drawings))
	for _, d := range drawings {
		response = append(response, DrawingResponse{
			ID:        d.ID,
			ShapeID:   d.ShapeID,
			Message:   d.Payload,
			AuthorID:  d.AuthorID,
			CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, response)
}

// ListMembers reports who is connected to a room right now.
// GET /api/rooms/:slug/members
func (h *RoomHandlers) ListMembers(c *gin.Context) {
	slug := c.Param("slug")

	members := h.hub.RoomMembers(c.Request.Context(), slug)
	if members == nil {
		members = []string{}
	}

	c.JSON(http.StatusOK, MembersResponse{Room: slug, Members: members})
}

func roomResponse(room *store.Room) RoomResponse {
	return RoomResponse{
		ID:        room.ID,
		Slug:      room.Slug,
		Name:      room.Name,
		OwnerID:   room.OwnerID,
		CreatedAt: room.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// slugify turns a display name into the roomId used on the relay: lowered,
// spaces collapsed to dashes, everything else alphanumeric.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
