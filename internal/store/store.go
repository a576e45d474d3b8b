package store

import (
	"context"
	"time"
)

// User represents a user in the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsGuest      bool
	SessionID    string // For guest user session tracking
	CreatedAt    time.Time
}

// Room represents a whiteboard room. Its slug is the roomId clients
// use on the relay connection.
type Room struct {
	ID        int64
	Slug      string
	Name      string
	OwnerID   *int64 // nil for guest-created rooms
	CreatedAt time.Time
}

// Drawing represents one persisted shape-affecting operation in a room.
// Payload is the serialized shape exactly as the client sent it; replaying
// a room's surviving drawings in creation order reconstructs its canvas.
type Drawing struct {
	ID        int64
	RoomID    string
	ShapeID   string
	Payload   string
	AuthorID  int64
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// CreateGuestUser creates a temporary guest user with session ID.
	CreateGuestUser(ctx context.Context, sessionID string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserBySessionID retrieves a guest user by session ID.
	GetUserBySessionID(ctx context.Context, sessionID string) (*User, error)
}

// RoomStore handles room persistence.
type RoomStore interface {
	// CreateRoom creates a new room with a unique slug.
	CreateRoom(ctx context.Context, slug, name string, ownerID *int64) (*Room, error)

	// GetRoomBySlug retrieves a room by slug.
	GetRoomBySlug(ctx context.Context, slug string) (*Room, error)

	// ListRooms lists all rooms, newest first.
	ListRooms(ctx context.Context) ([]*Room, error)
}

// DrawingStore handles drawing persistence. The relay core depends on
// this interface only; it never inspects stored payloads.
type DrawingStore interface {
	// CreateDrawing appends one drawing record for a room.
	CreateDrawing(ctx context.Context, roomID, shapeID, payload string, authorID int64) (*Drawing, error)

	// DeleteDrawingsByShapeID removes all records in a room whose shape ID
	// matches exactly. Deleting an absent shape ID is a no-op.
	DeleteDrawingsByShapeID(ctx context.Context, roomID, shapeID string) error

	// DeleteAllDrawings removes every record for a room.
	DeleteAllDrawings(ctx context.Context, roomID string) error

	// ListDrawings retrieves a room's records in creation order with
	// limit/offset pagination.
	ListDrawings(ctx context.Context, roomID string, limit, offset int) ([]*Drawing, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	RoomStore
	DrawingStore

	// Close closes the underlying database connection.
	Close() error
}
