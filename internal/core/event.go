package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventShapeDrawn mirrors a persisted shape to every room member,
	// including the sender: all clients re-render from the same
	// authoritative stream.
	EventShapeDrawn EventKind = iota
	// EventShapeDeleted notifies members that a shape was removed.
	EventShapeDeleted
	// EventCanvasCleared notifies members that the room's history was wiped.
	EventCanvasCleared
	// EventError reports a per-operation failure to the sender only.
	EventError
)

// Event is sent to clients to describe what happened in a room.
// Payload carries the original serialized shape, never a re-derived copy.
type Event struct {
	Kind    EventKind
	Room    string
	Payload string
	ShapeID string
	Error   *CoreError
}
