package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a room's broadcasts.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom unsubscribes the client from a room.
	CommandLeaveRoom
	// CommandDrawShape persists a serialized shape and mirrors it to the room.
	CommandDrawShape
	// CommandDeleteShape removes a shape by ID and mirrors the directive.
	CommandDeleteShape
	// CommandClearCanvas wipes the room's drawing history and mirrors the directive.
	CommandClearCanvas
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	Room    string
	Payload string // serialized shape for CommandDrawShape
	ShapeID string // target identifier for CommandDeleteShape
}
