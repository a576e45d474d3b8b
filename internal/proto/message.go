package proto

// Message types carried on the relay connection. Inbound and outbound
// frames share the same envelope: chat, delete_shape and clear_canvas are
// mirrored verbatim to every room member, so all clients converge on an
// identical shape list from the same event stream.
const (
	TypeJoinRoom    = "join_room"
	TypeLeaveRoom   = "leave_room"
	TypeChat        = "chat"
	TypeDeleteShape = "delete_shape"
	TypeClearCanvas = "clear_canvas"
	TypeError       = "error"
)

// Envelope is the JSON frame exchanged over the relay connection.
// Message is an opaque string: for chat it holds the JSON-encoded shape,
// which the relay persists and forwards without inspecting.
type Envelope struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message,omitempty"`
	ShapeID string `json:"shapeId,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response, sent only to the
// offending connection.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Shape kinds understood by clients. The relay treats shapes as opaque;
// these are used by client-side tooling and tests.
const (
	ShapeKindStroke = "stroke"
	ShapeKindRect   = "rect"
	ShapeKindCircle = "circle"
	ShapeKindText   = "text"
)

// Point is one freehand stroke coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is the client-side model of one drawn object. ID is assigned by
// the originating client (see internal/shapeid); geometry fields are
// populated according to Kind.
type Shape struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Points []Point `json:"points,omitempty"`
	Text   string  `json:"text,omitempty"`
}
