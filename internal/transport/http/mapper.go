package http

import (
	"encoding/json"

	"github.com/vovakirdan/wireboard-server/internal/core"
	"github.com/vovakirdan/wireboard-server/internal/proto"
)

// envelopeToCommand maps an inbound frame to a core command. A non-nil
// proto.Error means the frame was malformed and should be echoed back to
// the sender without dispatching anything.
func envelopeToCommand(env proto.Envelope) (*core.Command, *proto.Error) {
	switch env.Type {
	case proto.TypeJoinRoom:
		if env.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: env.RoomID,
		}, nil
	case proto.TypeLeaveRoom:
		if env.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}
		return &core.Command{
			Kind: core.CommandLeaveRoom,
			Room: env.RoomID,
		}, nil
	case proto.TypeChat:
		if env.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}
		shapeID, ok := embeddedShapeID(env.Message)
		if !ok {
			return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "message must be a JSON shape with an id"}
		}
		return &core.Command{
			Kind:    core.CommandDrawShape,
			Room:    env.RoomID,
			Payload: env.Message,
			ShapeID: shapeID,
		}, nil
	case proto.TypeDeleteShape:
		if env.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}
		if env.ShapeID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "shapeId is required"}
		}
		return &core.Command{
			Kind:    core.CommandDeleteShape,
			Room:    env.RoomID,
			ShapeID: env.ShapeID,
		}, nil
	case proto.TypeClearCanvas:
		if env.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}
		return &core.Command{
			Kind: core.CommandClearCanvas,
			Room: env.RoomID,
		}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

// embeddedShapeID pulls the client-assigned identifier out of a serialized
// shape so the store can index it. The payload itself stays opaque.
func embeddedShapeID(message string) (string, bool) {
	var shape struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(message), &shape); err != nil {
		return "", false
	}
	if shape.ID == "" {
		return "", false
	}
	return shape.ID, true
}

func outboundFromEvent(event *core.Event) proto.Envelope {
	switch event.Kind {
	case core.EventShapeDrawn:
		return proto.Envelope{
			Type:    proto.TypeChat,
			RoomID:  event.Room,
			Message: event.Payload,
		}
	case core.EventShapeDeleted:
		return proto.Envelope{
			Type:    proto.TypeDeleteShape,
			RoomID:  event.Room,
			ShapeID: event.ShapeID,
		}
	case core.EventCanvasCleared:
		return proto.Envelope{
			Type:   proto.TypeClearCanvas,
			RoomID: event.Room,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Envelope{Type: proto.TypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Envelope{
			Type:   proto.TypeError,
			RoomID: event.Room,
			Error:  &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Envelope{Type: proto.TypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}
