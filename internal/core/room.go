package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/store"
)

// roomMessage is one unit of work routed to a room's mailbox by the hub.
type roomMessage struct {
	kind    CommandKind
	client  *Client
	payload string
	shapeID string
}

// Room owns the membership set and command stream for one whiteboard room.
// A single goroutine consumes the mailbox, so persistence and broadcast for
// one room always happen in a single total order and the membership set is
// never read mid-update. Distinct rooms run in parallel.
type Room struct {
	Name string

	store        store.DrawingStore
	storeTimeout time.Duration
	log          *zerolog.Logger

	mailbox chan roomMessage
	clients map[*Client]struct{}

	// stale receives clients found closed mid-broadcast so the hub can
	// unregister them asynchronously.
	stale chan<- *Client
}

func newRoom(name string, st store.DrawingStore, storeTimeout time.Duration, logger *zerolog.Logger, stale chan<- *Client) *Room {
	return &Room{
		Name:         name,
		store:        st,
		storeTimeout: storeTimeout,
		log:          logger,
		mailbox:      make(chan roomMessage, 64),
		clients:      make(map[*Client]struct{}),
		stale:        stale,
	}
}

// run consumes the mailbox until it is closed or the context is cancelled.
// Only the hub sends to (and closes) the mailbox.
func (r *Room) run(ctx context.Context) {
	for {
		select {
		case msg, ok := <-r.mailbox:
			if !ok {
				return
			}
			r.handle(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Room) handle(ctx context.Context, msg roomMessage) {
	switch msg.kind {
	case CommandJoinRoom:
		r.clients[msg.client] = struct{}{}
	case CommandLeaveRoom:
		delete(r.clients, msg.client)
	case CommandDrawShape:
		r.handleDraw(ctx, msg)
	case CommandDeleteShape:
		r.handleDelete(ctx, msg)
	case CommandClearCanvas:
		r.handleClear(ctx, msg)
	}
}

// handleDraw persists the record first, then mirrors the original payload
// to every current member including the sender. A store failure aborts the
// operation: no broadcast, error notice to the sender only.
func (r *Room) handleDraw(ctx context.Context, msg roomMessage) {
	opCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	if _, err := r.store.CreateDrawing(opCtx, r.Name, msg.shapeID, msg.payload, msg.client.UserID); err != nil {
		r.log.Error().Err(err).Str("room", r.Name).Str("client_id", msg.client.ID).Msg("persist drawing")
		r.notifyFailure(msg.client, "drawing was not saved")
		return
	}

	r.broadcast(&Event{
		Kind:    EventShapeDrawn,
		Room:    r.Name,
		Payload: msg.payload,
		ShapeID: msg.shapeID,
	})
}

// handleDelete removes records matching the shape ID exactly. Deleting an
// absent ID succeeds and still broadcasts, so delete stays idempotent for
// every member's local shape list.
func (r *Room) handleDelete(ctx context.Context, msg roomMessage) {
	opCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	if err := r.store.DeleteDrawingsByShapeID(opCtx, r.Name, msg.shapeID); err != nil {
		r.log.Error().Err(err).Str("room", r.Name).Str("shape_id", msg.shapeID).Msg("delete drawing")
		r.notifyFailure(msg.client, "delete was not saved")
		return
	}

	r.broadcast(&Event{
		Kind:    EventShapeDeleted,
		Room:    r.Name,
		ShapeID: msg.shapeID,
	})
}

func (r *Room) handleClear(ctx context.Context, msg roomMessage) {
	opCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	if err := r.store.DeleteAllDrawings(opCtx, r.Name); err != nil {
		r.log.Error().Err(err).Str("room", r.Name).Msg("clear drawings")
		r.notifyFailure(msg.client, "clear was not saved")
		return
	}

	r.broadcast(&Event{
		Kind: EventCanvasCleared,
		Room: r.Name,
	})
}

// broadcast delivers an event to every member whose transport is still
// open. Closed members are skipped and scheduled for unregistration; slow
// consumers are dropped rather than blocking the room.
func (r *Room) broadcast(event *Event) {
	for client := range r.clients {
		if client.Closed() {
			delete(r.clients, client)
			select {
			case r.stale <- client:
			default:
				// Hub busy; teardown will finish via the handler's unregister.
			}
			continue
		}
		if !client.send(event) {
			r.log.Debug().Str("room", r.Name).Str("client_id", client.ID).Msg("dropped event for slow consumer")
		}
	}
}

func (r *Room) notifyFailure(client *Client, msg string) {
	client.send(&Event{
		Kind:  EventError,
		Room:  r.Name,
		Error: coreError(ErrCodeStoreUnavailable, msg),
	})
}
