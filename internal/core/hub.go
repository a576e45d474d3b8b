package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/store"
)

// Hub is the relay's connection registry and message dispatcher. Its run
// loop is the only goroutine that touches the registry and the room index,
// so membership state needs no locks; shape-affecting work is handed to
// per-room actors so rooms proceed in parallel while each room stays
// strictly ordered.
type Hub struct {
	store        store.DrawingStore
	storeTimeout time.Duration
	log          *zerolog.Logger

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	queries    chan membersQuery

	rooms   map[string]*roomHandle
	clients map[*Client]struct{}

	// runCtx is set by Run and inherited by room actors.
	runCtx context.Context
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

type membersQuery struct {
	room  string
	reply chan []string
}

// roomHandle pairs a room actor with the hub's member count for it.
type roomHandle struct {
	room    *Room
	members int
}

// NewHub creates a relay hub backed by the given drawing store.
func NewHub(st store.DrawingStore, storeTimeout time.Duration, logger *zerolog.Logger) *Hub {
	if storeTimeout <= 0 {
		storeTimeout = 3 * time.Second
	}
	return &Hub{
		store:        st,
		storeTimeout: storeTimeout,
		log:          logger,
		register:     make(chan *Client, 16),
		unregister:   make(chan *Client, 64),
		commands:     make(chan clientCommand, 256),
		queries:      make(chan membersQuery),
		rooms:        make(map[string]*roomHandle),
		clients:      make(map[*Client]struct{}),
	}
}

// RegisterClient adds an authenticated connection to the registry.
// Credential validation already happened at WebSocket accept; the hub never
// re-checks identity per message.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes a connection from the registry and from every
// room it joined. Idempotent: unregistering twice, or a client the hub
// never saw, is a no-op.
func (h *Hub) UnregisterClient(c *Client) {
	c.MarkClosed()
	h.unregister <- c
}

// RoomMembers returns the usernames currently joined to a room. Used by
// the presence endpoint and tests; returns nil once the hub has stopped.
func (h *Hub) RoomMembers(ctx context.Context, room string) []string {
	q := membersQuery{room: room, reply: make(chan []string, 1)}
	select {
	case h.queries <- q:
	case <-ctx.Done():
		return nil
	}
	select {
	case members := <-q.reply:
		return members
	case <-ctx.Done():
		return nil
	}
}

// Run processes registrations and inbound commands until the context is
// cancelled. Start it exactly once.
func (h *Hub) Run(ctx context.Context) {
	h.runCtx = ctx
	for {
		select {
		case c := <-h.register:
			// A connection can die between accept and registration; its
			// unregister may even be processed first. Never adopt a client
			// whose transport is already gone, or it would sit in the
			// registry forever with a pump nothing stops.
			if c.Closed() {
				continue
			}
			if _, ok := h.clients[c]; ok {
				continue
			}
			h.clients[c] = struct{}{}
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.removeClient(c)
		case cc := <-h.commands:
			h.dispatch(cc.client, cc.cmd)
		case q := <-h.queries:
			q.reply <- h.membersOf(q.room)
		case <-ctx.Done():
			for name, rh := range h.rooms {
				close(rh.room.mailbox)
				delete(h.rooms, name)
			}
			return
		}
	}
}

// pump forwards one client's commands into the hub's fan-in channel so the
// run loop serializes all registry mutations. It exits when the hub removes
// the client from the registry (c.done) or the hub itself stops.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if _, registered := h.clients[c]; !registered {
		return
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		h.join(c, cmd.Room)
	case CommandLeaveRoom:
		h.leave(c, cmd.Room)
	case CommandDrawShape, CommandDeleteShape, CommandClearCanvas:
		rh := h.ensureRoom(cmd.Room)
		rh.room.mailbox <- roomMessage{
			kind:    cmd.Kind,
			client:  c,
			payload: cmd.Payload,
			shapeID: cmd.ShapeID,
		}
		// A draw into a memberless room is still persisted, but there is
		// nothing to keep the actor alive for.
		if rh.members == 0 {
			h.closeRoom(cmd.Room)
		}
	}
}

// join is idempotent: re-joining an already-joined room adds no duplicate
// membership, so the client keeps receiving each broadcast exactly once.
func (h *Hub) join(c *Client, room string) {
	if room == "" {
		return
	}
	if _, joined := c.Rooms[room]; joined {
		return
	}
	c.Rooms[room] = struct{}{}

	rh := h.ensureRoom(room)
	rh.members++
	rh.room.mailbox <- roomMessage{kind: CommandJoinRoom, client: c}
}

// leave is idempotent: leaving a room the client never joined is a no-op.
func (h *Hub) leave(c *Client, room string) {
	if _, joined := c.Rooms[room]; !joined {
		return
	}
	delete(c.Rooms, room)

	rh, ok := h.rooms[room]
	if !ok {
		return
	}
	rh.room.mailbox <- roomMessage{kind: CommandLeaveRoom, client: c}
	rh.members--
	if rh.members == 0 {
		h.closeRoom(room)
	}
}

// removeClient is connection teardown: the client drops out of every room
// it joined, its pump goroutine is released, and in-flight broadcasts skip
// it from here on.
func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.done)

	for room := range c.Rooms {
		h.leave(c, room)
	}
}

func (h *Hub) ensureRoom(name string) *roomHandle {
	rh, ok := h.rooms[name]
	if !ok {
		rh = &roomHandle{room: newRoom(name, h.store, h.storeTimeout, h.log, h.unregister)}
		h.rooms[name] = rh
		go rh.room.run(h.runCtx)
		h.log.Debug().Str("room", name).Msg("room actor started")
	}
	return rh
}

// closeRoom drains-and-stops a room actor: queued work still executes, the
// goroutine exits once the mailbox is empty.
func (h *Hub) closeRoom(name string) {
	rh, ok := h.rooms[name]
	if !ok {
		return
	}
	close(rh.room.mailbox)
	delete(h.rooms, name)
	h.log.Debug().Str("room", name).Msg("room actor stopped")
}

func (h *Hub) membersOf(room string) []string {
	var members []string
	for c := range h.clients {
		if _, joined := c.Rooms[room]; joined {
			members = append(members, c.Username)
		}
	}
	return members
}
