package core

import "sync/atomic"

const (
	commandBufferSize = 8
	eventBufferSize   = 256
)

// Client is one live relay connection as seen by the core layer. Identity
// is resolved once from the credential at connect time; the transport
// handle stays with the WebSocket handler, which feeds Commands and drains
// Events.
type Client struct {
	ID       string
	UserID   int64
	Username string
	Commands chan *Command
	Events   chan *Event

	// Rooms is owned by the hub run loop; nothing else may touch it.
	Rooms map[string]struct{}

	// done is closed by the hub when the client leaves the registry,
	// stopping its pump goroutine.
	done chan struct{}

	closed atomic.Bool
}

// NewClient constructs a client with initialized channels.
func NewClient(id string, userID int64, username string) *Client {
	if username == "" {
		username = id
	}
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		Commands: make(chan *Command, commandBufferSize),
		Events:   make(chan *Event, eventBufferSize),
		Rooms:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
}

// MarkClosed flags the transport as gone so in-flight broadcasts skip
// this client instead of queueing into a dead channel.
func (c *Client) MarkClosed() {
	c.closed.Store(true)
}

// Closed reports whether the transport has been marked gone.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// send attempts non-blocking delivery. Returns false if the client is
// closed or its event buffer is full (slow consumer).
func (c *Client) send(ev *Event) bool {
	if c.Closed() {
		return false
	}
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
