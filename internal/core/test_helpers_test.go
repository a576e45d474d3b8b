package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/wireboard-server/internal/log"
	"github.com/vovakirdan/wireboard-server/internal/store"
)

func newTestHub(st store.DrawingStore) *Hub {
	return NewHub(st, time.Second, log.New("error"))
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustNoEvent asserts nothing arrives on the channel for the duration.
func mustNoEvent(t *testing.T, ch <-chan *Event, wait time.Duration) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(wait):
	}
}

// waitForMembers polls the hub until a room has exactly want members.
func waitForMembers(t *testing.T, hub *Hub, room string, want int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for {
		members := hub.RoomMembers(ctx, room)
		if len(members) == want {
			return
		}
		select {
		case <-ctx.Done():
			t.Fatalf("room %q never reached %d members (last: %v)", room, want, members)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

var errStoreDown = errors.New("store is down")

// fakeDrawingStore is an in-memory store.DrawingStore with failure injection.
type fakeDrawingStore struct {
	mu      sync.Mutex
	seq     int64
	records []*store.Drawing
	failing bool
}

func newFakeDrawingStore() *fakeDrawingStore {
	return &fakeDrawingStore{}
}

func (f *fakeDrawingStore) setFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = v
}

func (f *fakeDrawingStore) CreateDrawing(_ context.Context, roomID, shapeID, payload string, authorID int64) (*store.Drawing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errStoreDown
	}
	f.seq++
	d := &store.Drawing{
		ID:        f.seq,
		RoomID:    roomID,
		ShapeID:   shapeID,
		Payload:   payload,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	f.records = append(f.records, d)
	return d, nil
}

func (f *fakeDrawingStore) DeleteDrawingsByShapeID(_ context.Context, roomID, shapeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errStoreDown
	}
	kept := f.records[:0]
	for _, d := range f.records {
		if d.RoomID == roomID && d.ShapeID == shapeID {
			continue
		}
		kept = append(kept, d)
	}
	f.records = kept
	return nil
}

func (f *fakeDrawingStore) DeleteAllDrawings(_ context.Context, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errStoreDown
	}
	kept := f.records[:0]
	for _, d := range f.records {
		if d.RoomID == roomID {
			continue
		}
		kept = append(kept, d)
	}
	f.records = kept
	return nil
}

func (f *fakeDrawingStore) ListDrawings(_ context.Context, roomID string, limit, offset int) ([]*store.Drawing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errStoreDown
	}
	var out []*store.Drawing
	for _, d := range f.records {
		if d.RoomID == roomID {
			out = append(out, d)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDrawingStore) roomPayloads(roomID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, d := range f.records {
		if d.RoomID == roomID {
			out = append(out, d.Payload)
		}
	}
	return out
}

func shapePayload(id string) string {
	return fmt.Sprintf(`{"id":%q,"kind":"circle","x":10,"y":10,"radius":5}`, id)
}
