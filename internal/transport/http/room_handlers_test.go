package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func postJSON(t *testing.T, ts string, path, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, ts string, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoomEndpoints(t *testing.T) {
	ts, _, _ := startTestServer(t)

	// Sign up over HTTP.
	resp := postJSON(t, ts.URL, "/api/signup", "", `{"username":"alice","password":"password123"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: %d", resp.StatusCode)
	}
	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("decode auth response: %v", err)
	}
	token := authResp.Token

	// Unauthenticated room creation is rejected.
	resp = postJSON(t, ts.URL, "/api/rooms", "", `{"name":"Design Review"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	// Create a room; the slug becomes the relay roomId.
	resp = postJSON(t, ts.URL, "/api/rooms", token, `{"name":"Design Review"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create room status: %d", resp.StatusCode)
	}
	var room RoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		t.Fatalf("decode room: %v", err)
	}
	if room.Slug != "design-review" {
		t.Fatalf("unexpected slug: %q", room.Slug)
	}

	// Duplicate name conflicts on the slug.
	resp = postJSON(t, ts.URL, "/api/rooms", token, `{"name":"design review"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate slug, got %d", resp.StatusCode)
	}

	// Lookup and listing.
	resp = getJSON(t, ts.URL, "/api/rooms/design-review", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get room status: %d", resp.StatusCode)
	}
	resp = getJSON(t, ts.URL, "/api/rooms/no-such-room", token)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown room, got %d", resp.StatusCode)
	}
	resp = getJSON(t, ts.URL, "/api/rooms", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list rooms status: %d", resp.StatusCode)
	}
	var rooms []RoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(rooms))
	}
}

func TestDrawingHistoryEndpoint(t *testing.T) {
	ts, st, authService := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	token, err := authService.SignUp(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	for i := 0; i < 3; i++ {
		shapeID := "s" + string(rune('0'+i))
		payload := `{"id":"` + shapeID + `","kind":"rect"}`
		if _, err := st.CreateDrawing(ctx, "r1", shapeID, payload, 1); err != nil {
			t.Fatalf("seed drawing: %v", err)
		}
	}

	resp := getJSON(t, ts.URL, "/api/rooms/r1/drawings?limit=2&offset=1", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list drawings status: %d", resp.StatusCode)
	}
	var drawings []DrawingResponse
	if err := json.NewDecoder(resp.Body).Decode(&drawings); err != nil {
		t.Fatalf("decode drawings: %v", err)
	}
	if len(drawings) != 2 || drawings[0].ShapeID != "s1" || drawings[1].ShapeID != "s2" {
		t.Fatalf("unexpected page: %+v", drawings)
	}
}

func TestGuestLoginSetsCookie(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp := postJSON(t, ts.URL, "/api/guest", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("guest status: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("decode guest response: %v", err)
	}
	if authResp.Token == "" {
		t.Fatal("expected non-empty guest token")
	}

	found := false
	for _, c := range resp.Cookies() {
		if c.Name == "guest_session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected guest_session cookie")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Design Review", "design-review"},
		{"  hello   world  ", "hello-world"},
		{"Already-Slugged", "already-slugged"},
		{"snake_case_name", "snake-case-name"},
		{"M1xed 42 Things!", "m1xed-42-things"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
