package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialHub spins up a hub behind httptest and returns a connected client
func dialHub(t *testing.T) (*WebSocketHub, *websocket.Conn, func()) {
	t.Helper()

	hub := NewWebSocketHub()
	go hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	header := http.Header{"Origin": []string{"http://localhost:3000"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		ts.Close()
		t.Fatalf("dial: %v", err)
	}

	cleanup := func() {
		conn.Close()
		ts.Close()
	}
	return hub, conn, cleanup
}

// TestWebSocketBroadcastRoundTrip verifies a connected display client
// receives broadcast events
func TestWebSocketBroadcastRoundTrip(t *testing.T) {
	hub, conn, cleanup := dialHub(t)
	defer cleanup()

	// Registration goes through the hub's channel; wait for it to land
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("client count %d, want 1", hub.ClientCount())
	}

	hub.Broadcast("game:state", map[string]int{"kills": 4})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var payload struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Event != "game:state" {
		t.Errorf("event %q, want game:state", payload.Event)
	}
}

// TestWebSocketRejectsBadOrigin verifies cross-origin upgrades are refused
func TestWebSocketRejectsBadOrigin(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	header := http.Header{"Origin": []string{"http://evil.example.com"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("cross-origin upgrade should fail")
	}
}

// TestBroadcastWithoutClients verifies broadcasting into an empty hub does
// not block
func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			hub.Broadcast("game:state", map[string]int{"n": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with no clients")
	}
}
