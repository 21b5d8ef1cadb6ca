package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func wsConnCount(h *wsHub) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func TestBroadcastSurvivesStalledClient(t *testing.T) {
	hub := newWSHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Add(conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	registered := time.Now().Add(time.Second)
	for wsConnCount(hub) == 0 && time.Now().Before(registered) {
		time.Sleep(10 * time.Millisecond)
	}
	if wsConnCount(hub) == 0 {
		t.Fatal("connection never registered")
	}

	// The client never reads. Pushing large payloads fills its buffers until
	// a write stalls; the write deadline must then error it out and prune it
	// instead of blocking the sender for good.
	payload := strings.Repeat("x", 64<<10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2048 && wsConnCount(hub) > 0; i++ {
			hub.Broadcast(payload)
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * writeWait):
		t.Fatal("broadcast wedged on a client that never reads")
	}
	if wsConnCount(hub) != 0 {
		t.Fatal("stalled connection was not pruned")
	}
}
