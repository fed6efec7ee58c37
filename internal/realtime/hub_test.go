package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack-server/internal/origin"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(context.Background(), origin.New(""))
	go h.Start()
	t.Cleanup(h.Stop)
	return h
}

func dial(t *testing.T, h *Hub, userID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	return ev
}

func TestHubStartStop(t *testing.T) {
	h := NewHub(context.Background(), origin.New(""))
	go h.Start()

	require.Equal(t, 0, h.ClientCount())
	h.Stop() // no debe colgarse
}

func TestBroadcastReachesAllClients(t *testing.T) {
	h := startHub(t)

	c1 := dial(t, h, "")
	c2 := dial(t, h, "user-2")
	waitForClients(t, h, 2)

	h.Broadcast("discussion:reply", map[string]string{"discussionId": "d-1"})

	for _, conn := range []*websocket.Conn{c1, c2} {
		ev := readEvent(t, conn)
		require.Equal(t, "discussion:reply", ev.Type)
		require.False(t, ev.Timestamp.IsZero())
	}
}

func TestSendToUserTargetsOnlyThatUser(t *testing.T) {
	h := startHub(t)

	target := dial(t, h, "user-a")
	other := dial(t, h, "user-b")
	waitForClients(t, h, 2)

	h.SendToUser("user-a", "notification:new", map[string]string{"title": "hola"})

	ev := readEvent(t, target)
	require.Equal(t, "notification:new", ev.Type)

	// El otro cliente no recibe nada.
	require.NoError(t, other.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := other.ReadMessage()
	require.Error(t, err)
}

func TestClientCountTracksDisconnects(t *testing.T) {
	h := NewHub(context.Background(), origin.New(""))

	var mu sync.Mutex
	var seen []int
	h.OnClientCount(func(n int) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	})
	go h.Start()
	t.Cleanup(h.Stop)

	conn := dial(t, h, "")
	waitForClients(t, h, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, h, 0)

	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, seen, 1)
	require.Contains(t, seen, 0)
}

func TestServeWSRejectsForeignOrigin(t *testing.T) {
	h := startHub(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, "")
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	hdr := http.Header{"Origin": []string{"https://evil.example.com"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, hdr)
	if conn != nil {
		_ = conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
