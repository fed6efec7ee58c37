package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edustack/edustack-server/internal/metrics"
	"github.com/edustack/edustack-server/internal/origin"
	"github.com/edustack/edustack-server/internal/realtime"
	"github.com/edustack/edustack-server/internal/security/csrf"
	"github.com/edustack/edustack-server/internal/security/token"
)

// El upgrade de /ws atraviesa la cadena global completa (logging y metrics
// envuelven el ResponseWriter): este test cubre que el writer envuelto sigue
// siendo hijackeable de punta a punta.
func TestWebsocketUpgradeThroughRouter(t *testing.T) {
	hub := realtime.NewHub(context.Background(), origin.New(""))
	go hub.Start()
	t.Cleanup(hub.Stop)

	iss, err := csrf.NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	handler := New(Deps{
		Controllers: &Controllers{},
		Origins:     origin.New(""),
		Issuer:      iss,
		CSRFCookie:  "x-csrf-token",
		Tokens:      token.NewManager("test-secret", "edustack", time.Hour),
		Metrics:     metrics.New(),
		Hub:         hub,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial /ws through the router: %v (status %d)", err, status)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("handshake status = %d, want 101", resp.StatusCode)
	}

	// La conexión quedó registrada y recibe eventos.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want 1", hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast("notification:new", map[string]string{"title": "hola"})

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read after upgrade: %v", err)
	}

	var ev realtime.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != "notification:new" {
		t.Errorf("event type = %q", ev.Type)
	}
}
