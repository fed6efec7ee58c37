// Package realtime implementa el transporte WebSocket para eventos en vivo
// (respuestas de discusión, notificaciones).
//
// El handshake aplica la MISMA política de orígenes que el CORS HTTP
// (internal/origin); no hay divergencia entre ambos consumidores.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/origin"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum message size allowed from peer.
	maxMessageSize = 512

	sendChannelSize = 64
)

// Event es el mensaje que viaja por el socket.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster es la interfaz que consumen los services.
// Se inyecta por constructor; nunca se cuelga del request.
type Broadcaster interface {
	Broadcast(eventType string, data any)
	SendToUser(userID, eventType string, data any)
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string // "" para conexiones anónimas
}

// Hub mantiene el conjunto de clientes activos y reparte eventos.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	mu sync.RWMutex

	policy *origin.Policy

	// onCount se invoca con el total de clientes en cada alta/baja.
	onCount func(int)

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub crea un hub. Debe arrancarse con Start() antes de usarse.
func NewHub(ctx context.Context, policy *origin.Policy) *Hub {
	hubCtx, cancel := context.WithCancel(ctx)
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		policy:     policy,
		ctx:        hubCtx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// OnClientCount registra un hook que recibe el total de clientes conectados.
// Debe llamarse antes de Start.
func (h *Hub) OnClientCount(fn func(int)) {
	h.onCount = fn
}

func (h *Hub) notifyCount(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}

// Start corre el loop principal del hub. Llamar exactamente una vez,
// en su propia goroutine.
func (h *Hub) Start() {
	defer close(h.done)

	log := logger.Named("realtime")
	log.Info("websocket hub started")

	for {
		select {
		case <-h.ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				_ = c.conn.Close()
			}
			h.clients = make(map[*client]bool)
			h.mu.Unlock()
			log.Info("websocket hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.notifyCount(n)
			log.Debug("client connected", logger.UserID(c.userID), logger.Int("clients", n))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.notifyCount(n)
			log.Debug("client disconnected", logger.UserID(c.userID), logger.Int("clients", n))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Cliente lento: se descarta el mensaje, no se bloquea el hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop apaga el hub y espera a que el loop termine.
func (h *Hub) Stop() {
	h.cancel()
	<-h.done
}

// ClientCount retorna el número de clientes conectados.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast envía un evento a todos los clientes.
func (h *Hub) Broadcast(eventType string, data any) {
	msg, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		logger.L().Warn("broadcast channel full, dropping event",
			logger.Component("realtime"),
			logger.String("event_type", eventType),
		)
	}
}

// SendToUser envía un evento solo a las conexiones del usuario dado.
func (h *Hub) SendToUser(userID, eventType string, data any) {
	if userID == "" {
		return
	}
	msg, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// ServeWS maneja el upgrade de /ws. El userID viene del middleware de auth
// (vacío para anónimos); el check de Origin usa la política compartida.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Requests sin Origin (clientes no-browser) se aceptan;
			// browsers siempre lo mandan.
			o := r.Header.Get("Origin")
			return o == "" || h.policy.Contains(o)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.From(r.Context()).Warn("websocket upgrade failed",
			logger.Component("realtime"),
			logger.Err(err),
		)
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendChannelSize),
		userID: userID,
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}
