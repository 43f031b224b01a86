package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mckitchen/internal/kitchen"
	"mckitchen/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub pushes kitchen snapshots to connected display clients. Displays get a
// snapshot on connect and then on every poll-interval tick.
type Hub struct {
	kitchen *kitchen.Kitchen
	log     *logger.Logger

	clientsMu sync.Mutex
	clients   map[*wsClient]bool
}

func NewHub(k *kitchen.Kitchen, log *logger.Logger) *Hub {
	return &Hub{
		kitchen: k,
		log:     log,
		clients: make(map[*wsClient]bool),
	}
}

// Run broadcasts the current snapshot on every tick until done is closed.
func (h *Hub) Run(done <-chan struct{}) {
	ticker := time.NewTicker(h.kitchen.PollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.Broadcast()
		case <-done:
			return
		}
	}
}

// Broadcast sends the current kitchen snapshot to every connected client.
func (h *Hub) Broadcast() {
	data, err := json.Marshal(h.kitchen.State())
	if err != nil {
		h.log.WithError(err).Error("failed to marshal snapshot")
		return
	}

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		client.mu.Lock()
		err := client.conn.WriteMessage(websocket.TextMessage, data)
		client.mu.Unlock()
		if err != nil {
			h.log.WithError(err).Debug("dropping websocket client")
			client.conn.Close()
			delete(h.clients, client)
		}
	}
}

// HandleWebSocket upgrades the connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("failed to upgrade connection")
		return
	}

	client := &wsClient{conn: conn}
	h.clientsMu.Lock()
	h.clients[client] = true
	h.clientsMu.Unlock()

	// Send initial snapshot
	h.Broadcast()

	// Keep connection alive and handle disconnection
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.clientsMu.Lock()
			delete(h.clients, client)
			h.clientsMu.Unlock()
			conn.Close()
			break
		}
	}
}
