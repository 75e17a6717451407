package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

type Client struct {
	ID     string
	UserID uint
	Conn   *WebSocketConn
	Send   chan []byte
}

// Hub tracks the live websocket connections per user. Registration and
// delivery are synchronous under the lock, so a client is addressable the
// moment RegisterClient returns.
type Hub struct {
	clients map[string]*Client
	quit    chan struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		quit:    make(chan struct{}),
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
	log.Printf("realtime: client registered: %s (user %d)", client.ID, client.UserID)
}

func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	if old, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(old.Send)
		log.Printf("realtime: client unregistered: %s", client.ID)
	}
	h.mu.Unlock()
}

// SendToUser queues a payload on every connection the user holds. Full queues
// are skipped rather than blocked on.
func (h *Hub) SendToUser(userID uint, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("realtime: marshal payload: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Send <- payload:
			default:
			}
		}
	}
}

// Run blocks until Stop, then drops every connection.
func (h *Hub) Run() {
	<-h.quit

	h.mu.Lock()
	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
	h.mu.Unlock()
}

func (h *Hub) Stop() {
	close(h.quit)
}
