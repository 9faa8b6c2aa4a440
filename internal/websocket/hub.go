package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected operator sessions and fans progress
// events out to them. Sessions are grouped by user id; one operator may have
// several tabs open during a long import.
type Hub struct {
	// Connected clients per user id
	clients map[string]map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("🔌 Operator session connected: %s", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if sessions, ok := h.clients[client.UserID]; ok {
				if sessions[client] {
					delete(sessions, client)
					close(client.send)
					if len(sessions) == 0 {
						delete(h.clients, client.UserID)
					}
					log.Printf("🔌 Operator session disconnected: %s", client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify sends a typed progress event to every session of one user.
// Slow or dead sessions are skipped rather than blocking the pipeline.
func (h *Hub) Notify(userID, eventType string, data map[string]interface{}) {
	payload := map[string]interface{}{"type": eventType}
	for k, v := range data {
		payload[k] = v
	}

	jsonMsg, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- jsonMsg:
		default:
			// Buffer full or client dead
		}
	}
}
