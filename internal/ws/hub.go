package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is a payload pushed to inbox clients of one workspace.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans events out to the connected clients of each workspace.
// It is the only shared mutable state outside the database.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{} // workspaceID → clients

	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.workspaceID] == nil {
				h.clients[c.workspaceID] = make(map[*Client]struct{})
			}
			h.clients[c.workspaceID][c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[c.workspaceID]; ok {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.send)
					if len(set) == 0 {
						delete(h.clients, c.workspaceID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes an event to every client of the workspace. Slow
// clients are skipped rather than blocked on.
func (h *Hub) Broadcast(workspaceID uint, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[workspaceID] {
		select {
		case c.send <- raw:
		default:
		}
	}
}
