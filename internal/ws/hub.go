package ws

import (
	"context"
	"log/slog"
	"sync"
)

// Hub tracks connected clients and serialises their messages onto one goroutine.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessage

	// OnMessage is called for each incoming client message.
	OnMessage func(cm *ClientMessage)
	// OnDisconnect is called after a client is removed.
	OnDisconnect func(client *Client)

	clients map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessage, 256),
		clients:    make(map[*Client]struct{}),
	}
}

// Run dispatches hub events until ctx is cancelled. Remaining clients have
// their send channels closed on return.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()
			return

		case c := <-h.Register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			slog.Info("client connected", "client", c.ID)

		case c := <-h.Unregister:
			h.mu.Lock()
			_, ok := h.clients[c]
			delete(h.clients, c)
			h.mu.Unlock()
			if !ok {
				continue
			}
			slog.Info("client disconnected", "client", c.ID)
			// Detach from sessions before closing Send so no broadcast races the close.
			if h.OnDisconnect != nil {
				h.OnDisconnect(c)
			}
			close(c.Send)

		case cm := <-h.Incoming:
			if h.OnMessage != nil {
				h.OnMessage(cm)
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
