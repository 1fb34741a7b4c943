// Package realtime forwards change-feed events to connected browser
// clients over websockets, so both partners' screens converge without
// polling.
package realtime

import (
	"context"
	"log"
	"net/http"
	"sync"

	"pairdle-backend/internal/feed"

	"github.com/gorilla/websocket"
)

const clientBuffer = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one connected device for one authenticated user
type Client struct {
	userID string
	conn   *websocket.Conn
	send   chan feed.RecordChange
}

// Hub fans feed events out to every connected client that the event
// concerns (the record's setter or solver).
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

// Run consumes the puzzles feed until ctx is done. It subscribes without a
// filter and routes per event, since one hub serves every connected user.
func (h *Hub) Run(ctx context.Context, f feed.Feed) error {
	sub, err := f.Subscribe(ctx, "puzzles", feed.Filter{})
	if err != nil {
		return err
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-sub.C:
			if !ok {
				return nil
			}
			h.broadcast(change)
		}
	}
}

func (h *Hub) broadcast(change feed.RecordChange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !concerns(change, client.userID) {
			continue
		}
		select {
		case client.send <- change:
		default:
			// Slow client: drop it, the browser will reconnect and refetch.
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func concerns(change feed.RecordChange, userID string) bool {
	return change.Fields["setter_id"] == userID || change.Fields["solver_id"] == userID
}

// ServeWS upgrades an authenticated request and pumps matched events to it
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Realtime] Upgrade failed for user %s: %v", userID, err)
		return
	}

	client := &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan feed.RecordChange, clientBuffer),
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for change := range c.send {
		if err := c.conn.WriteJSON(change); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; its job is noticing the disconnect
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
