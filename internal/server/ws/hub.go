// Package ws relays chat messages live between connected clients. The local
// message logs remain the source of truth; the relay only shortens the path
// between two open sessions.
package ws

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Frame is a single relayed chat message.
type Frame struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Time int64  `json:"time"` // epoch millis, set by the hub
}

// Hub maintains the set of connected clients keyed by username and routes
// frames to their recipients. A frame to an offline user is dropped; the
// sender's local log already holds it.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	route      chan Frame
	done       chan struct{}
	log        *zap.Logger
}

// NewHub constructs an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		route:      make(chan Frame, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client map until ctx is canceled. All map access happens on
// this goroutine. Once it returns, pending pump goroutines see the closed
// done channel instead of blocking on the hub's channels.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, c := range h.clients {
				close(c.send)
			}
			close(h.done)
			return
		case c := <-h.register:
			// A reconnect replaces the previous connection for that user.
			if prev, ok := h.clients[c.username]; ok {
				close(prev.send)
			}
			h.clients[c.username] = c
			h.log.Debug("chat client connected", zap.String("user", c.username))
		case c := <-h.unregister:
			if cur, ok := h.clients[c.username]; ok && cur == c {
				delete(h.clients, c.username)
				close(c.send)
			}
			h.log.Debug("chat client disconnected", zap.String("user", c.username))
		case frame := <-h.route:
			frame.Time = time.Now().UnixMilli()
			h.deliver(frame.To, frame)
			if frame.To != frame.From {
				// Echo to the sender's other sessions as well.
				h.deliver(frame.From, frame)
			}
		}
	}
}

func (h *Hub) deliver(username string, frame Frame) {
	c, ok := h.clients[username]
	if !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
		// Slow consumer: drop the connection rather than block the hub.
		delete(h.clients, username)
		close(c.send)
	}
}
