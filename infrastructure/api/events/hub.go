// Package events fans session change notifications out to WebSocket
// subscribers so every open view can refresh itself.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Message types broadcast over the events socket.
const (
	TypeTextSet      = "text_set"
	TypeRangeAdded   = "range_added"
	TypeRangeRemoved = "range_removed"
	TypeStepChanged  = "step_changed"
	TypeModeChanged  = "mode_changed"
	TypeThemeChanged = "theme_changed"
	TypeQuizStarted  = "quiz_started"
	TypeQuizChecked  = "quiz_checked"
	TypeQuizRevealed = "quiz_revealed"
	TypeQuizReset    = "quiz_reset"
)

// Message is one session change delivered to every subscriber.
type Message struct {
	Type      string `json:"type"`
	RangeID   string `json:"range_id,omitempty"`
	Step      string `json:"step,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Theme     string `json:"theme,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Hub maintains the set of connected clients and broadcasts messages to
// them. The Run loop is the sole owner of the client set.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	logger     *slog.Logger
}

// NewHub creates a Hub. Run must be started before Handler connections
// are accepted.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger,
	}
}

// Run handles registration and broadcasting until ctx is cancelled,
// then disconnects every remaining client.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return nil

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("event subscriber connected",
				"client_id", c.id, "subscribers", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.logger.Debug("event subscriber disconnected",
				"client_id", c.id, "subscribers", len(h.clients))

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer, drop the connection.
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Broadcast queues msg for delivery to every subscriber. It is safe on
// a nil hub and never blocks; with the queue full the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}

	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal event message", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("event queue full, dropping message", "type", msg.Type)
	}
}
