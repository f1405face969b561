package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// userEvent routes an event to one user's connections
type userEvent struct {
	UserID uuid.UUID
	Event  Event
}

// Hub maintains the set of active clients and pushes screen events to them.
// Every user has a room; all of a user's open connections (devices, tabs)
// receive that user's events.
type Hub struct {
	// Registered clients by user ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *userEvent
	// done is closed when Run returns; sends to the hub give up after that.
	done chan struct{}

	mu  sync.RWMutex
	log logrus.FieldLogger
}

// NewHub creates a new Hub instance
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *userEvent, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's main loop and returns when ctx is done.
// This should be called as a goroutine: go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.userID] == nil {
				h.rooms[client.userID] = make(map[*Client]bool)
			}
			h.rooms[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.log.WithError(err).WithField("type", event.Event.Type).Error("marshal ws event")
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.UserID] {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, drop it
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.userID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.userID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.rooms {
		for client := range clients {
			close(client.send)
		}
		delete(h.rooms, userID)
	}
}

// BroadcastToUser sends an event to every connection of a user.
// Events sent after Run has returned are dropped.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event Event) {
	select {
	case h.broadcast <- &userEvent{UserID: userID, Event: event}:
	case <-h.done:
	}
}

// Publish marshals payload and broadcasts it to the user's room.
// It satisfies menu.Publisher.
func (h *Hub) Publish(userID uuid.UUID, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("type", eventType).Error("marshal ws payload")
		return
	}
	h.BroadcastToUser(userID, Event{Type: eventType, Payload: raw})
}
