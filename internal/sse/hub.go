package sse

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

const (
	EventTeamRequestCreated = "team_request_created"
	EventFeedbackReceived   = "feedback_received"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type TeamRequestCreatedEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	TeamID    uuid.UUID `json:"team_id"`
	TeamName  string    `json:"team_name"`
	PlayerID  uuid.UUID `json:"player_id"`
	Message   string    `json:"message,omitempty"`
}

type FeedbackReceivedEvent struct {
	FeedbackID uuid.UUID `json:"feedback_id"`
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
	Rating     int       `json:"rating"`
}

// Client is one open event stream. A user may hold several (one per tab or device).
type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

type userMessage struct {
	UserID uuid.UUID
	Event  Event
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	direct     chan *userMessage
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan *userMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run owns client registration and delivery until ctx is done, at which point
// every remaining stream is closed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.direct:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if client.UserID != msg.UserID {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds client. Once the hub has stopped, client.Send is closed instead.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// IsOnline reports whether userID has at least one open stream.
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID == userID {
			return true
		}
	}
	return false
}

// SendToUser queues event for every stream userID has open. It never blocks;
// when the queue is full the event is dropped and false is returned.
func (h *Hub) SendToUser(userID uuid.UUID, eventType string, data any) bool {
	select {
	case h.direct <- &userMessage{UserID: userID, Event: Event{Type: eventType, Data: data}}:
		return true
	default:
		return false
	}
}
