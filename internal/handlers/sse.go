package handlers

import (
	"github.com/dimitrije/squadup/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SSEHandler struct {
	hub SSEHubInterface
}

func NewSSEHandler(hub SSEHubInterface) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Connect streams the caller's notifications until the client goes away or
// the hub shuts down.
func (h *SSEHandler) Connect(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:     clientID,
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// Status reports whether the caller currently has an open event stream.
func (h *SSEHandler) Status(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	_ = c.JSON(200, map[string]bool{"online": h.hub.IsOnline(userID)})
}
