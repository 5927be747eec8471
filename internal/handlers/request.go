package handlers

import (
	"context"

	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type RequestHandler struct {
	requestService RequestServiceInterface
	logger         *zap.Logger
}

func NewRequestHandler(requestService RequestServiceInterface, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requestService: requestService, logger: logger}
}

func (h *RequestHandler) Create(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}

	var req dto.CreateMembershipRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	created, err := h.requestService.Create(c.Request.Context(), teamID, userID, req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(201, toRequestResponse(created))
}

// ListForTeam is the pending inbox shown to captains and vice-captains.
func (h *RequestHandler) ListForTeam(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}

	requests, err := h.requestService.ListPendingForTeam(c.Request.Context(), teamID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondRequests(c, requests)
}

func (h *RequestHandler) ListMine(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListForPlayer(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondRequests(c, requests)
}

func (h *RequestHandler) Approve(c *drift.Context) {
	h.transition(c, h.requestService.Approve)
}

func (h *RequestHandler) Reject(c *drift.Context) {
	h.transition(c, h.requestService.Reject)
}

func (h *RequestHandler) Cancel(c *drift.Context) {
	h.transition(c, h.requestService.Cancel)
}

type transitionFunc func(ctx context.Context, requestID, actorID uuid.UUID) (*models.MembershipRequest, error)

func (h *RequestHandler) transition(c *drift.Context, apply transitionFunc) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "id", "request")
	if !ok {
		return
	}

	updated, err := apply(c.Request.Context(), requestID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toRequestResponse(updated))
}

func respondRequests(c *drift.Context, requests []models.MembershipRequest) {
	response := make([]dto.MembershipRequestResponse, len(requests))
	for i := range requests {
		response[i] = toRequestResponse(&requests[i])
	}
	_ = c.JSON(200, response)
}
