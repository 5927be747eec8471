package handlers

import (
	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/services"
	"github.com/dimitrije/squadup/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type FeedbackHandler struct {
	feedbackService FeedbackServiceInterface
	logger          *zap.Logger
}

func NewFeedbackHandler(feedbackService FeedbackServiceInterface, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, logger: logger}
}

func (h *FeedbackHandler) Submit(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	target, err := models.ParseTarget(req.TargetType, req.TargetID)
	if err != nil || req.TargetID == uuid.Nil {
		respondError(c, h.logger, services.ErrInvalidTarget)
		return
	}

	feedback, err := h.feedbackService.Submit(c.Request.Context(), userID, target, req.Rating, req.Tags, req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(201, toFeedbackResponse(feedback))
}

func (h *FeedbackHandler) Delete(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	feedbackID, ok := pathID(c, "id", "feedback")
	if !ok {
		return
	}

	if err := h.feedbackService.Delete(c.Request.Context(), feedbackID, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "feedback deleted"})
}

func (h *FeedbackHandler) List(c *drift.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	target, ok := h.queryTarget(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackService.ListFor(c.Request.Context(), target)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondFeedback(c, feedback)
}

func (h *FeedbackHandler) ListMine(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackService.ListByAuthor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondFeedback(c, feedback)
}

func (h *FeedbackHandler) Stats(c *drift.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	target, ok := h.queryTarget(c)
	if !ok {
		return
	}

	stats, err := h.feedbackService.StatsFor(c.Request.Context(), target)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toStatsResponse(stats))
}

func (h *FeedbackHandler) queryTarget(c *drift.Context) (models.Target, bool) {
	id, err := uuid.Parse(c.QueryParam("target_id"))
	if err != nil {
		respondError(c, h.logger, services.ErrInvalidTarget)
		return models.Target{}, false
	}
	target, err := models.ParseTarget(c.QueryParam("target_type"), id)
	if err != nil {
		respondError(c, h.logger, services.ErrInvalidTarget)
		return models.Target{}, false
	}
	return target, true
}

func respondFeedback(c *drift.Context, feedback []models.Feedback) {
	response := make([]dto.FeedbackResponse, len(feedback))
	for i := range feedback {
		response[i] = toFeedbackResponse(&feedback[i])
	}
	_ = c.JSON(200, response)
}
