package handlers

import (
	"github.com/dimitrije/squadup/internal/services"
	"github.com/dimitrije/squadup/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type TeamHandler struct {
	teamService TeamServiceInterface
	logger      *zap.Logger
}

func NewTeamHandler(teamService TeamServiceInterface, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{teamService: teamService, logger: logger}
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), services.TeamSpec{
		Name:        req.Name,
		Description: req.Description,
		Platform:    req.Platform,
		DiscordURL:  req.DiscordURL,
		TwitterURL:  req.TwitterURL,
	}, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(201, toTeamResponse(team))
}

func (h *TeamHandler) Search(c *drift.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	limit, offset, ok := page(c)
	if !ok {
		return
	}

	teams, err := h.teamService.Search(c.Request.Context(), services.TeamFilter{
		Name:     c.QueryParam("name"),
		Platform: c.QueryParam("platform"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i := range teams {
		response[i] = toTeamResponse(&teams[i])
	}
	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}

	team, err := h.teamService.GetByID(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toTeamResponse(team))
}

func (h *TeamHandler) Update(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	team, err := h.teamService.Update(c.Request.Context(), teamID, services.TeamUpdate{
		Name:        req.Name,
		Description: req.Description,
		Platform:    req.Platform,
		DiscordURL:  req.DiscordURL,
		TwitterURL:  req.TwitterURL,
	}, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toTeamResponse(team))
}

func (h *TeamHandler) Delete(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), teamID, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "team deleted"})
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}

	members, err := h.teamService.GetMembers(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.TeamMemberResponse, 0, len(members))
	for _, m := range members {
		entry := dto.TeamMemberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.CreatedAt}
		if m.User != nil {
			entry.User = toPlayerResponse(m.User)
		}
		response = append(response, entry)
	}
	_ = c.JSON(200, response)
}

// AddMember lets the captain place a player on the team directly, without a request.
func (h *TeamHandler) AddMember(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}
	target, ok := bindUserRef(c)
	if !ok {
		return
	}

	if err := h.teamService.AddMember(c.Request.Context(), teamID, target, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(201, dto.MessageResponse{Message: "member added"})
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberId", "member")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), teamID, memberID, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "member removed"})
}

func (h *TeamHandler) Leave(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), teamID, userID, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "left team"})
}

func (h *TeamHandler) SetViceCaptain(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}
	target, ok := bindUserRef(c)
	if !ok {
		return
	}

	team, err := h.teamService.SetViceCaptain(c.Request.Context(), teamID, target, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toTeamResponse(team))
}

func (h *TeamHandler) ClearViceCaptain(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}

	team, err := h.teamService.ClearViceCaptain(c.Request.Context(), teamID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toTeamResponse(team))
}

func (h *TeamHandler) TransferCaptaincy(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "team")
	if !ok {
		return
	}
	target, ok := bindUserRef(c)
	if !ok {
		return
	}

	team, err := h.teamService.TransferCaptaincy(c.Request.Context(), teamID, target, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toTeamResponse(team))
}

func bindUserRef(c *drift.Context) (uuid.UUID, bool) {
	var req dto.UserRefRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return uuid.Nil, false
	}
	if req.UserID == uuid.Nil {
		badRequest(c, "user_id is required")
		return uuid.Nil, false
	}
	return req.UserID, true
}
