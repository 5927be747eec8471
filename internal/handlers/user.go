package handlers

import (
	"strconv"

	"github.com/dimitrije/squadup/internal/services"
	"github.com/dimitrije/squadup/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService UserServiceInterface
	logger      *zap.Logger
}

func NewUserHandler(userService UserServiceInterface, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}

// UpdateMe edits the caller's profile. looking_for_team is applied after the
// profile fields, so a rejected toggle leaves the profile edit in place.
func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.UpdateProfile(ctx, userID, services.ProfileUpdate{
		Name:      req.Name,
		Bio:       req.Bio,
		Platform:  req.Platform,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.LookingForTeam != nil && *req.LookingForTeam != user.LookingForTeam {
		if err := h.userService.SetLookingForTeam(ctx, userID, *req.LookingForTeam); err != nil {
			respondError(c, h.logger, err)
			return
		}
		user.LookingForTeam = *req.LookingForTeam
	}

	_ = c.JSON(200, toUserResponse(user))
}

func (h *UserHandler) Get(c *drift.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, toPlayerResponse(user))
}

// SearchPlayers lists players by name, platform and looking_for_team.
func (h *UserHandler) SearchPlayers(c *drift.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	limit, offset, ok := page(c)
	if !ok {
		return
	}

	filter := services.PlayerFilter{
		Name:     c.QueryParam("name"),
		Platform: c.QueryParam("platform"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.QueryParam("looking_for_team"); raw != "" {
		looking, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "invalid looking_for_team")
			return
		}
		filter.LookingForTeam = &looking
	}

	players, err := h.userService.SearchPlayers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.PlayerResponse, len(players))
	for i := range players {
		response[i] = toPlayerResponse(&players[i])
	}
	_ = c.JSON(200, response)
}
