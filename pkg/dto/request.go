package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMembershipRequest struct {
	Message string `json:"message"`
}

type MembershipRequestResponse struct {
	ID        uuid.UUID       `json:"id"`
	TeamID    uuid.UUID       `json:"team_id"`
	PlayerID  uuid.UUID       `json:"player_id"`
	Message   string          `json:"message"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Team      *TeamResponse   `json:"team,omitempty"`
	Player    *PlayerResponse `json:"player,omitempty"`
}
