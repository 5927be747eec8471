package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Platform    string `json:"platform"`
	DiscordURL  string `json:"discord_url"`
	TwitterURL  string `json:"twitter_url"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Platform    *string `json:"platform"`
	DiscordURL  *string `json:"discord_url"`
	TwitterURL  *string `json:"twitter_url"`
}

// UserRefRequest names the user a member, vice-captain or captain change applies to.
type UserRefRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type TeamResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Platform      string     `json:"platform"`
	DiscordURL    string     `json:"discord_url,omitempty"`
	TwitterURL    string     `json:"twitter_url,omitempty"`
	CaptainID     uuid.UUID  `json:"captain_id"`
	ViceCaptainID *uuid.UUID `json:"vice_captain_id,omitempty"`
	AverageRating float64    `json:"average_rating"`
	FeedbackCount int        `json:"feedback_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

type TeamMemberResponse struct {
	UserID   uuid.UUID      `json:"user_id"`
	Role     string         `json:"role"`
	JoinedAt time.Time      `json:"joined_at"`
	User     PlayerResponse `json:"user"`
}
