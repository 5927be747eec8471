package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is the caller's own profile.
type UserResponse struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	AvatarURL        *string    `json:"avatar_url,omitempty"`
	Bio              string     `json:"bio"`
	Platform         string     `json:"platform"`
	ProfileCompleted bool       `json:"profile_completed"`
	TeamID           *uuid.UUID `json:"team_id,omitempty"`
	LookingForTeam   bool       `json:"looking_for_team"`
	AverageRating    float64    `json:"average_rating"`
	FeedbackCount    int        `json:"feedback_count"`
	CreatedAt        time.Time  `json:"created_at"`
}

// PlayerResponse is what other users see of a profile; it omits the email.
type PlayerResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	Bio            string     `json:"bio"`
	Platform       string     `json:"platform"`
	TeamID         *uuid.UUID `json:"team_id,omitempty"`
	LookingForTeam bool       `json:"looking_for_team"`
	AverageRating  float64    `json:"average_rating"`
	FeedbackCount  int        `json:"feedback_count"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	Platform       *string `json:"platform"`
	AvatarURL      *string `json:"avatar_url"`
	LookingForTeam *bool   `json:"looking_for_team"`
}
