package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
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
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (u *User) HasTeam() bool {
	return u.TeamID != nil
}
