package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Platform      string     `json:"platform"`
	DiscordURL    string     `json:"discord_url"`
	TwitterURL    string     `json:"twitter_url"`
	CaptainID     uuid.UUID  `json:"captain_id"`
	ViceCaptainID *uuid.UUID `json:"vice_captain_id,omitempty"`
	AverageRating float64    `json:"average_rating"`
	FeedbackCount int        `json:"feedback_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type TeamMember struct {
	TeamID    uuid.UUID `json:"team_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
}

const (
	RoleCaptain     = "captain"
	RoleViceCaptain = "vice_captain"
	RoleMember      = "member"
)

// RoleOf reports the role userID holds on t, assuming userID is a member.
func (t *Team) RoleOf(userID uuid.UUID) string {
	switch {
	case t.CaptainID == userID:
		return RoleCaptain
	case t.ViceCaptainID != nil && *t.ViceCaptainID == userID:
		return RoleViceCaptain
	default:
		return RoleMember
	}
}
