package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitFeedbackRequest struct {
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
	Rating     int       `json:"rating"`
	Tags       []string  `json:"tags"`
	Comment    string    `json:"comment"`
}

type FeedbackResponse struct {
	ID         uuid.UUID `json:"id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
	Rating     int       `json:"rating"`
	Tags       []string  `json:"tags"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type RatingStatsResponse struct {
	AverageRating float64        `json:"average_rating"`
	FeedbackCount int            `json:"feedback_count"`
	Distribution  [5]int         `json:"distribution"`
	TagCounts     map[string]int `json:"tag_counts"`
}
