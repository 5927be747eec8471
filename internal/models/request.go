package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible from s.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusCancelled
}

type MembershipRequest struct {
	ID        uuid.UUID     `json:"id"`
	TeamID    uuid.UUID     `json:"team_id"`
	PlayerID  uuid.UUID     `json:"player_id"`
	Message   string        `json:"message"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Team      *Team         `json:"team,omitempty"`
	Player    *User         `json:"player,omitempty"`
}

func (r *MembershipRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
