package handlers

import (
	"context"

	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/services"
	"github.com/dimitrije/squadup/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update services.ProfileUpdate) (*models.User, error)
	SetLookingForTeam(ctx context.Context, id uuid.UUID, looking bool) error
	SearchPlayers(ctx context.Context, filter services.PlayerFilter) ([]models.User, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, spec services.TeamSpec, founderID uuid.UUID) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	Search(ctx context.Context, filter services.TeamFilter) ([]models.Team, error)
	Update(ctx context.Context, teamID uuid.UUID, fields services.TeamUpdate, actorID uuid.UUID) (*models.Team, error)
	Delete(ctx context.Context, teamID, actorID uuid.UUID) error
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	AddMember(ctx context.Context, teamID, userID, actorID uuid.UUID) error
	RemoveMember(ctx context.Context, teamID, userID, actorID uuid.UUID) error
	SetViceCaptain(ctx context.Context, teamID, userID, actorID uuid.UUID) (*models.Team, error)
	ClearViceCaptain(ctx context.Context, teamID, actorID uuid.UUID) (*models.Team, error)
	TransferCaptaincy(ctx context.Context, teamID, newCaptainID, actorID uuid.UUID) (*models.Team, error)
}

// RequestServiceInterface defines the methods used by handlers from RequestService
type RequestServiceInterface interface {
	Create(ctx context.Context, teamID, playerID uuid.UUID, message string) (*models.MembershipRequest, error)
	Approve(ctx context.Context, requestID, actorID uuid.UUID) (*models.MembershipRequest, error)
	Reject(ctx context.Context, requestID, actorID uuid.UUID) (*models.MembershipRequest, error)
	Cancel(ctx context.Context, requestID, playerID uuid.UUID) (*models.MembershipRequest, error)
	ListPendingForTeam(ctx context.Context, teamID, actorID uuid.UUID) ([]models.MembershipRequest, error)
	ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]models.MembershipRequest, error)
}

// FeedbackServiceInterface defines the methods used by handlers from FeedbackService
type FeedbackServiceInterface interface {
	Submit(ctx context.Context, fromUserID uuid.UUID, target models.Target, rating int, rawTags []string, comment string) (*models.Feedback, error)
	Delete(ctx context.Context, feedbackID, requesterID uuid.UUID) error
	StatsFor(ctx context.Context, target models.Target) (*models.RatingStats, error)
	ListFor(ctx context.Context, target models.Target) ([]models.Feedback, error)
	ListByAuthor(ctx context.Context, fromUserID uuid.UUID) ([]models.Feedback, error)
}

// SSEHubInterface defines the methods used by handlers from sse.Hub
type SSEHubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	IsOnline(userID uuid.UUID) bool
}

var (
	_ UserServiceInterface     = (*services.UserService)(nil)
	_ TeamServiceInterface     = (*services.TeamService)(nil)
	_ RequestServiceInterface  = (*services.RequestService)(nil)
	_ FeedbackServiceInterface = (*services.FeedbackService)(nil)
	_ SSEHubInterface          = (*sse.Hub)(nil)
)
