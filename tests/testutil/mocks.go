package testutil

import (
	"context"

	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/services"
	"github.com/dimitrije/squadup/internal/sse"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, update services.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetLookingForTeam(ctx context.Context, id uuid.UUID, looking bool) error {
	args := m.Called(ctx, id, looking)
	return args.Error(0)
}

func (m *MockUserService) SearchPlayers(ctx context.Context, filter services.PlayerFilter) ([]models.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) team(args mock.Arguments) (*models.Team, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Create(ctx context.Context, spec services.TeamSpec, founderID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, spec, founderID))
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID))
}

func (m *MockTeamService) Search(ctx context.Context, filter services.TeamFilter) ([]models.Team, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamService) Update(ctx context.Context, teamID uuid.UUID, fields services.TeamUpdate, actorID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID, fields, actorID))
}

func (m *MockTeamService) Delete(ctx context.Context, teamID, actorID uuid.UUID) error {
	args := m.Called(ctx, teamID, actorID)
	return args.Error(0)
}

func (m *MockTeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) AddMember(ctx context.Context, teamID, userID, actorID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID, actorID)
	return args.Error(0)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, userID, actorID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID, actorID)
	return args.Error(0)
}

func (m *MockTeamService) SetViceCaptain(ctx context.Context, teamID, userID, actorID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID, userID, actorID))
}

func (m *MockTeamService) ClearViceCaptain(ctx context.Context, teamID, actorID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID, actorID))
}

func (m *MockTeamService) TransferCaptaincy(ctx context.Context, teamID, newCaptainID, actorID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID, newCaptainID, actorID))
}

// MockRequestService mocks the RequestService
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) request(args mock.Arguments) (*models.MembershipRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipRequest), args.Error(1)
}

func (m *MockRequestService) requests(args mock.Arguments) ([]models.MembershipRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MembershipRequest), args.Error(1)
}

func (m *MockRequestService) Create(ctx context.Context, teamID, playerID uuid.UUID, message string) (*models.MembershipRequest, error) {
	return m.request(m.Called(ctx, teamID, playerID, message))
}

func (m *MockRequestService) Approve(ctx context.Context, requestID, actorID uuid.UUID) (*models.MembershipRequest, error) {
	return m.request(m.Called(ctx, requestID, actorID))
}

func (m *MockRequestService) Reject(ctx context.Context, requestID, actorID uuid.UUID) (*models.MembershipRequest, error) {
	return m.request(m.Called(ctx, requestID, actorID))
}

func (m *MockRequestService) Cancel(ctx context.Context, requestID, playerID uuid.UUID) (*models.MembershipRequest, error) {
	return m.request(m.Called(ctx, requestID, playerID))
}

func (m *MockRequestService) ListPendingForTeam(ctx context.Context, teamID, actorID uuid.UUID) ([]models.MembershipRequest, error) {
	return m.requests(m.Called(ctx, teamID, actorID))
}

func (m *MockRequestService) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]models.MembershipRequest, error) {
	return m.requests(m.Called(ctx, playerID))
}

// MockFeedbackService mocks the FeedbackService
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) feedback(args mock.Arguments) ([]models.Feedback, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Submit(ctx context.Context, fromUserID uuid.UUID, target models.Target, rating int, rawTags []string, comment string) (*models.Feedback, error) {
	args := m.Called(ctx, fromUserID, target, rating, rawTags, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Delete(ctx context.Context, feedbackID, requesterID uuid.UUID) error {
	args := m.Called(ctx, feedbackID, requesterID)
	return args.Error(0)
}

func (m *MockFeedbackService) StatsFor(ctx context.Context, target models.Target) (*models.RatingStats, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingStats), args.Error(1)
}

func (m *MockFeedbackService) ListFor(ctx context.Context, target models.Target) ([]models.Feedback, error) {
	return m.feedback(m.Called(ctx, target))
}

func (m *MockFeedbackService) ListByAuthor(ctx context.Context, fromUserID uuid.UUID) ([]models.Feedback, error) {
	return m.feedback(m.Called(ctx, fromUserID))
}

// MockSSEHub mocks the sse.Hub
type MockSSEHub struct {
	mock.Mock
}

func (m *MockSSEHub) Register(client *sse.Client) {
	m.Called(client)
}

func (m *MockSSEHub) Unregister(client *sse.Client) {
	m.Called(client)
}

func (m *MockSSEHub) IsOnline(userID uuid.UUID) bool {
	args := m.Called(userID)
	return args.Bool(0)
}
