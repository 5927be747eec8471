package services

import (
	"testing"
	"time"

	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &database.DB{Pool: mock}, mock
}

var userRowColumns = []string{
	"id", "email", "name", "avatar_url", "bio", "platform", "profile_completed", "team_id",
	"looking_for_team", "average_rating", "feedback_count", "created_at", "updated_at",
}

func userRows(users ...*models.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(userRowColumns)
	for _, u := range users {
		rows.AddRow(u.ID, u.Email, u.Name, u.AvatarURL, u.Bio, u.Platform, u.ProfileCompleted, u.TeamID,
			u.LookingForTeam, u.AverageRating, u.FeedbackCount, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

var teamRowColumns = []string{
	"id", "name", "description", "platform", "discord_url", "twitter_url", "captain_id", "vice_captain_id",
	"average_rating", "feedback_count", "created_at", "updated_at",
}

func teamRows(teams ...*models.Team) *pgxmock.Rows {
	rows := pgxmock.NewRows(teamRowColumns)
	for _, tm := range teams {
		rows.AddRow(tm.ID, tm.Name, tm.Description, tm.Platform, tm.DiscordURL, tm.TwitterURL, tm.CaptainID,
			tm.ViceCaptainID, tm.AverageRating, tm.FeedbackCount, tm.CreatedAt, tm.UpdatedAt)
	}
	return rows
}

var requestRowColumns = []string{"id", "team_id", "player_id", "message", "status", "created_at", "updated_at"}

func requestRows(requests ...*models.MembershipRequest) *pgxmock.Rows {
	rows := pgxmock.NewRows(requestRowColumns)
	for _, r := range requests {
		rows.AddRow(r.ID, r.TeamID, r.PlayerID, r.Message, r.Status, r.CreatedAt, r.UpdatedAt)
	}
	return rows
}

func testUser(name string) *models.User {
	now := time.Now()
	return &models.User{
		ID:               uuid.New(),
		Email:            name + "@example.com",
		Name:             name,
		Platform:         "pc",
		ProfileCompleted: true,
		LookingForTeam:   true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func testTeam(name string, captainID uuid.UUID) *models.Team {
	now := time.Now()
	return &models.Team{
		ID:        uuid.New(),
		Name:      name,
		Platform:  "pc",
		CaptainID: captainID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testRequest(teamID, playerID uuid.UUID, status models.RequestStatus) *models.MembershipRequest {
	now := time.Now()
	return &models.MembershipRequest{
		ID:        uuid.New(),
		TeamID:    teamID,
		PlayerID:  playerID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
