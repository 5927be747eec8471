package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/services"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser inserts a player with a completed profile who is looking for a team
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:            fmt.Sprintf("player%d@example.com", f.counter),
		Name:             fmt.Sprintf("Player %d", f.counter),
		Platform:         "pc",
		ProfileCompleted: true,
		LookingForTeam:   true,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, platform, profile_completed, looking_for_team)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Name, user.Platform, user.ProfileCompleted, user.LookingForTeam).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithIncompleteProfile creates the user without a platform, so it cannot found a team
func WithIncompleteProfile() UserOption {
	return func(u *models.User) {
		u.Platform = ""
		u.ProfileCompleted = false
	}
}

// CreateTeam founds a team through TeamService so the captain's membership is recorded too
func (f *Fixtures) CreateTeam(t *testing.T, captain *models.User, name string) *models.Team {
	t.Helper()
	team, err := services.NewTeamService(f.db).Create(context.Background(), services.TeamSpec{
		Name:     name,
		Platform: "pc",
	}, captain.ID)
	if err != nil {
		t.Fatalf("failed to create team %q: %v", name, err)
	}
	captain.TeamID = &team.ID
	captain.LookingForTeam = false
	return team
}

// ReloadUser reads the current row for id
func (f *Fixtures) ReloadUser(t *testing.T, id uuid.UUID) *models.User {
	t.Helper()
	user, err := services.NewUserService(f.db).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return user
}

// ReloadTeam reads the current row for id
func (f *Fixtures) ReloadTeam(t *testing.T, id uuid.UUID) *models.Team {
	t.Helper()
	team, err := services.NewTeamService(f.db).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload team: %v", err)
	}
	return team
}
