package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/sanitize"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const maxBioLength = 300

const userColumns = `id, email, name, avatar_url, bio, platform, profile_completed, team_id,
	looking_for_team, average_rating, feedback_count, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.Bio, &user.Platform,
		&user.ProfileCompleted, &user.TeamID, &user.LookingForTeam,
		&user.AverageRating, &user.FeedbackCount, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// ProfileUpdate carries the fields a user may edit on their own profile.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string
	Bio       *string
	Platform  *string
	AvatarURL *string
}

type PlayerFilter struct {
	Name           string
	Platform       string
	LookingForTeam *bool
	Limit          int
	Offset         int
}

func (s *UserService) Create(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = sanitize.Text(name)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, ErrInvalidName
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name)
		VALUES ($1, $2)
		RETURNING `+userColumns, email, name))
	if err != nil {
		if database.IsUniqueViolation(err, database.ConstraintUsersEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return getUser(ctx, s.db.Pool, id, false)
}

// getUser loads a user, optionally taking a row lock when q is a transaction.
func getUser(ctx context.Context, q querier, id uuid.UUID, lock bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	user, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, strings.TrimSpace(strings.ToLower(email))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of update. A profile counts as
// completed once it has both a name and a platform.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*models.User, error) {
	if update.Name != nil {
		name := sanitize.Text(*update.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		update.Name = &name
	}
	if update.Bio != nil {
		bio := sanitize.Text(*update.Bio)
		if sanitize.Len(bio) > maxBioLength {
			return nil, ErrBioTooLong
		}
		update.Bio = &bio
	}
	if update.Platform != nil {
		platform := sanitize.Text(*update.Platform)
		update.Platform = &platform
	}
	if update.AvatarURL != nil && *update.AvatarURL != "" && !isHTTPURL(*update.AvatarURL) {
		return nil, ErrInvalidLink
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($1, name),
			bio = COALESCE($2, bio),
			platform = COALESCE($3, platform),
			avatar_url = COALESCE($4, avatar_url),
			profile_completed = (COALESCE($1, name) <> '' AND COALESCE($3, platform) <> ''),
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+userColumns,
		update.Name, update.Bio, update.Platform, update.AvatarURL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *UserService) SearchPlayers(ctx context.Context, filter PlayerFilter) ([]models.User, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset)

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1 = '' OR name ILIKE $2)
		  AND ($3 = '' OR platform = $3)
		  AND ($4::boolean IS NULL OR looking_for_team = $4)
		ORDER BY name, id
		LIMIT $5 OFFSET $6
	`, filter.Name, containsPattern(filter.Name), filter.Platform, filter.LookingForTeam, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// SetTeam points the user at teamID, or clears the reference when teamID is nil.
// Callers keep team_members in step; TeamService and RequestService do both in one transaction.
func (s *UserService) SetTeam(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) error {
	return setUserTeam(ctx, s.db.Pool, id, teamID)
}

func setUserTeam(ctx context.Context, q querier, id uuid.UUID, teamID *uuid.UUID) error {
	result, err := q.Exec(ctx, `
		UPDATE users SET team_id = $1, looking_for_team = ($1 IS NULL), updated_at = NOW()
		WHERE id = $2
	`, teamID, id)
	if err != nil {
		return fmt.Errorf("failed to set user team: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetLookingForTeam toggles the availability flag. A player already on a team
// cannot advertise themselves as looking.
func (s *UserService) SetLookingForTeam(ctx context.Context, id uuid.UUID, looking bool) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET looking_for_team = $1, updated_at = NOW()
		WHERE id = $2 AND (NOT $1 OR team_id IS NULL)
	`, looking, id)
	if err != nil {
		return fmt.Errorf("failed to update looking for team: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyOnTeam
	}
	return nil
}

func (s *UserService) ApplyRatingAggregate(ctx context.Context, id uuid.UUID, average float64, count int) error {
	return s.applyRatingAggregate(ctx, s.db.Pool, id, average, count)
}

func (s *UserService) applyRatingAggregate(ctx context.Context, q querier, id uuid.UUID, average float64, count int) error {
	result, err := q.Exec(ctx, `
		UPDATE users SET average_rating = $1, feedback_count = $2, updated_at = NOW()
		WHERE id = $3
	`, average, count, id)
	if err != nil {
		return fmt.Errorf("failed to apply user rating: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
