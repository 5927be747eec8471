package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/policy"
	"github.com/dimitrije/squadup/internal/sanitize"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	minTeamNameLength    = 3
	maxTeamNameLength    = 30
	maxDescriptionLength = 500
)

const teamColumns = `id, name, description, platform, discord_url, twitter_url, captain_id,
	vice_captain_id, average_rating, feedback_count, created_at, updated_at`

func scanTeam(row scanner) (*models.Team, error) {
	var team models.Team
	err := row.Scan(
		&team.ID, &team.Name, &team.Description, &team.Platform, &team.DiscordURL, &team.TwitterURL,
		&team.CaptainID, &team.ViceCaptainID, &team.AverageRating, &team.FeedbackCount,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// getTeam loads a team, optionally taking a row lock when q is a transaction.
func getTeam(ctx context.Context, q querier, id uuid.UUID, lock bool) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	team, err := scanTeam(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// TeamSpec is what a founder fills in when creating a team.
type TeamSpec struct {
	Name        string
	Description string
	Platform    string
	DiscordURL  string
	TwitterURL  string
}

// TeamUpdate lists the fields captains and vice-captains may edit. Nil fields are left unchanged.
type TeamUpdate struct {
	Name        *string
	Description *string
	Platform    *string
	DiscordURL  *string
	TwitterURL  *string
}

type TeamFilter struct {
	Name     string
	Platform string
	Limit    int
	Offset   int
}

type TeamService struct {
	db *database.DB
}

func NewTeamService(db *database.DB) *TeamService {
	return &TeamService{db: db}
}

func normalizeTeamName(name string) (string, error) {
	name = sanitize.Text(name)
	if n := sanitize.Len(name); n < minTeamNameLength || n > maxTeamNameLength {
		return "", ErrInvalidTeamName
	}
	return name, nil
}

func normalizeDescription(description string) (string, error) {
	description = sanitize.Text(description)
	if sanitize.Len(description) > maxDescriptionLength {
		return "", ErrDescriptionLong
	}
	return description, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// normalizeLink accepts an empty string (no link) or an absolute http(s) URL.
func normalizeLink(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" && !isHTTPURL(raw) {
		return "", ErrInvalidLink
	}
	return raw, nil
}

func (spec TeamSpec) normalize() (TeamSpec, error) {
	var err error
	if spec.Name, err = normalizeTeamName(spec.Name); err != nil {
		return spec, err
	}
	if spec.Description, err = normalizeDescription(spec.Description); err != nil {
		return spec, err
	}
	if spec.DiscordURL, err = normalizeLink(spec.DiscordURL); err != nil {
		return spec, err
	}
	if spec.TwitterURL, err = normalizeLink(spec.TwitterURL); err != nil {
		return spec, err
	}
	spec.Platform = sanitize.Text(spec.Platform)
	return spec, nil
}

func (u TeamUpdate) normalize() (TeamUpdate, error) {
	apply := func(field **string, fn func(string) (string, error)) error {
		if *field == nil {
			return nil
		}
		v, err := fn(**field)
		if err != nil {
			return err
		}
		*field = &v
		return nil
	}
	plain := func(s string) (string, error) { return sanitize.Text(s), nil }

	for _, step := range []struct {
		field **string
		fn    func(string) (string, error)
	}{
		{&u.Name, normalizeTeamName},
		{&u.Description, normalizeDescription},
		{&u.Platform, plain},
		{&u.DiscordURL, normalizeLink},
		{&u.TwitterURL, normalizeLink},
	} {
		if err := apply(step.field, step.fn); err != nil {
			return u, err
		}
	}
	return u, nil
}

// Create founds a team. The founder becomes captain and sole member in the same transaction.
func (s *TeamService) Create(ctx context.Context, spec TeamSpec, founderID uuid.UUID) (*models.Team, error) {
	spec, err := spec.normalize()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	founder, err := getUser(ctx, tx, founderID, true)
	if err != nil {
		return nil, err
	}
	if !founder.ProfileCompleted {
		return nil, ErrProfileIncomplete
	}
	if founder.HasTeam() {
		return nil, ErrAlreadyOnTeam
	}

	team, err := scanTeam(tx.QueryRow(ctx, `
		INSERT INTO teams (name, description, platform, discord_url, twitter_url, captain_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+teamColumns,
		spec.Name, spec.Description, spec.Platform, spec.DiscordURL, spec.TwitterURL, founderID))
	if err != nil {
		if database.IsUniqueViolation(err, database.ConstraintTeamsName) {
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if err := addMemberTx(ctx, tx, team.ID, founderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return team, nil
}

// addMemberTx writes both sides of a membership: the team_members row and the
// user's team reference. It performs no authorization; callers do that first.
func addMemberTx(ctx context.Context, tx pgx.Tx, teamID, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
	`, teamID, userID)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, database.ConstraintTeamMembersPK):
			return ErrAlreadyMember
		case database.IsUniqueViolation(err, database.ConstraintTeamMembersUser):
			return ErrAlreadyOnTeam
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	result, err := tx.Exec(ctx, `
		UPDATE users SET team_id = $1, looking_for_team = FALSE, updated_at = NOW()
		WHERE id = $2 AND team_id IS NULL
	`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to set user team: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAlreadyOnTeam
	}
	return nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID, actorID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	team, err := getTeam(ctx, tx, teamID, true)
	if err != nil {
		return err
	}
	if !policy.CanDestructivelyAdminister(team, actorID) {
		return ErrNotCaptain
	}

	user, err := getUser(ctx, tx, userID, true)
	if err != nil {
		return err
	}
	if user.HasTeam() {
		if *user.TeamID == teamID {
			return ErrAlreadyMember
		}
		return ErrAlreadyOnTeam
	}

	if err := addMemberTx(ctx, tx, teamID, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RemoveMember covers both leaving (actor == user) and kicking (actor is captain).
// The captain is never removed this way, whoever asks.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID, actorID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	team, err := getTeam(ctx, tx, teamID, true)
	if err != nil {
		return err
	}
	if policy.IsCaptain(team, userID) {
		return ErrCaptainCannotLeave
	}
	if !policy.CanRemoveMember(team, actorID, userID) {
		return ErrCannotRemoveMember
	}

	result, err := tx.Exec(ctx, `
		DELETE FROM team_members
		WHERE team_id = $1 AND user_id = $2 AND user_id <> $3
	`, teamID, userID, team.CaptainID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	if policy.IsViceCaptain(team, userID) {
		_, err = tx.Exec(ctx, `
			UPDATE teams SET vice_captain_id = NULL, updated_at = NOW()
			WHERE id = $1 AND vice_captain_id = $2
		`, teamID, userID)
		if err != nil {
			return fmt.Errorf("failed to clear vice captain: %w", err)
		}
	}

	if err := setUserTeam(ctx, tx, userID, nil); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetViceCaptain is a single conditional update: it only lands if userID is
// still a member other than the captain when the statement runs.
func (s *TeamService) SetViceCaptain(ctx context.Context, teamID, userID, actorID uuid.UUID) (*models.Team, error) {
	team, err := getTeam(ctx, s.db.Pool, teamID, false)
	if err != nil {
		return nil, err
	}
	if !policy.CanDestructivelyAdminister(team, actorID) {
		return nil, ErrNotCaptain
	}
	if policy.IsCaptain(team, userID) {
		return nil, ErrNotEligibleMember
	}

	updated, err := scanTeam(s.db.Pool.QueryRow(ctx, `
		UPDATE teams SET vice_captain_id = $2, updated_at = NOW()
		WHERE id = $1 AND captain_id = $3 AND captain_id <> $2
		  AND EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
		RETURNING `+teamColumns, teamID, userID, actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotEligibleMember
		}
		return nil, fmt.Errorf("failed to set vice captain: %w", err)
	}
	return updated, nil
}

func (s *TeamService) ClearViceCaptain(ctx context.Context, teamID, actorID uuid.UUID) (*models.Team, error) {
	team, err := getTeam(ctx, s.db.Pool, teamID, false)
	if err != nil {
		return nil, err
	}
	if !policy.CanDestructivelyAdminister(team, actorID) {
		return nil, ErrNotCaptain
	}

	updated, err := scanTeam(s.db.Pool.QueryRow(ctx, `
		UPDATE teams SET vice_captain_id = NULL, updated_at = NOW()
		WHERE id = $1 AND captain_id = $2
		RETURNING `+teamColumns, teamID, actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaptaincyChanged
		}
		return nil, fmt.Errorf("failed to clear vice captain: %w", err)
	}
	return updated, nil
}

// TransferCaptaincy hands the team to another member. The old captain stays on
// as a regular member; a vice-captain promoted to captain loses the vice slot.
func (s *TeamService) TransferCaptaincy(ctx context.Context, teamID, newCaptainID, actorID uuid.UUID) (*models.Team, error) {
	team, err := getTeam(ctx, s.db.Pool, teamID, false)
	if err != nil {
		return nil, err
	}
	if !policy.CanDestructivelyAdminister(team, actorID) {
		return nil, ErrNotCaptain
	}
	if newCaptainID == actorID {
		return nil, ErrNotEligibleMember
	}

	updated, err := scanTeam(s.db.Pool.QueryRow(ctx, `
		UPDATE teams SET
			captain_id = $2,
			vice_captain_id = CASE WHEN vice_captain_id = $2 THEN NULL ELSE vice_captain_id END,
			updated_at = NOW()
		WHERE id = $1 AND captain_id = $3
		  AND EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
		RETURNING `+teamColumns, teamID, newCaptainID, actorID))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to transfer captaincy: %w", err)
	}

	isMember, err := s.IsMember(ctx, teamID, newCaptainID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotEligibleMember
	}
	return nil, ErrCaptaincyChanged
}

func (s *TeamService) Update(ctx context.Context, teamID uuid.UUID, fields TeamUpdate, actorID uuid.UUID) (*models.Team, error) {
	team, err := getTeam(ctx, s.db.Pool, teamID, false)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageTeam(team, actorID) {
		return nil, ErrNotTeamManager
	}

	fields, err = fields.normalize()
	if err != nil {
		return nil, err
	}

	updated, err := scanTeam(s.db.Pool.QueryRow(ctx, `
		UPDATE teams SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			platform = COALESCE($3, platform),
			discord_url = COALESCE($4, discord_url),
			twitter_url = COALESCE($5, twitter_url),
			updated_at = NOW()
		WHERE id = $6
		RETURNING `+teamColumns,
		fields.Name, fields.Description, fields.Platform, fields.DiscordURL, fields.TwitterURL, teamID))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrTeamNotFound
		case database.IsUniqueViolation(err, database.ConstraintTeamsName):
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return updated, nil
}

// Delete removes the team. Every former member's team reference is cleared and
// they are marked as looking for a team again before the row goes away.
func (s *TeamService) Delete(ctx context.Context, teamID, actorID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	team, err := getTeam(ctx, tx, teamID, true)
	if err != nil {
		return err
	}
	if !policy.CanDestructivelyAdminister(team, actorID) {
		return ErrNotCaptain
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET team_id = NULL, looking_for_team = TRUE, updated_at = NOW()
		WHERE team_id = $1
	`, teamID)
	if err != nil {
		return fmt.Errorf("failed to release members: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *TeamService) ApplyRatingAggregate(ctx context.Context, teamID uuid.UUID, average float64, count int) error {
	return s.applyRatingAggregate(ctx, s.db.Pool, teamID, average, count)
}

func (s *TeamService) applyRatingAggregate(ctx context.Context, q querier, teamID uuid.UUID, average float64, count int) error {
	result, err := q.Exec(ctx, `
		UPDATE teams SET average_rating = $1, feedback_count = $2, updated_at = NOW()
		WHERE id = $3
	`, average, count, teamID)
	if err != nil {
		return fmt.Errorf("failed to apply team rating: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	return getTeam(ctx, s.db.Pool, teamID, false)
}

func (s *TeamService) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// GetMembers lists the roster, oldest member first, with each member's role filled in.
func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	team, err := getTeam(ctx, s.db.Pool, teamID, false)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.created_at, `+qualifyColumns("u", userColumns)+`
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at, u.id
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.CreatedAt,
			&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.Bio, &user.Platform,
			&user.ProfileCompleted, &user.TeamID, &user.LookingForTeam,
			&user.AverageRating, &user.FeedbackCount, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.TeamID = teamID
		member.UserID = user.ID
		member.Role = team.RoleOf(user.ID)
		member.User = &user
		members = append(members, member)
	}
	return members, rows.Err()
}

func (s *TeamService) Search(ctx context.Context, filter TeamFilter) ([]models.Team, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset)

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+teamColumns+`
		FROM teams
		WHERE ($1 = '' OR name ILIKE $2)
		  AND ($3 = '' OR platform = $3)
		ORDER BY name
		LIMIT $4 OFFSET $5
	`, filter.Name, containsPattern(filter.Name), filter.Platform, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}
