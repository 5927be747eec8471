package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/policy"
	"github.com/dimitrije/squadup/internal/sanitize"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const maxRequestMessageLength = 300

const requestColumns = `id, team_id, player_id, message, status, created_at, updated_at`

func scanRequest(row scanner, extra ...any) (*models.MembershipRequest, error) {
	var req models.MembershipRequest
	dest := append([]any{
		&req.ID, &req.TeamID, &req.PlayerID, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &req, nil
}

func getRequest(ctx context.Context, q querier, id uuid.UUID, lock bool) (*models.MembershipRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM membership_requests WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// RequestService runs the join-request lifecycle:
// pending -> approved | rejected | cancelled, all terminal.
type RequestService struct {
	db       *database.DB
	notifier Notifier
}

func NewRequestService(db *database.DB, notifier Notifier) *RequestService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &RequestService{db: db, notifier: notifier}
}

// Create files a join request. At most one pending request may exist per
// (team, player); the partial unique index enforces it under concurrency.
// The player row is locked so a concurrent Approve that seats the player
// cannot interleave between the team check and the insert.
func (s *RequestService) Create(ctx context.Context, teamID, playerID uuid.UUID, message string) (*models.MembershipRequest, error) {
	message = sanitize.Text(message)
	if sanitize.Len(message) > maxRequestMessageLength {
		return nil, ErrMessageTooLong
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	team, err := getTeam(ctx, tx, teamID, false)
	if err != nil {
		return nil, err
	}
	player, err := getUser(ctx, tx, playerID, true)
	if err != nil {
		return nil, err
	}
	if player.HasTeam() {
		return nil, ErrAlreadyOnTeam
	}

	req, err := scanRequest(tx.QueryRow(ctx, `
		INSERT INTO membership_requests (team_id, player_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+requestColumns, teamID, playerID, message, models.RequestStatusPending))
	if err != nil {
		if database.IsUniqueViolation(err, database.IndexPendingRequest) {
			return nil, ErrRequestAlreadyPending
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	req.Player = player
	s.notifier.NotifyTeamRequestCreated(ctx, req, team)
	return req, nil
}

// Approve adds the player to the team and closes every other pending request
// the player has, all in one transaction. A concurrent approval for the same
// player loses on the locked user row and gets ErrAlreadyOnTeam.
func (s *RequestService) Approve(ctx context.Context, requestID, actorID uuid.UUID) (*models.MembershipRequest, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	req, err := getRequest(ctx, tx, requestID, true)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, ErrRequestNotPending
	}

	team, err := getTeam(ctx, tx, req.TeamID, true)
	if err != nil {
		return nil, err
	}
	if !policy.CanApproveRequest(team, actorID) {
		return nil, ErrNotTeamManager
	}

	player, err := getUser(ctx, tx, req.PlayerID, true)
	if err != nil {
		return nil, err
	}
	if player.HasTeam() {
		return nil, ErrAlreadyOnTeam
	}

	if err := addMemberTx(ctx, tx, team.ID, player.ID); err != nil {
		return nil, err
	}

	approved, err := scanRequest(tx.QueryRow(ctx, `
		UPDATE membership_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+requestColumns, models.RequestStatusApproved, requestID, models.RequestStatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotPending
		}
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE membership_requests SET status = $1, updated_at = NOW()
		WHERE player_id = $2 AND status = $3 AND id <> $4
	`, models.RequestStatusCancelled, player.ID, models.RequestStatusPending, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel other requests: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return approved, nil
}

// Reject is captain only; vice-captains can approve but not reject.
func (s *RequestService) Reject(ctx context.Context, requestID, actorID uuid.UUID) (*models.MembershipRequest, error) {
	req, err := getRequest(ctx, s.db.Pool, requestID, false)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, ErrRequestNotPending
	}

	team, err := getTeam(ctx, s.db.Pool, req.TeamID, false)
	if err != nil {
		return nil, err
	}
	if !policy.CanRejectRequest(team, actorID) {
		return nil, ErrNotCaptain
	}

	return s.transition(ctx, requestID, models.RequestStatusRejected)
}

func (s *RequestService) Cancel(ctx context.Context, requestID, playerID uuid.UUID) (*models.MembershipRequest, error) {
	req, err := getRequest(ctx, s.db.Pool, requestID, false)
	if err != nil {
		return nil, err
	}
	if req.PlayerID != playerID {
		return nil, ErrNotRequestAuthor
	}
	if !req.IsPending() {
		return nil, ErrRequestNotPending
	}

	return s.transition(ctx, requestID, models.RequestStatusCancelled)
}

// transition moves a pending request to status. Losing a race against another
// transition shows up as zero rows and is reported as ErrRequestNotPending.
func (s *RequestService) transition(ctx context.Context, requestID uuid.UUID, status models.RequestStatus) (*models.MembershipRequest, error) {
	req, err := scanRequest(s.db.Pool.QueryRow(ctx, `
		UPDATE membership_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+requestColumns, status, requestID, models.RequestStatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotPending
		}
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	return req, nil
}

func (s *RequestService) GetByID(ctx context.Context, requestID uuid.UUID) (*models.MembershipRequest, error) {
	return getRequest(ctx, s.db.Pool, requestID, false)
}

// ListPendingForTeam is the captain's and vice-captain's inbox, oldest first.
func (s *RequestService) ListPendingForTeam(ctx context.Context, teamID, actorID uuid.UUID) ([]models.MembershipRequest, error) {
	team, err := getTeam(ctx, s.db.Pool, teamID, false)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageTeam(team, actorID) {
		return nil, ErrNotTeamManager
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+qualifyColumns("r", requestColumns)+`, `+qualifyColumns("u", userColumns)+`
		FROM membership_requests r
		JOIN users u ON r.player_id = u.id
		WHERE r.team_id = $1 AND r.status = $2
		ORDER BY r.created_at
	`, teamID, models.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []models.MembershipRequest{}
	for rows.Next() {
		var player models.User
		req, err := scanRequest(rows,
			&player.ID, &player.Email, &player.Name, &player.AvatarURL, &player.Bio, &player.Platform,
			&player.ProfileCompleted, &player.TeamID, &player.LookingForTeam,
			&player.AverageRating, &player.FeedbackCount, &player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		req.Player = &player
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// ListForPlayer returns every request the player has filed, newest first.
func (s *RequestService) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]models.MembershipRequest, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+qualifyColumns("r", requestColumns)+`, `+qualifyColumns("t", teamColumns)+`
		FROM membership_requests r
		JOIN teams t ON r.team_id = t.id
		WHERE r.player_id = $1
		ORDER BY r.created_at DESC
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []models.MembershipRequest{}
	for rows.Next() {
		var team models.Team
		req, err := scanRequest(rows,
			&team.ID, &team.Name, &team.Description, &team.Platform, &team.DiscordURL, &team.TwitterURL,
			&team.CaptainID, &team.ViceCaptainID, &team.AverageRating, &team.FeedbackCount,
			&team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		req.Team = &team
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}
