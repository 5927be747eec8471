package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/sanitize"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	minRating        = 1
	maxRating        = 5
	maxCommentLength = 500
)

const feedbackColumns = `id, from_user_id, target_user_id, target_team_id, rating, tags, comment, created_at`

func scanFeedback(row scanner) (*models.Feedback, error) {
	var fb models.Feedback
	var targetUserID, targetTeamID *uuid.UUID
	var tags []string
	err := row.Scan(
		&fb.ID, &fb.FromUserID, &targetUserID, &targetTeamID, &fb.Rating, &tags, &fb.Comment, &fb.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	fb.Target, err = models.TargetFromColumns(targetUserID, targetTeamID)
	if err != nil {
		return nil, err
	}
	fb.Tags = make([]models.FeedbackTag, len(tags))
	for i, tag := range tags {
		fb.Tags[i] = models.FeedbackTag(tag)
	}
	return &fb, nil
}

// targetColumn names the feedback column that references target.
func targetColumn(target models.Target) string {
	if target.IsTeam() {
		return "target_team_id"
	}
	return "target_user_id"
}

// aggregateWriter is the write-back half of UserService and TeamService.
type aggregateWriter interface {
	applyRatingAggregate(ctx context.Context, q querier, id uuid.UUID, average float64, count int) error
}

// FeedbackService stores ratings and keeps the denormalized average and count
// on the rated user or team in step with them.
type FeedbackService struct {
	db       *database.DB
	users    aggregateWriter
	teams    aggregateWriter
	notifier Notifier
	logger   *zap.Logger
}

func NewFeedbackService(db *database.DB, users *UserService, teams *TeamService, notifier Notifier, logger *zap.Logger) *FeedbackService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		db:       db,
		users:    users,
		teams:    teams,
		notifier: notifier,
		logger:   logger.Named("feedback"),
	}
}

// Submit records one rating from fromUserID for target. Each rater may rate a
// given target once; the partial unique indexes turn a second attempt into
// ErrDuplicateFeedback even under concurrency.
func (s *FeedbackService) Submit(ctx context.Context, fromUserID uuid.UUID, target models.Target, rating int, rawTags []string, comment string) (*models.Feedback, error) {
	if !target.IsValid() {
		return nil, ErrInvalidTarget
	}
	if rating < minRating || rating > maxRating {
		return nil, ErrInvalidRating
	}
	tags, unknown, ok := models.ParseFeedbackTags(rawTags)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, unknown)
	}
	comment = sanitize.Text(comment)
	if sanitize.Len(comment) > maxCommentLength {
		return nil, ErrCommentTooLong
	}
	if target.IsUser() && target.ID() == fromUserID {
		return nil, ErrSelfFeedback
	}

	rater, err := getUser(ctx, s.db.Pool, fromUserID, false)
	if err != nil {
		return nil, err
	}

	recipientID, err := s.recipientFor(ctx, rater, target)
	if err != nil {
		return nil, err
	}

	targetUserID, targetTeamID := target.Columns()
	fb, err := scanFeedback(s.db.Pool.QueryRow(ctx, `
		INSERT INTO feedback (from_user_id, target_user_id, target_team_id, rating, tags, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+feedbackColumns,
		fromUserID, targetUserID, targetTeamID, rating, models.TagStrings(tags), comment))
	if err != nil {
		if database.IsUniqueViolation(err, database.IndexFeedbackUserTargetUnique) ||
			database.IsUniqueViolation(err, database.IndexFeedbackTeamTargetUnique) {
			return nil, ErrDuplicateFeedback
		}
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	// The rating is stored at this point; a stale aggregate is repaired by the
	// next write for the same target.
	s.recomputeLogged(ctx, target)

	s.notifier.NotifyFeedbackReceived(ctx, fb, recipientID)
	return fb, nil
}

// recipientFor checks the target exists and returns who should hear about the
// rating: the user themselves, or the team's captain.
func (s *FeedbackService) recipientFor(ctx context.Context, rater *models.User, target models.Target) (uuid.UUID, error) {
	if target.IsUser() {
		user, err := getUser(ctx, s.db.Pool, target.ID(), false)
		if err != nil {
			return uuid.Nil, err
		}
		return user.ID, nil
	}

	team, err := getTeam(ctx, s.db.Pool, target.ID(), false)
	if err != nil {
		return uuid.Nil, err
	}
	if rater.TeamID != nil && *rater.TeamID == team.ID {
		return uuid.Nil, ErrOwnTeamFeedback
	}
	return team.CaptainID, nil
}

// recompute rescans every rating of target and writes the result back. The
// target row is locked first, so concurrent recomputes for one target run one
// after another and the last writer sees every committed rating.
func (s *FeedbackService) recompute(ctx context.Context, target models.Target) (models.RatingAggregate, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return models.RatingAggregate{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	writer := s.users
	if target.IsTeam() {
		writer = s.teams
		_, err = getTeam(ctx, tx, target.ID(), true)
	} else {
		_, err = getUser(ctx, tx, target.ID(), true)
	}
	if err != nil {
		return models.RatingAggregate{}, err
	}

	var sum, n int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(rating), 0), COUNT(*) FROM feedback WHERE `+targetColumn(target)+` = $1
	`, target.ID()).Scan(&sum, &n)
	if err != nil {
		return models.RatingAggregate{}, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	aggregate := models.RatingAggregate{Average: RoundOneDecimal(sum, n), Count: int(n)}
	if err := writer.applyRatingAggregate(ctx, tx, target.ID(), aggregate.Average, aggregate.Count); err != nil {
		return models.RatingAggregate{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.RatingAggregate{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return aggregate, nil
}

func (s *FeedbackService) recomputeLogged(ctx context.Context, target models.Target) {
	if _, err := s.recompute(ctx, target); err != nil {
		s.logger.Error("failed to recompute rating aggregate",
			zap.Stringer("target", target),
			zap.Error(err),
		)
	}
}

func (s *FeedbackService) GetByID(ctx context.Context, feedbackID uuid.UUID) (*models.Feedback, error) {
	fb, err := scanFeedback(s.db.Pool.QueryRow(ctx, `
		SELECT `+feedbackColumns+` FROM feedback WHERE id = $1
	`, feedbackID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb, nil
}

// Delete removes feedback written by requesterID and recomputes the aggregate
// of the target it pointed at.
func (s *FeedbackService) Delete(ctx context.Context, feedbackID, requesterID uuid.UUID) error {
	fb, err := s.GetByID(ctx, feedbackID)
	if err != nil {
		return err
	}
	if fb.FromUserID != requesterID {
		return ErrNotFeedbackAuthor
	}

	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM feedback WHERE id = $1 AND from_user_id = $2
	`, feedbackID, requesterID)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}

	s.recomputeLogged(ctx, fb.Target)
	return nil
}

func (s *FeedbackService) ensureTarget(ctx context.Context, target models.Target) error {
	if !target.IsValid() {
		return ErrInvalidTarget
	}
	var err error
	if target.IsTeam() {
		_, err = getTeam(ctx, s.db.Pool, target.ID(), false)
	} else {
		_, err = getUser(ctx, s.db.Pool, target.ID(), false)
	}
	return err
}

// StatsFor summarizes every rating of target: the same average and count that
// are cached on the entity, plus a per-star histogram and tag counts.
func (s *FeedbackService) StatsFor(ctx context.Context, target models.Target) (*models.RatingStats, error) {
	if err := s.ensureTarget(ctx, target); err != nil {
		return nil, err
	}
	column := targetColumn(target)

	rows, err := s.db.Pool.Query(ctx, `
		SELECT rating, COUNT(*) FROM feedback WHERE `+column+` = $1 GROUP BY rating
	`, target.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load rating distribution: %w", err)
	}
	defer rows.Close()

	stats := &models.RatingStats{TagCounts: map[models.FeedbackTag]int{}}
	var sum, n int64
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		if rating < minRating || rating > maxRating {
			continue
		}
		stats.Distribution[rating-1] = int(count)
		sum += int64(rating) * count
		n += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.Average = RoundOneDecimal(sum, n)
	stats.Count = int(n)

	tagRows, err := s.db.Pool.Query(ctx, `
		SELECT tag, COUNT(*) FROM feedback, unnest(tags) AS tag
		WHERE `+column+` = $1
		GROUP BY tag
	`, target.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load tag counts: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var tag string
		var count int64
		if err := tagRows.Scan(&tag, &count); err != nil {
			return nil, err
		}
		stats.TagCounts[models.FeedbackTag(tag)] = int(count)
	}
	return stats, tagRows.Err()
}

// ListFor returns every rating of target, newest first.
func (s *FeedbackService) ListFor(ctx context.Context, target models.Target) ([]models.Feedback, error) {
	if err := s.ensureTarget(ctx, target); err != nil {
		return nil, err
	}
	return s.list(ctx, `
		SELECT `+feedbackColumns+` FROM feedback
		WHERE `+targetColumn(target)+` = $1
		ORDER BY created_at DESC
	`, target.ID())
}

// ListByAuthor returns what fromUserID has rated, newest first.
func (s *FeedbackService) ListByAuthor(ctx context.Context, fromUserID uuid.UUID) ([]models.Feedback, error) {
	return s.list(ctx, `
		SELECT `+feedbackColumns+` FROM feedback
		WHERE from_user_id = $1
		ORDER BY created_at DESC
	`, fromUserID)
}

func (s *FeedbackService) list(ctx context.Context, query string, args ...any) ([]models.Feedback, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	feedback := []models.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		feedback = append(feedback, *fb)
	}
	return feedback, rows.Err()
}
