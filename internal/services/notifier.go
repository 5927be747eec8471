package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/internal/sse"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier tells users about things that happened to them. Calls never fail the
// operation that triggered them; delivery problems are the notifier's to log.
type Notifier interface {
	NotifyTeamRequestCreated(ctx context.Context, request *models.MembershipRequest, team *models.Team)
	NotifyFeedbackReceived(ctx context.Context, feedback *models.Feedback, recipientID uuid.UUID)
}

type NopNotifier struct{}

func (NopNotifier) NotifyTeamRequestCreated(context.Context, *models.MembershipRequest, *models.Team) {}

func (NopNotifier) NotifyFeedbackReceived(context.Context, *models.Feedback, uuid.UUID) {}

type mailer interface {
	IsConfigured() bool
	SendTeamRequestNotification(to, teamName, playerName, requestsURL string) error
	SendFeedbackNotification(to string, rating int, profileURL string) error
}

type userFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type pusher interface {
	SendToUser(userID uuid.UUID, eventType string, data any) bool
}

// NotificationService pushes an event to the recipient's open streams right away
// and sends an email in the background when SMTP is configured.
type NotificationService struct {
	hub     pusher
	mail    mailer
	users   userFinder
	baseURL string
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewNotificationService(hub *sse.Hub, mail *EmailService, users *UserService, baseURL string, logger *zap.Logger) *NotificationService {
	return newNotificationService(hub, mail, users, baseURL, logger)
}

func newNotificationService(hub pusher, mail mailer, users userFinder, baseURL string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		hub:     hub,
		mail:    mail,
		users:   users,
		baseURL: baseURL,
		logger:  logger.Named("notifier"),
	}
}

func (n *NotificationService) NotifyTeamRequestCreated(ctx context.Context, request *models.MembershipRequest, team *models.Team) {
	event := sse.TeamRequestCreatedEvent{
		RequestID: request.ID,
		TeamID:    team.ID,
		TeamName:  team.Name,
		PlayerID:  request.PlayerID,
		Message:   request.Message,
	}

	recipients := []uuid.UUID{team.CaptainID}
	if team.ViceCaptainID != nil {
		recipients = append(recipients, *team.ViceCaptainID)
	}

	playerName := ""
	if request.Player != nil {
		playerName = request.Player.Name
	}
	requestsURL := fmt.Sprintf("%s/teams/%s/requests", n.baseURL, team.ID)

	for _, recipientID := range recipients {
		n.push(recipientID, sse.EventTeamRequestCreated, event)
		n.email(ctx, recipientID, func(to string) error {
			return n.mail.SendTeamRequestNotification(to, team.Name, playerName, requestsURL)
		})
	}
}

func (n *NotificationService) NotifyFeedbackReceived(ctx context.Context, feedback *models.Feedback, recipientID uuid.UUID) {
	n.push(recipientID, sse.EventFeedbackReceived, sse.FeedbackReceivedEvent{
		FeedbackID: feedback.ID,
		TargetType: string(feedback.Target.Kind()),
		TargetID:   feedback.Target.ID(),
		Rating:     feedback.Rating,
	})

	profileURL := fmt.Sprintf("%s/%ss/%s", n.baseURL, feedback.Target.Kind(), feedback.Target.ID())
	n.email(ctx, recipientID, func(to string) error {
		return n.mail.SendFeedbackNotification(to, feedback.Rating, profileURL)
	})
}

func (n *NotificationService) push(userID uuid.UUID, eventType string, data any) {
	if n.hub == nil {
		return
	}
	if !n.hub.SendToUser(userID, eventType, data) {
		n.logger.Warn("event queue full, dropping notification",
			zap.String("user_id", userID.String()),
			zap.String("event", eventType),
		)
	}
}

func (n *NotificationService) email(ctx context.Context, recipientID uuid.UUID, send func(to string) error) {
	if n.mail == nil || !n.mail.IsConfigured() {
		return
	}

	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		user, err := n.users.GetByID(ctx, recipientID)
		if err != nil {
			n.logger.Error("failed to look up notification recipient",
				zap.String("user_id", recipientID.String()), zap.Error(err))
			return
		}
		if err := send(user.Email); err != nil {
			n.logger.Error("failed to send notification email",
				zap.String("user_id", recipientID.String()), zap.Error(err))
		}
	}()
}

// Wait blocks until every queued email has been attempted.
func (n *NotificationService) Wait() {
	n.wg.Wait()
}
