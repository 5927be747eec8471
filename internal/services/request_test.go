package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRequestService(t *testing.T) (*RequestService, pgxmock.PgxPoolIface, *recordingNotifier) {
	t.Helper()
	db, mock := newMockDB(t)
	notifier := new(recordingNotifier)
	return NewRequestService(db, notifier), mock, notifier
}

func TestRequestService_Create(t *testing.T) {
	svc, mock, notifier := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)
	req := testRequest(team.ID, player.ID, models.RequestStatusPending)
	req.Message = "main tank, EU evenings"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = .+ FOR UPDATE`).WithArgs(player.ID).WillReturnRows(userRows(player))
	mock.ExpectQuery(`INSERT INTO membership_requests`).
		WithArgs(team.ID, player.ID, "main tank, EU evenings", models.RequestStatusPending).
		WillReturnRows(requestRows(req))
	mock.ExpectCommit()
	notifier.On("NotifyTeamRequestCreated", req.ID, team.ID).Return()

	got, err := svc.Create(ctx, team.ID, player.ID, "<em>main tank</em>, EU evenings")

	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, models.RequestStatusPending, got.Status)
	assert.Equal(t, player.ID, got.Player.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
	notifier.AssertExpectations(t)
}

func TestRequestService_Create_PlayerOnTeam(t *testing.T) {
	svc, mock, notifier := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)
	other := uuid.New()
	player.TeamID = &other

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = .+ FOR UPDATE`).WithArgs(player.ID).WillReturnRows(userRows(player))
	mock.ExpectRollback()

	_, err := svc.Create(ctx, team.ID, player.ID, "")

	assert.ErrorIs(t, err, ErrAlreadyOnTeam)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
	notifier.AssertNumberOfCalls(t, "NotifyTeamRequestCreated", 0)
}

func TestRequestService_Create_DuplicatePending(t *testing.T) {
	svc, mock, notifier := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = .+ FOR UPDATE`).WithArgs(player.ID).WillReturnRows(userRows(player))
	mock.ExpectQuery(`INSERT INTO membership_requests`).
		WithArgs(team.ID, player.ID, "", models.RequestStatusPending).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: database.IndexPendingRequest})
	mock.ExpectRollback()

	_, err := svc.Create(ctx, team.ID, player.ID, "")

	assert.ErrorIs(t, err, ErrRequestAlreadyPending)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
	notifier.AssertNumberOfCalls(t, "NotifyTeamRequestCreated", 0)
}

func TestRequestService_Create_TeamNotFound(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	teamID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(teamID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Create(ctx, teamID, uuid.New(), "")

	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Create_CommitFailureDoesNotNotify(t *testing.T) {
	svc, mock, notifier := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)
	req := testRequest(team.ID, player.ID, models.RequestStatusPending)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = .+ FOR UPDATE`).WithArgs(player.ID).WillReturnRows(userRows(player))
	mock.ExpectQuery(`INSERT INTO membership_requests`).
		WithArgs(team.ID, player.ID, "", models.RequestStatusPending).
		WillReturnRows(requestRows(req))
	mock.ExpectCommit().WillReturnError(assert.AnError)
	mock.ExpectRollback()

	got, err := svc.Create(ctx, team.ID, player.ID, "")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
	notifier.AssertNumberOfCalls(t, "NotifyTeamRequestCreated", 0)
}

func TestRequestService_Create_MessageTooLong(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), uuid.New(), strings.Repeat("a", maxRequestMessageLength+1))

	assert.ErrorIs(t, err, ErrMessageTooLong)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectApproveLoads(mock pgxmock.PgxPoolIface, req *models.MembershipRequest, team *models.Team, player *models.User) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id = .+ FOR UPDATE`).
		WithArgs(req.ID).
		WillReturnRows(requestRows(req))
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id = .+ FOR UPDATE`).
		WithArgs(team.ID).
		WillReturnRows(teamRows(team))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = .+ FOR UPDATE`).
		WithArgs(player.ID).
		WillReturnRows(userRows(player))
}

func TestRequestService_Approve_CascadesCancellation(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)
	req := testRequest(team.ID, player.ID, models.RequestStatusPending)
	approved := *req
	approved.Status = models.RequestStatusApproved

	expectApproveLoads(mock, req, team, player)
	expectAddMember(mock, team.ID, player.ID)
	mock.ExpectQuery(`UPDATE membership_requests SET status`).
		WithArgs(models.RequestStatusApproved, req.ID, models.RequestStatusPending).
		WillReturnRows(requestRows(&approved))
	mock.ExpectExec(`UPDATE membership_requests SET status = .+ WHERE player_id`).
		WithArgs(models.RequestStatusCancelled, player.ID, models.RequestStatusPending, req.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	got, err := svc.Approve(ctx, req.ID, captain.ID)

	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Approve_ByViceCaptain(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	vice := uuid.New()
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)
	team.ViceCaptainID = &vice
	req := testRequest(team.ID, player.ID, models.RequestStatusPending)
	approved := *req
	approved.Status = models.RequestStatusApproved

	expectApproveLoads(mock, req, team, player)
	expectAddMember(mock, team.ID, player.ID)
	mock.ExpectQuery(`UPDATE membership_requests SET status`).
		WithArgs(models.RequestStatusApproved, req.ID, models.RequestStatusPending).
		WillReturnRows(requestRows(&approved))
	mock.ExpectExec(`WHERE player_id`).
		WithArgs(models.RequestStatusCancelled, player.ID, models.RequestStatusPending, req.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectCommit()

	_, err := svc.Approve(ctx, req.ID, vice)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Approve_NotPending(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	req := testRequest(uuid.New(), uuid.New(), models.RequestStatusCancelled)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).
		WithArgs(req.ID).
		WillReturnRows(requestRows(req))
	mock.ExpectRollback()

	_, err := svc.Approve(ctx, req.ID, uuid.New())

	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Approve_NotFound(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Approve(ctx, id, uuid.New())

	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Approve_Forbidden(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	team := testTeam("Alpha", captain.ID)
	req := testRequest(team.ID, uuid.New(), models.RequestStatusPending)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).
		WithArgs(req.ID).
		WillReturnRows(requestRows(req))
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).
		WithArgs(team.ID).
		WillReturnRows(teamRows(team))
	mock.ExpectRollback()

	_, err := svc.Approve(ctx, req.ID, uuid.New())

	assert.ErrorIs(t, err, ErrNotTeamManager)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Approve_PlayerJoinedElsewhere(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)
	beta := uuid.New()
	player.TeamID = &beta
	req := testRequest(team.ID, player.ID, models.RequestStatusPending)

	expectApproveLoads(mock, req, team, player)
	mock.ExpectRollback()

	_, err := svc.Approve(ctx, req.ID, captain.ID)

	assert.ErrorIs(t, err, ErrAlreadyOnTeam)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Approve_RollsBackWhenCascadeFails(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)
	req := testRequest(team.ID, player.ID, models.RequestStatusPending)
	approved := *req
	approved.Status = models.RequestStatusApproved

	expectApproveLoads(mock, req, team, player)
	expectAddMember(mock, team.ID, player.ID)
	mock.ExpectQuery(`UPDATE membership_requests SET status`).
		WithArgs(models.RequestStatusApproved, req.ID, models.RequestStatusPending).
		WillReturnRows(requestRows(&approved))
	mock.ExpectExec(`WHERE player_id`).
		WithArgs(models.RequestStatusCancelled, player.ID, models.RequestStatusPending, req.ID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.Approve(ctx, req.ID, captain.ID)

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Reject(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	team := testTeam("Alpha", captain.ID)
	req := testRequest(team.ID, uuid.New(), models.RequestStatusPending)
	rejected := *req
	rejected.Status = models.RequestStatusRejected

	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).WithArgs(req.ID).WillReturnRows(requestRows(req))
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))
	mock.ExpectQuery(`UPDATE membership_requests SET status`).
		WithArgs(models.RequestStatusRejected, req.ID, models.RequestStatusPending).
		WillReturnRows(requestRows(&rejected))

	got, err := svc.Reject(ctx, req.ID, captain.ID)

	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Vice-captains may approve but not reject.
func TestRequestService_Reject_ViceCaptainForbidden(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	vice := uuid.New()
	team := testTeam("Alpha", captain.ID)
	team.ViceCaptainID = &vice
	req := testRequest(team.ID, uuid.New(), models.RequestStatusPending)

	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).WithArgs(req.ID).WillReturnRows(requestRows(req))
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))

	_, err := svc.Reject(ctx, req.ID, vice)

	assert.ErrorIs(t, err, ErrNotCaptain)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Reject_LostRace(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	team := testTeam("Alpha", captain.ID)
	req := testRequest(team.ID, uuid.New(), models.RequestStatusPending)

	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).WithArgs(req.ID).WillReturnRows(requestRows(req))
	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))
	mock.ExpectQuery(`UPDATE membership_requests SET status`).
		WithArgs(models.RequestStatusRejected, req.ID, models.RequestStatusPending).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Reject(ctx, req.ID, captain.ID)

	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Cancel(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	player := uuid.New()
	req := testRequest(uuid.New(), player, models.RequestStatusPending)
	cancelled := *req
	cancelled.Status = models.RequestStatusCancelled

	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).WithArgs(req.ID).WillReturnRows(requestRows(req))
	mock.ExpectQuery(`UPDATE membership_requests SET status`).
		WithArgs(models.RequestStatusCancelled, req.ID, models.RequestStatusPending).
		WillReturnRows(requestRows(&cancelled))

	got, err := svc.Cancel(ctx, req.ID, player)

	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCancelled, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Cancel_NotAuthor(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	req := testRequest(uuid.New(), uuid.New(), models.RequestStatusPending)

	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).WithArgs(req.ID).WillReturnRows(requestRows(req))

	_, err := svc.Cancel(ctx, req.ID, uuid.New())

	assert.ErrorIs(t, err, ErrNotRequestAuthor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_Cancel_AlreadyApproved(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	player := uuid.New()
	req := testRequest(uuid.New(), player, models.RequestStatusApproved)

	mock.ExpectQuery(`SELECT .+ FROM membership_requests WHERE id`).WithArgs(req.ID).WillReturnRows(requestRows(req))

	_, err := svc.Cancel(ctx, req.ID, player)

	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_ListPendingForTeam(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	player := testUser("bob")
	team := testTeam("Alpha", captain.ID)
	req := testRequest(team.ID, player.ID, models.RequestStatusPending)

	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))

	rows := pgxmock.NewRows(append(append([]string{}, requestRowColumns...), userRowColumns...)).
		AddRow(req.ID, req.TeamID, req.PlayerID, req.Message, req.Status, req.CreatedAt, req.UpdatedAt,
			player.ID, player.Email, player.Name, player.AvatarURL, player.Bio, player.Platform,
			player.ProfileCompleted, player.TeamID, player.LookingForTeam, player.AverageRating,
			player.FeedbackCount, player.CreatedAt, player.UpdatedAt)
	mock.ExpectQuery(`SELECT .+ FROM membership_requests r JOIN users u`).
		WithArgs(team.ID, models.RequestStatusPending).
		WillReturnRows(rows)

	requests, err := svc.ListPendingForTeam(ctx, team.ID, captain.ID)

	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "bob", requests[0].Player.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_ListPendingForTeam_MemberForbidden(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	captain := testUser("alice")
	team := testTeam("Alpha", captain.ID)

	mock.ExpectQuery(`SELECT .+ FROM teams WHERE id`).WithArgs(team.ID).WillReturnRows(teamRows(team))

	_, err := svc.ListPendingForTeam(ctx, team.ID, uuid.New())

	assert.ErrorIs(t, err, ErrNotTeamManager)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestService_ListForPlayer(t *testing.T) {
	svc, mock, _ := setupRequestService(t)
	ctx := context.Background()
	player := uuid.New()
	team := testTeam("Alpha", uuid.New())
	req := testRequest(team.ID, player, models.RequestStatusRejected)

	rows := pgxmock.NewRows(append(append([]string{}, requestRowColumns...), teamRowColumns...)).
		AddRow(req.ID, req.TeamID, req.PlayerID, req.Message, req.Status, req.CreatedAt, req.UpdatedAt,
			team.ID, team.Name, team.Description, team.Platform, team.DiscordURL, team.TwitterURL,
			team.CaptainID, team.ViceCaptainID, team.AverageRating, team.FeedbackCount, team.CreatedAt, team.UpdatedAt)
	mock.ExpectQuery(`SELECT .+ FROM membership_requests r JOIN teams t`).
		WithArgs(player).
		WillReturnRows(rows)

	requests, err := svc.ListForPlayer(ctx, player)

	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "Alpha", requests[0].Team.Name)
	assert.Equal(t, models.RequestStatusRejected, requests[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
