package integration

import (
	"context"
	"testing"

	"github.com/dimitrije/squadup/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeam_Integration_CaptainCannotLeave(t *testing.T) {
	s := setupTest(t)
	ctx := context.Background()

	captain := s.fixtures.CreateUser(t)
	team := s.fixtures.CreateTeam(t, captain, "Alpha")

	err := s.teams.RemoveMember(ctx, team.ID, captain.ID, captain.ID)
	assert.ErrorIs(t, err, services.ErrCaptainCannotLeave)
	assert.ErrorIs(t, err, services.ErrInvalidState)

	isMember, err := s.teams.IsMember(ctx, team.ID, captain.ID)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestTeam_Integration_DeleteReleasesMembers(t *testing.T) {
	s := setupTest(t)
	ctx := context.Background()

	captain := s.fixtures.CreateUser(t)
	team := s.fixtures.CreateTeam(t, captain, "Alpha")
	member := s.fixtures.CreateUser(t)
	require.NoError(t, s.teams.AddMember(ctx, team.ID, member.ID, captain.ID))

	err := s.teams.Delete(ctx, team.ID, member.ID)
	require.ErrorIs(t, err, services.ErrNotCaptain)

	require.NoError(t, s.teams.Delete(ctx, team.ID, captain.ID))

	_, err = s.teams.GetByID(ctx, team.ID)
	assert.ErrorIs(t, err, services.ErrTeamNotFound)

	for _, id := range []any{captain.ID, member.ID} {
		var count int
		require.NoError(t, s.db.DB.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM users WHERE id = $1 AND team_id IS NULL AND looking_for_team`, id).Scan(&count))
		assert.Equal(t, 1, count)
	}
}

func TestTeam_Integration_TransferCaptaincy(t *testing.T) {
	s := setupTest(t)
	ctx := context.Background()

	captain := s.fixtures.CreateUser(t)
	team := s.fixtures.CreateTeam(t, captain, "Alpha")
	member := s.fixtures.CreateUser(t)
	require.NoError(t, s.teams.AddMember(ctx, team.ID, member.ID, captain.ID))

	updated, err := s.teams.TransferCaptaincy(ctx, team.ID, member.ID, captain.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, updated.CaptainID)

	require.NoError(t, s.teams.RemoveMember(ctx, team.ID, captain.ID, captain.ID))
	assert.Nil(t, s.fixtures.ReloadUser(t, captain.ID).TeamID)
}

func TestTeam_Integration_NameIsUnique(t *testing.T) {
	s := setupTest(t)
	ctx := context.Background()

	s.fixtures.CreateTeam(t, s.fixtures.CreateUser(t), "Alpha")

	_, err := s.teams.Create(ctx, services.TeamSpec{Name: "Alpha", Platform: "pc"}, s.fixtures.CreateUser(t).ID)
	assert.ErrorIs(t, err, services.ErrTeamNameTaken)
}
