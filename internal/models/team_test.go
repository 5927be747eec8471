package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTeam_RoleOf(t *testing.T) {
	captain := uuid.New()
	vice := uuid.New()
	team := &Team{CaptainID: captain, ViceCaptainID: &vice}

	assert.Equal(t, RoleCaptain, team.RoleOf(captain))
	assert.Equal(t, RoleViceCaptain, team.RoleOf(vice))
	assert.Equal(t, RoleMember, team.RoleOf(uuid.New()))
}

func TestRequestStatus_IsTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.True(t, RequestStatusApproved.IsTerminal())
	assert.True(t, RequestStatusRejected.IsTerminal())
	assert.True(t, RequestStatusCancelled.IsTerminal())
}

func TestUser_HasTeam(t *testing.T) {
	teamID := uuid.New()

	assert.False(t, (&User{}).HasTeam())
	assert.True(t, (&User{TeamID: &teamID}).HasTeam())
}
