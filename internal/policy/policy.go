// Package policy decides who may do what to a team. Every function is pure:
// callers load the team (and members, where needed) and pass them in.
package policy

import (
	"github.com/dimitrije/squadup/internal/models"
	"github.com/google/uuid"
)

func IsCaptain(team *models.Team, userID uuid.UUID) bool {
	return team != nil && team.CaptainID == userID
}

func IsViceCaptain(team *models.Team, userID uuid.UUID) bool {
	return team != nil && team.ViceCaptainID != nil && *team.ViceCaptainID == userID
}

func IsMember(members []models.TeamMember, userID uuid.UUID) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanManageTeam covers profile edits and viewing the pending request queue.
func CanManageTeam(team *models.Team, actorID uuid.UUID) bool {
	return IsCaptain(team, actorID) || IsViceCaptain(team, actorID)
}

func CanApproveRequest(team *models.Team, actorID uuid.UUID) bool {
	return CanManageTeam(team, actorID)
}

// CanRejectRequest is captain only. Vice-captains may approve but not reject.
func CanRejectRequest(team *models.Team, actorID uuid.UUID) bool {
	return IsCaptain(team, actorID)
}

// CanDestructivelyAdminister gates kicking members, deleting the team,
// assigning the vice-captain and handing over captaincy.
func CanDestructivelyAdminister(team *models.Team, actorID uuid.UUID) bool {
	return IsCaptain(team, actorID)
}

// CanRemoveMember allows a member to leave on their own, or the captain to kick them.
func CanRemoveMember(team *models.Team, actorID, targetID uuid.UUID) bool {
	return actorID == targetID || IsCaptain(team, actorID)
}
