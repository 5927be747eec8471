package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns for a rejected operation wraps
// exactly one of these; anything else is an infrastructure failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
)

var (
	ErrUserNotFound     = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrTeamNotFound     = fmt.Errorf("%w: team not found", ErrNotFound)
	ErrMemberNotFound   = fmt.Errorf("%w: user is not a member of this team", ErrNotFound)
	ErrRequestNotFound  = fmt.Errorf("%w: request not found", ErrNotFound)
	ErrFeedbackNotFound = fmt.Errorf("%w: feedback not found", ErrNotFound)

	ErrEmailTaken            = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrTeamNameTaken         = fmt.Errorf("%w: team name already taken", ErrConflict)
	ErrAlreadyMember         = fmt.Errorf("%w: user is already a member of this team", ErrConflict)
	ErrRequestAlreadyPending = fmt.Errorf("%w: a pending request for this team already exists", ErrConflict)
	ErrDuplicateFeedback     = fmt.Errorf("%w: feedback for this target already submitted", ErrConflict)

	ErrInvalidTeamName   = fmt.Errorf("%w: team name must be between 3 and 30 characters", ErrValidation)
	ErrInvalidLink       = fmt.Errorf("%w: links must be http or https URLs", ErrValidation)
	ErrInvalidEmail      = fmt.Errorf("%w: email is required", ErrValidation)
	ErrInvalidName       = fmt.Errorf("%w: name is required", ErrValidation)
	ErrBioTooLong        = fmt.Errorf("%w: bio is too long", ErrValidation)
	ErrDescriptionLong   = fmt.Errorf("%w: description is too long", ErrValidation)
	ErrMessageTooLong    = fmt.Errorf("%w: message is too long", ErrValidation)
	ErrCommentTooLong    = fmt.Errorf("%w: comment is too long", ErrValidation)
	ErrInvalidRating     = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrUnknownTag        = fmt.Errorf("%w: unknown feedback tag", ErrValidation)
	ErrInvalidTarget     = fmt.Errorf("%w: feedback target must be a user or a team", ErrValidation)
	ErrSelfFeedback      = fmt.Errorf("%w: you cannot rate yourself", ErrValidation)
	ErrOwnTeamFeedback   = fmt.Errorf("%w: you cannot rate your own team", ErrValidation)
	ErrNotEligibleMember = fmt.Errorf("%w: user must be a current member other than the captain", ErrValidation)

	ErrNotCaptain         = fmt.Errorf("%w: only the team captain can do this", ErrForbidden)
	ErrNotTeamManager     = fmt.Errorf("%w: only the captain or vice-captain can do this", ErrForbidden)
	ErrCannotRemoveMember = fmt.Errorf("%w: only the captain can remove other members", ErrForbidden)
	ErrNotRequestAuthor   = fmt.Errorf("%w: only the requesting player can cancel this request", ErrForbidden)
	ErrNotFeedbackAuthor  = fmt.Errorf("%w: only the author can delete this feedback", ErrForbidden)

	ErrProfileIncomplete  = fmt.Errorf("%w: complete your profile first", ErrInvalidState)
	ErrAlreadyOnTeam      = fmt.Errorf("%w: user already belongs to a team", ErrInvalidState)
	ErrCaptainCannotLeave = fmt.Errorf("%w: the captain must transfer captaincy or delete the team", ErrInvalidState)
	ErrRequestNotPending  = fmt.Errorf("%w: request is no longer pending", ErrInvalidState)
	ErrCaptaincyChanged   = fmt.Errorf("%w: team captaincy changed concurrently", ErrInvalidState)
)

var kinds = []error{ErrValidation, ErrNotFound, ErrConflict, ErrForbidden, ErrInvalidState}

// Kind returns the error kind err wraps, or nil if err is not a domain error.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
