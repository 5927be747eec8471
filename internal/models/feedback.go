package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type TargetKind string

const (
	TargetUser TargetKind = "user"
	TargetTeam TargetKind = "team"
)

// Target is the rated entity of a Feedback: exactly one user or one team.
// The zero value is not a valid target; build one with UserTarget or TeamTarget.
type Target struct {
	kind TargetKind
	id   uuid.UUID
}

func UserTarget(id uuid.UUID) Target { return Target{kind: TargetUser, id: id} }

func TeamTarget(id uuid.UUID) Target { return Target{kind: TargetTeam, id: id} }

// ParseTarget builds a Target from its wire form ("user" or "team" plus an id).
func ParseTarget(kind string, id uuid.UUID) (Target, error) {
	switch TargetKind(kind) {
	case TargetUser:
		return UserTarget(id), nil
	case TargetTeam:
		return TeamTarget(id), nil
	default:
		return Target{}, fmt.Errorf("unknown target type %q", kind)
	}
}

func (t Target) Kind() TargetKind { return t.kind }

func (t Target) ID() uuid.UUID { return t.id }

func (t Target) IsUser() bool { return t.kind == TargetUser }

func (t Target) IsTeam() bool { return t.kind == TargetTeam }

func (t Target) IsValid() bool { return t.IsUser() || t.IsTeam() }

func (t Target) String() string {
	return string(t.kind) + ":" + t.id.String()
}

// Columns returns the (target_user_id, target_team_id) pair for storage;
// exactly one of them is non-nil.
func (t Target) Columns() (userID, teamID *uuid.UUID) {
	id := t.id
	if t.IsUser() {
		return &id, nil
	}
	return nil, &id
}

// TargetFromColumns is the inverse of Columns.
func TargetFromColumns(userID, teamID *uuid.UUID) (Target, error) {
	switch {
	case userID != nil && teamID == nil:
		return UserTarget(*userID), nil
	case teamID != nil && userID == nil:
		return TeamTarget(*teamID), nil
	default:
		return Target{}, fmt.Errorf("feedback row must reference exactly one target")
	}
}

type FeedbackTag string

const (
	TagTeamPlayer    FeedbackTag = "team_player"
	TagCommunicative FeedbackTag = "communicative"
	TagSkilled       FeedbackTag = "skilled"
	TagReliable      FeedbackTag = "reliable"
	TagLeader        FeedbackTag = "leader"
	TagStrategic     FeedbackTag = "strategic"
	TagPositive      FeedbackTag = "positive"
	TagPunctual      FeedbackTag = "punctual"
	TagToxic         FeedbackTag = "toxic"
	TagUnreliable    FeedbackTag = "unreliable"
	TagNoShow        FeedbackTag = "no_show"
)

var feedbackTags = map[FeedbackTag]struct{}{
	TagTeamPlayer:    {},
	TagCommunicative: {},
	TagSkilled:       {},
	TagReliable:      {},
	TagLeader:        {},
	TagStrategic:     {},
	TagPositive:      {},
	TagPunctual:      {},
	TagToxic:         {},
	TagUnreliable:    {},
	TagNoShow:        {},
}

func ParseFeedbackTag(s string) (FeedbackTag, bool) {
	tag := FeedbackTag(s)
	_, ok := feedbackTags[tag]
	return tag, ok
}

// ParseFeedbackTags validates raw tags and returns them deduplicated and sorted.
// The first unknown tag is returned alongside ok=false.
func ParseFeedbackTags(raw []string) (tags []FeedbackTag, unknown string, ok bool) {
	seen := make(map[FeedbackTag]struct{}, len(raw))
	tags = make([]FeedbackTag, 0, len(raw))
	for _, s := range raw {
		tag, known := ParseFeedbackTag(s)
		if !known {
			return nil, s, false
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags, "", true
}

func TagStrings(tags []FeedbackTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

type Feedback struct {
	ID         uuid.UUID     `json:"id"`
	FromUserID uuid.UUID     `json:"from_user_id"`
	Target     Target        `json:"-"`
	Rating     int           `json:"rating"`
	Tags       []FeedbackTag `json:"tags"`
	Comment    string        `json:"comment"`
	CreatedAt  time.Time     `json:"created_at"`
}

// RatingAggregate is the denormalized (average, count) pair cached on users and teams.
type RatingAggregate struct {
	Average float64 `json:"average_rating"`
	Count   int     `json:"feedback_count"`
}

type RatingStats struct {
	RatingAggregate
	// Distribution[i] counts ratings of i+1 stars.
	Distribution [5]int              `json:"distribution"`
	TagCounts    map[FeedbackTag]int `json:"tag_counts"`
}
