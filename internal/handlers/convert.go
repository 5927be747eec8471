package handlers

import (
	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/pkg/dto"
)

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		AvatarURL:        u.AvatarURL,
		Bio:              u.Bio,
		Platform:         u.Platform,
		ProfileCompleted: u.ProfileCompleted,
		TeamID:           u.TeamID,
		LookingForTeam:   u.LookingForTeam,
		AverageRating:    u.AverageRating,
		FeedbackCount:    u.FeedbackCount,
		CreatedAt:        u.CreatedAt,
	}
}

func toPlayerResponse(u *models.User) dto.PlayerResponse {
	return dto.PlayerResponse{
		ID:             u.ID,
		Name:           u.Name,
		AvatarURL:      u.AvatarURL,
		Bio:            u.Bio,
		Platform:       u.Platform,
		TeamID:         u.TeamID,
		LookingForTeam: u.LookingForTeam,
		AverageRating:  u.AverageRating,
		FeedbackCount:  u.FeedbackCount,
	}
}

func toTeamResponse(t *models.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Platform:      t.Platform,
		DiscordURL:    t.DiscordURL,
		TwitterURL:    t.TwitterURL,
		CaptainID:     t.CaptainID,
		ViceCaptainID: t.ViceCaptainID,
		AverageRating: t.AverageRating,
		FeedbackCount: t.FeedbackCount,
		CreatedAt:     t.CreatedAt,
	}
}

func toRequestResponse(r *models.MembershipRequest) dto.MembershipRequestResponse {
	resp := dto.MembershipRequestResponse{
		ID:        r.ID,
		TeamID:    r.TeamID,
		PlayerID:  r.PlayerID,
		Message:   r.Message,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Team != nil {
		team := toTeamResponse(r.Team)
		resp.Team = &team
	}
	if r.Player != nil {
		player := toPlayerResponse(r.Player)
		resp.Player = &player
	}
	return resp
}

func toFeedbackResponse(f *models.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:         f.ID,
		FromUserID: f.FromUserID,
		TargetType: string(f.Target.Kind()),
		TargetID:   f.Target.ID(),
		Rating:     f.Rating,
		Tags:       models.TagStrings(f.Tags),
		Comment:    f.Comment,
		CreatedAt:  f.CreatedAt,
	}
}

func toStatsResponse(s *models.RatingStats) dto.RatingStatsResponse {
	tags := make(map[string]int, len(s.TagCounts))
	for tag, n := range s.TagCounts {
		tags[string(tag)] = n
	}
	return dto.RatingStatsResponse{
		AverageRating: s.Average,
		FeedbackCount: s.Count,
		Distribution:  s.Distribution,
		TagCounts:     tags,
	}
}
