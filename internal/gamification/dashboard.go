package gamification

import (
	"qpathAPI/internal/reward"
	"qpathAPI/internal/studysession"
	"qpathAPI/internal/task"
	"qpathAPI/internal/track"
)

type Dashboard struct {
	Tasks        []task.StudyTask          `json:"tasks"`
	WeekProgress studysession.WeekProgress `json:"week_progress"`
	TrackSummary []track.SummaryItem       `json:"track_summary"`
}

type ProfileDetails struct {
	Profile      Profile                   `json:"profile"`
	Achievements []AchievementResponse     `json:"achievements"`
	Rewards      []reward.UserReward       `json:"rewards"`
	Stats        ProfileStats              `json:"stats"`
	WeekProgress studysession.WeekProgress `json:"week_progress"`
	Tracks       []track.TrackResponse     `json:"tracks"`
}
