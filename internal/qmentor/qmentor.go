package qmentor

import "encoding/json"

// UserProfile is optional request context that shapes the mentor's answer.
type UserProfile struct {
	ExperienceLevel string `json:"experience_level,omitempty"`
	CareerArea      string `json:"career_area,omitempty"`
	Goals           string `json:"goals,omitempty"`
}

type GuidanceRequest struct {
	Query       string       `json:"query" validate:"required,min=5,max=2000"`
	UserProfile *UserProfile `json:"user_profile,omitempty"`
}

type GuidanceResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
	Query    string `json:"query"`
}

type RecommendationRequest struct {
	CareerArea      string `json:"career_area" validate:"required,min=2,max=200"`
	ExperienceLevel string `json:"experience_level,omitempty" validate:"omitempty,max=50"`
}

// RecommendationResponse carries the model output as raw JSON when it parses,
// or a wrapped raw_response object when it does not.
type RecommendationResponse struct {
	Recommendations json.RawMessage `json:"recommendations"`
	Status          string          `json:"status"`
	CareerArea      string          `json:"career_area"`
	ExperienceLevel string          `json:"experience_level"`
}

type LearningPathRequest struct {
	CurrentSkills []string `json:"current_skills" validate:"required,min=1,dive,min=1,max=100"`
	TargetRole    string   `json:"target_role" validate:"required,min=2,max=200"`
}

type LearningPathResponse struct {
	Analysis      string   `json:"analysis"`
	Status        string   `json:"status"`
	CurrentSkills []string `json:"current_skills"`
	TargetRole    string   `json:"target_role"`
}

type HealthResponse struct {
	Service   string `json:"service"`
	Status    string `json:"status"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type QuickTipsResponse struct {
	CareerArea string `json:"career_area"`
	Tips       string `json:"tips"`
	Status     string `json:"status"`
}
