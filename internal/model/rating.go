package model

import "time"

// TaskRating is one member's subjective estimate for a task. At most one
// live rating exists per (member, task) pair; ratings are upserted.
type TaskRating struct {
	ID                 string    `json:"id"`
	TaskID             string    `json:"task_id"`
	UserID             string    `json:"user_id"`
	EstimatedMinutes   float64   `json:"estimated_minutes"`
	PainLevel          int       `json:"pain_level"`
	Importance         int       `json:"importance"`
	SuggestedFrequency int       `json:"suggested_frequency"`
	CreatedAt          time.Time `json:"created_at"`
}
