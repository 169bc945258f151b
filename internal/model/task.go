package model

import "time"

type Task struct {
	ID          string `json:"id"`
	WGID        string `json:"wg_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`

	// Community averages, refreshed by point recalculation.
	AverageMinutes    float64 `json:"average_minutes"`
	AveragePainLevel  float64 `json:"average_pain_level"`
	AverageImportance float64 `json:"average_importance"`
	MonthlyFrequency  int     `json:"monthly_frequency"`

	DifficultyScore     int `json:"difficulty_score"`
	UnpleasantnessScore int `json:"unpleasantness_score"`

	BasePoints         int `json:"base_points"`
	PointsPerExecution int `json:"points_per_execution"`
	TotalMonthlyPoints int `json:"total_monthly_points"`

	// IsAlarmed marks the task "hot": the next execution earns the
	// household's configured bonus, then the flag clears.
	IsAlarmed bool `json:"is_alarmed"`

	Constraints TaskConstraints `json:"constraints"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

type TaskConstraints struct {
	MinDaysBetween int `json:"min_days_between,omitempty"`
	MaxDaysBetween int `json:"max_days_between"`
}

func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
