package model

import "time"

type Member struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email,omitempty"`
	Avatar              string    `json:"avatar"`
	JoinedAt            time.Time `json:"joined_at"`
	IsActive            bool      `json:"is_active"`
	CurrentMonthPoints  int       `json:"current_month_points"`
	TargetMonthlyPoints int       `json:"target_monthly_points"`
	// TargetOverride marks a manually assigned target. Point distribution
	// recalculation leaves overridden members untouched.
	TargetOverride      bool `json:"target_override"`
	TotalCompletedTasks int  `json:"total_completed_tasks"`
}

func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
