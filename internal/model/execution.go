package model

import "time"

// TaskExecution records one completed task run. Executions are immutable
// after creation; PeriodID is the period that was active at creation time.
type TaskExecution struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"task_id"`
	ExecutedBy    string    `json:"executed_by"`
	ExecutedAt    time.Time `json:"executed_at"`
	Note          string    `json:"note,omitempty"`
	PointsAwarded int       `json:"points_awarded"`
	PeriodID      string    `json:"period_id"`
}

func (e *TaskExecution) Clone() *TaskExecution {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
