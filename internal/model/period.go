package model

import "time"

// Period is a scoring window. A household has at most one active period;
// creating a new one archives the previous into HistoricalPeriods.
type Period struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	Days         int               `json:"days"`
	TargetPoints int               `json:"target_points"`
	IsActive     bool              `json:"is_active"`
	CreatedAt    time.Time         `json:"created_at"`
	Tasks        []PeriodTaskEntry `json:"tasks,omitempty"`
	Logs         []PeriodLogEntry  `json:"logs,omitempty"`
}

// PeriodTaskEntry is one row of a period's task checklist.
type PeriodTaskEntry struct {
	TaskID    string     `json:"task_id"`
	Checked   bool       `json:"checked"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	CheckedBy string     `json:"checked_by,omitempty"`
}

type PeriodLogEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// HistoricalPeriod is an archived period plus the point-in-time snapshot
// taken when it was archived.
type HistoricalPeriod struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	Days         int            `json:"days"`
	TargetPoints int            `json:"target_points"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	ArchivedAt   time.Time      `json:"archived_at"`
	Summary      *PeriodSummary `json:"summary,omitempty"`
	SavedState   *SavedState    `json:"saved_state,omitempty"`
}

type PeriodSummary struct {
	TotalExecutions int                `json:"total_executions"`
	TotalPoints     int                `json:"total_points"`
	MemberStats     []MemberPeriodStat `json:"member_stats"`
}

type MemberPeriodStat struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Points         int    `json:"points"`
	CompletedTasks int    `json:"completed_tasks"`
}

// SavedState is the deep snapshot embedded in an archived period.
type SavedState struct {
	Executions map[string]*TaskExecution `json:"executions"`
	Tasks      map[string]*Task          `json:"tasks"`
	Members    map[string]*Member        `json:"members"`
}

// PeriodView is the normalized shape returned by historical period listing,
// merging live and archived records into one canonical form.
type PeriodView struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	Days         int            `json:"days"`
	TargetPoints int            `json:"target_points"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	ArchivedAt   *time.Time     `json:"archived_at,omitempty"`
	Summary      *PeriodSummary `json:"summary,omitempty"`
	SavedState   *SavedState    `json:"saved_state,omitempty"`
}
