package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/model"
)

// Point formula constants. A task taking referenceMinutes with neutral pain
// and importance ratings is worth basePointValue per execution; longer tasks
// scale up until the time multiplier saturates.
const (
	basePointValue    = 10.0
	referenceMinutes  = 30.0
	maxTimeMultiplier = 3.0
	painWeight        = 0.3
	importanceWeight  = 0.2
)

// recalculateTaskPointsLocked recomputes a task's averages and point values
// from its current ratings. Must run inside a commit. Tasks without ratings
// are left untouched.
func (e *Engine) recalculateTaskPointsLocked(s *model.AppState, taskID string) {
	task, ok := s.Tasks[taskID]
	if !ok {
		return
	}

	var minutes, pain, importance, freq float64
	var n, freqN int
	for _, r := range s.Ratings {
		if r.TaskID != taskID {
			continue
		}
		minutes += r.EstimatedMinutes
		pain += float64(r.PainLevel)
		importance += float64(r.Importance)
		if r.SuggestedFrequency > 0 {
			freq += float64(r.SuggestedFrequency)
			freqN++
		}
		n++
	}
	if n == 0 {
		return
	}

	task.AverageMinutes = minutes / float64(n)
	task.AveragePainLevel = pain / float64(n)
	task.AverageImportance = importance / float64(n)

	timeMult := math.Min(task.AverageMinutes/referenceMinutes, maxTimeMultiplier)
	painMult := 1 + (task.AveragePainLevel-1)*painWeight
	importanceMult := 1 + (task.AverageImportance-1)*importanceWeight
	task.PointsPerExecution = roundHalfUp(basePointValue * timeMult * painMult * importanceMult)

	switch {
	case freqN > 0:
		task.MonthlyFrequency = roundHalfUp(freq / float64(freqN))
	case task.Constraints.MaxDaysBetween > 0:
		task.MonthlyFrequency = roundHalfUp(30 / float64(task.Constraints.MaxDaysBetween))
	}
	if task.MonthlyFrequency < 1 {
		task.MonthlyFrequency = 1
	}

	task.TotalMonthlyPoints = task.PointsPerExecution * task.MonthlyFrequency
}

// RecalculateTaskPoints recomputes one task's point values from its ratings
// and persists the result.
func (e *Engine) RecalculateTaskPoints(taskID string) (*model.Task, error) {
	task, ok := e.state.Tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("recalculate task %s: %w", taskID, ErrNotFound)
	}
	err := e.commit(func(s *model.AppState) {
		e.recalculateTaskPointsLocked(s, taskID)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// RecalculateAllTaskPoints recomputes every task's point values from its
// ratings in a single commit. Tasks without ratings keep their previous
// values, same as the single-task variant.
func (e *Engine) RecalculateAllTaskPoints() error {
	return e.commit(func(s *model.AppState) {
		for id := range s.Tasks {
			e.recalculateTaskPointsLocked(s, id)
		}
	})
}

// Distribution is the result of splitting the household workload across its
// active members.
type Distribution struct {
	TotalWorkload   int `json:"total_workload"`
	MemberCount     int `json:"member_count"`
	PointsPerMember int `json:"points_per_member"`
}

// RecalculateWGPointDistribution sums the monthly workload of the current
// household's active tasks and splits it evenly across active members.
// Members with a manual target override keep their target.
func (e *Engine) RecalculateWGPointDistribution() (*Distribution, error) {
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil, fmt.Errorf("recalculate distribution: %w", ErrNoHousehold)
	}

	var total int
	for _, t := range e.state.Tasks {
		if t.WGID == wg.ID && t.IsActive {
			total += t.TotalMonthlyPoints
		}
	}

	var active []*model.Member
	for _, id := range wg.MemberIDs {
		if u, ok := e.state.Users[id]; ok && u.IsActive {
			active = append(active, u)
		}
	}

	dist := &Distribution{TotalWorkload: total, MemberCount: len(active)}
	if len(active) == 0 {
		return dist, nil
	}
	dist.PointsPerMember = roundHalfUp(float64(total) / float64(len(active)))

	err := e.commit(func(s *model.AppState) {
		wg.Settings.MonthlyPointsTarget = dist.PointsPerMember
		for _, u := range active {
			if !u.TargetOverride {
				u.TargetMonthlyPoints = dist.PointsPerMember
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dist, nil
}

// ExecOptions carries the optional parts of an execution. A zero ExecutedAt
// means "now"; import paths use the override to replay historical runs.
type ExecOptions struct {
	Note       string
	ExecutedAt time.Time
}

// ExecuteTaskForUser logs a completed execution for a member, awards points,
// and stamps it with the active period. A missing period is created on the
// fly covering the current calendar month. A hot task pays the household
// bonus once, then cools down.
func (e *Engine) ExecuteTaskForUser(taskID, userID string, opts ExecOptions) (*model.TaskExecution, error) {
	task, ok := e.state.Tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("execute task %s: %w", taskID, ErrNotFound)
	}
	user, ok := e.state.Users[userID]
	if !ok {
		return nil, fmt.Errorf("execute task: user %s: %w", userID, ErrNotFound)
	}
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil, fmt.Errorf("execute task: %w", ErrNoHousehold)
	}

	executedAt := opts.ExecutedAt
	if executedAt.IsZero() {
		executedAt = e.now()
	}
	exec := &model.TaskExecution{
		ID:         newID(),
		TaskID:     taskID,
		ExecutedBy: userID,
		ExecutedAt: executedAt.UTC(),
		Note:       opts.Note,
	}

	err := e.commit(func(s *model.AppState) {
		period := e.ensureCurrentPeriodLocked(s, wg)
		exec.PeriodID = period.ID

		points := task.PointsPerExecution
		if task.IsAlarmed && wg.Settings.HotTaskBonus.Enabled {
			points = roundHalfUp(float64(points) * (1 + float64(wg.Settings.HotTaskBonus.Percent)/100))
			task.IsAlarmed = false
		}
		exec.PointsAwarded = points

		s.Executions[exec.ID] = exec
		user.CurrentMonthPoints += points
		user.TotalCompletedTasks++
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "execute task " + task.Title,
		Type:        backup.ChangeCreate,
		Entity:      "execution",
		EntityID:    exec.ID,
		After:       exec,
	})
	return exec, nil
}

// ExecuteTask logs an execution for the current user.
func (e *Engine) ExecuteTask(taskID string, opts ExecOptions) (*model.TaskExecution, error) {
	if e.state.CurrentUserID == "" {
		return nil, fmt.Errorf("execute task: %w", ErrNoCurrentUser)
	}
	return e.ExecuteTaskForUser(taskID, e.state.CurrentUserID, opts)
}
