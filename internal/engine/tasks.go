package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/model"
	"github.com/mhartig/putzplan/internal/taskstatus"
)

type CreateTaskParams struct {
	Title               string
	Description         string
	Emoji               string
	DifficultyScore     int
	UnpleasantnessScore int
	MonthlyFrequency    int
	MinDaysBetween      int
	MaxDaysBetween      int
}

// buildTask materializes a task with its initial base points. Per-execution
// points stay zero until the first rating arrives and recalculation runs.
func (e *Engine) buildTask(p CreateTaskParams, wgID string) *model.Task {
	base := 10 + (p.DifficultyScore-5)*2 + (p.UnpleasantnessScore-5)*3
	if base < 1 {
		base = 1
	}
	return &model.Task{
		ID:                  newID(),
		WGID:                wgID,
		Title:               p.Title,
		Description:         p.Description,
		Emoji:               p.Emoji,
		DifficultyScore:     p.DifficultyScore,
		UnpleasantnessScore: p.UnpleasantnessScore,
		MonthlyFrequency:    p.MonthlyFrequency,
		BasePoints:          base,
		PointsPerExecution:  base,
		Constraints: model.TaskConstraints{
			MinDaysBetween: p.MinDaysBetween,
			MaxDaysBetween: p.MaxDaysBetween,
		},
		CreatedBy: e.state.CurrentUserID,
		CreatedAt: e.now().UTC(),
		IsActive:  true,
	}
}

// CreateTask adds a task to the current household.
func (e *Engine) CreateTask(p CreateTaskParams) (*model.Task, error) {
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil, fmt.Errorf("create task: %w", ErrNoHousehold)
	}
	task := e.buildTask(p, wg.ID)

	err := e.commit(func(s *model.AppState) {
		s.Tasks[task.ID] = task
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "create task " + task.Title,
		Type:        backup.ChangeCreate,
		Entity:      "task",
		EntityID:    task.ID,
		After:       task,
	})
	return task, nil
}

// TaskUpdate carries optional field changes; nil fields stay untouched.
type TaskUpdate struct {
	Title               *string
	Description         *string
	Emoji               *string
	DifficultyScore     *int
	UnpleasantnessScore *int
	MonthlyFrequency    *int
	IsAlarmed           *bool
	IsActive            *bool
	MinDaysBetween      *int
	MaxDaysBetween      *int
}

func (e *Engine) UpdateTask(id string, upd TaskUpdate) (*model.Task, error) {
	task, ok := e.state.Tasks[id]
	if !ok {
		return nil, fmt.Errorf("update task %s: %w", id, ErrNotFound)
	}
	before := task.Clone()

	err := e.commit(func(s *model.AppState) {
		if upd.Title != nil {
			task.Title = *upd.Title
		}
		if upd.Description != nil {
			task.Description = *upd.Description
		}
		if upd.Emoji != nil {
			task.Emoji = *upd.Emoji
		}
		if upd.DifficultyScore != nil {
			task.DifficultyScore = *upd.DifficultyScore
		}
		if upd.UnpleasantnessScore != nil {
			task.UnpleasantnessScore = *upd.UnpleasantnessScore
		}
		if upd.MonthlyFrequency != nil {
			task.MonthlyFrequency = *upd.MonthlyFrequency
		}
		if upd.IsAlarmed != nil {
			task.IsAlarmed = *upd.IsAlarmed
		}
		if upd.IsActive != nil {
			task.IsActive = *upd.IsActive
		}
		if upd.MinDaysBetween != nil {
			task.Constraints.MinDaysBetween = *upd.MinDaysBetween
		}
		if upd.MaxDaysBetween != nil {
			task.Constraints.MaxDaysBetween = *upd.MaxDaysBetween
		}
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "update task " + task.Title,
		Type:        backup.ChangeUpdate,
		Entity:      "task",
		EntityID:    task.ID,
		Before:      before,
		After:       task,
	})
	return task, nil
}

// DeleteTask removes a task, with behavior depending on the display scope.
//
// With no display period set (live view) the task definition is removed
// globally along with its ratings. Executions are kept untouched so the
// scoreboard history stays intact; they simply reference a task that no
// longer resolves.
//
// With a display period selected, only that period's executions of the task
// are removed. The task definition survives. For an archived display period
// the removal reaches into the archived snapshot instead of the live maps.
func (e *Engine) DeleteTask(id string) error {
	task, ok := e.state.Tasks[id]
	if !ok && e.displayPeriodID == "" {
		return fmt.Errorf("delete task %s: %w", id, ErrNotFound)
	}

	if e.displayPeriodID != "" {
		return e.deleteTaskFromPeriod(id, e.displayPeriodID)
	}

	before := task.Clone()
	err := e.commit(func(s *model.AppState) {
		delete(s.Tasks, id)
		for rid, r := range s.Ratings {
			if r.TaskID == id {
				delete(s.Ratings, rid)
			}
		}
	})
	if err != nil {
		return err
	}

	e.recordChange(backup.Change{
		Description: "delete task " + before.Title,
		Type:        backup.ChangeDelete,
		Entity:      "task",
		EntityID:    id,
		Before:      before,
	})
	return nil
}

// deleteTaskFromPeriod drops the executions of one task inside one period,
// live or archived.
func (e *Engine) deleteTaskFromPeriod(taskID, periodID string) error {
	wg := e.state.CurrentWG()
	if wg == nil {
		return fmt.Errorf("delete task from period: %w", ErrNoHousehold)
	}

	for _, hp := range wg.HistoricalPeriods {
		if hp.ID != periodID {
			continue
		}
		return e.commit(func(s *model.AppState) {
			if hp.SavedState == nil {
				return
			}
			for eid, ex := range hp.SavedState.Executions {
				if ex.TaskID == taskID && ex.PeriodID == periodID {
					delete(hp.SavedState.Executions, eid)
				}
			}
		})
	}

	active := wg.ActivePeriod()
	if active == nil || active.ID != periodID {
		return fmt.Errorf("delete task from period %s: %w", periodID, ErrNotFound)
	}
	return e.commit(func(s *model.AppState) {
		for eid, ex := range s.Executions {
			if ex.TaskID == taskID && ex.PeriodID == periodID {
				delete(s.Executions, eid)
			}
		}
	})
}

// RestoreTaskFromBackup re-inserts a task from its latest audit snapshot.
func (e *Engine) RestoreTaskFromBackup(id string) (*model.Task, error) {
	if e.audit == nil {
		return nil, fmt.Errorf("restore task %s: no audit log", id)
	}
	for _, snap := range e.audit.GetSnapshotsForEntity("task", id) {
		payload := snap.Before
		if snap.Type != backup.ChangeDelete {
			payload = snap.After
		}
		if len(payload) == 0 {
			continue
		}
		task := new(model.Task)
		if err := unmarshalSnapshot(payload, task); err != nil {
			return nil, fmt.Errorf("restore task %s: %w", id, err)
		}
		err := e.commit(func(s *model.AppState) {
			s.Tasks[task.ID] = task
		})
		if err != nil {
			return nil, err
		}
		e.recordChange(backup.Change{
			Description: "restore task " + task.Title,
			Type:        backup.ChangeCreate,
			Entity:      "task",
			EntityID:    task.ID,
			After:       task,
		})
		return task, nil
	}
	return nil, fmt.Errorf("restore task %s: no snapshot: %w", id, ErrNotFound)
}

// CanUserExecuteTask reports whether the minimum-spacing constraint allows
// the user to log the task now. A zero MinDaysBetween never blocks.
func (e *Engine) CanUserExecuteTask(taskID, userID string) (bool, error) {
	task, ok := e.state.Tasks[taskID]
	if !ok {
		return false, fmt.Errorf("check task %s: %w", taskID, ErrNotFound)
	}
	if task.Constraints.MinDaysBetween <= 0 {
		return true, nil
	}

	var last time.Time
	for _, ex := range e.state.Executions {
		if ex.TaskID == taskID && ex.ExecutedBy == userID && ex.ExecutedAt.After(last) {
			last = ex.ExecutedAt
		}
	}
	if last.IsZero() {
		return true, nil
	}

	elapsed := e.now().Sub(last)
	required := time.Duration(task.Constraints.MinDaysBetween) * 24 * time.Hour
	return elapsed >= required, nil
}

// TasksWithStatus lists the current household's tasks annotated with their
// due status, derived from the spacing constraints and each task's latest
// execution by any member. Sorted by title for stable display.
func (e *Engine) TasksWithStatus() ([]taskstatus.TaskWithStatus, error) {
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil, fmt.Errorf("task status: %w", ErrNoHousehold)
	}

	today := e.now()
	var out []taskstatus.TaskWithStatus
	for _, t := range e.state.Tasks {
		if t.WGID != wg.ID {
			continue
		}
		var last *time.Time
		for _, ex := range e.state.Executions {
			if ex.TaskID == t.ID && (last == nil || ex.ExecutedAt.After(*last)) {
				at := ex.ExecutedAt
				last = &at
			}
		}
		status, due := taskstatus.ComputeStatus(*t, last, today)
		out = append(out, taskstatus.TaskWithStatus{
			Task:          *t,
			Status:        status,
			DueDate:       due,
			LastExecution: last,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// WGTasks lists the tasks of a household, active first is not guaranteed;
// callers sort for display.
func (e *Engine) WGTasks(wgID string) []*model.Task {
	var out []*model.Task
	for _, t := range e.state.Tasks {
		if t.WGID == wgID {
			out = append(out, t)
		}
	}
	return out
}

func roundHalfUp(v float64) int {
	return int(math.Round(v))
}
