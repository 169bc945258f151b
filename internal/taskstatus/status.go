// Package taskstatus derives display status for tasks from their spacing
// constraints and execution history.
package taskstatus

import (
	"time"

	"github.com/mhartig/putzplan/internal/model"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusNotDue    Status = "not_due"
)

type TaskWithStatus struct {
	model.Task
	Status        Status
	DueDate       *time.Time
	LastExecution *time.Time
}

// ComputeStatus determines the status and due date for a task given its last
// execution. MaxDaysBetween sets the cadence: the task falls overdue that
// many days after the last execution. MinDaysBetween blocks re-execution for
// a cool-down window. A task with no constraints is simply pending until
// done today.
func ComputeStatus(task model.Task, lastExecution *time.Time, today time.Time) (Status, *time.Time) {
	today = startOfDay(today)

	if lastExecution == nil {
		// Never executed: the cadence clock starts at creation.
		if task.Constraints.MaxDaysBetween > 0 {
			due := startOfDay(task.CreatedAt).AddDate(0, 0, task.Constraints.MaxDaysBetween)
			if due.Before(today) {
				return StatusOverdue, &due
			}
			return StatusPending, &due
		}
		return StatusPending, nil
	}

	last := startOfDay(*lastExecution)
	if last.Equal(today) {
		return StatusCompleted, nil
	}

	daysSince := int(today.Sub(last).Hours() / 24)
	if task.Constraints.MinDaysBetween > 0 && daysSince < task.Constraints.MinDaysBetween {
		due := last.AddDate(0, 0, task.Constraints.MinDaysBetween)
		return StatusNotDue, &due
	}

	if task.Constraints.MaxDaysBetween > 0 {
		due := last.AddDate(0, 0, task.Constraints.MaxDaysBetween)
		if due.Before(today) {
			return StatusOverdue, &due
		}
		return StatusPending, &due
	}

	return StatusPending, nil
}

// IsDueOnDate checks whether a task's cadence puts a due occurrence on the
// given date. Tasks without a MaxDaysBetween cadence are always due.
func IsDueOnDate(task model.Task, lastExecution *time.Time, date time.Time) bool {
	if task.Constraints.MaxDaysBetween == 0 {
		return true
	}

	anchor := startOfDay(task.CreatedAt)
	if lastExecution != nil {
		anchor = startOfDay(*lastExecution)
	}
	due := anchor.AddDate(0, 0, task.Constraints.MaxDaysBetween)
	return !startOfDay(date).Before(due)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
