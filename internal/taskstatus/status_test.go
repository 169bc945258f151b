package taskstatus

import (
	"testing"
	"time"

	"github.com/mhartig/putzplan/internal/model"
)

func TestNeverExecutedPending(t *testing.T) {
	task := model.Task{ID: "t1", Title: "Vacuum", CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	today := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

	status, due := ComputeStatus(task, nil, today)
	if status != StatusPending {
		t.Errorf("status = %q, want %q", status, StatusPending)
	}
	if due != nil {
		t.Errorf("due = %v, want nil", due)
	}
}

func TestNeverExecutedOverdue(t *testing.T) {
	task := model.Task{
		ID: "t1", Title: "Clean bathroom",
		CreatedAt:   time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		Constraints: model.TaskConstraints{MaxDaysBetween: 7},
	}
	today := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

	status, due := ComputeStatus(task, nil, today)
	if status != StatusOverdue {
		t.Errorf("status = %q, want %q", status, StatusOverdue)
	}
	if due == nil {
		t.Fatal("due should not be nil")
	}
	expected := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	if !due.Equal(expected) {
		t.Errorf("due = %v, want %v", due, expected)
	}
}

func TestCompletedToday(t *testing.T) {
	task := model.Task{
		ID: "t1", Title: "Wash dishes",
		CreatedAt:   time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		Constraints: model.TaskConstraints{MaxDaysBetween: 1},
	}
	today := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)
	executed := time.Date(2026, 2, 5, 8, 0, 0, 0, time.UTC)

	status, _ := ComputeStatus(task, &executed, today)
	if status != StatusCompleted {
		t.Errorf("status = %q, want %q", status, StatusCompleted)
	}
}

func TestCooldownNotDue(t *testing.T) {
	task := model.Task{
		ID: "t1", Title: "Water plants",
		CreatedAt:   time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		Constraints: model.TaskConstraints{MinDaysBetween: 3, MaxDaysBetween: 7},
	}
	today := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)
	executed := time.Date(2026, 2, 4, 10, 0, 0, 0, time.UTC)

	status, due := ComputeStatus(task, &executed, today)
	if status != StatusNotDue {
		t.Errorf("status = %q, want %q", status, StatusNotDue)
	}
	if due == nil {
		t.Fatal("due should not be nil")
	}
	expected := time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)
	if !due.Equal(expected) {
		t.Errorf("due = %v, want %v", due, expected)
	}
}

func TestCadenceOverdue(t *testing.T) {
	task := model.Task{
		ID: "t1", Title: "Take out trash",
		CreatedAt:   time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		Constraints: model.TaskConstraints{MaxDaysBetween: 3},
	}
	today := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	executed := time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)

	status, due := ComputeStatus(task, &executed, today)
	if status != StatusOverdue {
		t.Errorf("status = %q, want %q", status, StatusOverdue)
	}
	expected := time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC)
	if due == nil || !due.Equal(expected) {
		t.Errorf("due = %v, want %v", due, expected)
	}
}

func TestCadencePendingWithinWindow(t *testing.T) {
	task := model.Task{
		ID: "t1", Title: "Mop kitchen",
		CreatedAt:   time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		Constraints: model.TaskConstraints{MaxDaysBetween: 7},
	}
	today := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)
	executed := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	status, due := ComputeStatus(task, &executed, today)
	if status != StatusPending {
		t.Errorf("status = %q, want %q", status, StatusPending)
	}
	expected := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	if due == nil || !due.Equal(expected) {
		t.Errorf("due = %v, want %v", due, expected)
	}
}

func TestIsDueOnDate(t *testing.T) {
	task := model.Task{
		ID: "t1", Title: "Weekly clean",
		CreatedAt:   time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
		Constraints: model.TaskConstraints{MaxDaysBetween: 7},
	}

	if !IsDueOnDate(task, nil, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected task to be due 7 days after creation")
	}
	if IsDueOnDate(task, nil, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected task not to be due before its cadence elapses")
	}

	executed := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	if IsDueOnDate(task, &executed, time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected execution to push the due date out")
	}
	if !IsDueOnDate(task, &executed, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected task due again a full cadence after execution")
	}
}

func TestNoConstraintsAlwaysDue(t *testing.T) {
	task := model.Task{ID: "t1", Title: "Tidy up", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	if !IsDueOnDate(task, nil, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected unconstrained task to always be due")
	}
}
