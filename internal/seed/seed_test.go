package seed

import (
	"testing"
	"time"
)

func TestDemoStateIsFullyLinked(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := DemoState(now)

	wg := s.WGs[s.CurrentWGID]
	if wg == nil {
		t.Fatal("current household missing")
	}
	if len(wg.MemberIDs) != 3 {
		t.Errorf("got %d members, want 3", len(wg.MemberIDs))
	}
	for _, id := range wg.MemberIDs {
		if s.Users[id] == nil {
			t.Errorf("member %s not in users map", id)
		}
	}
	if s.Users[s.CurrentUserID] == nil {
		t.Error("current user missing")
	}

	if wg.ActivePeriod() == nil {
		t.Fatal("expected an active period")
	}
	period := wg.ActivePeriod()
	if period.Start.Month() != now.Month() || period.Start.Year() != now.Year() {
		t.Errorf("period start = %v, want the current month", period.Start)
	}

	if len(s.Tasks) != 5 {
		t.Errorf("got %d tasks, want 5", len(s.Tasks))
	}
	for _, task := range s.Tasks {
		if task.WGID != wg.ID {
			t.Errorf("task %s belongs to %q, want %q", task.Title, task.WGID, wg.ID)
		}
	}

	// Every member rated every task.
	if len(s.Ratings) != len(s.Tasks)*len(wg.MemberIDs) {
		t.Errorf("got %d ratings, want %d", len(s.Ratings), len(s.Tasks)*len(wg.MemberIDs))
	}
	for _, r := range s.Ratings {
		if s.Tasks[r.TaskID] == nil {
			t.Errorf("rating %s references unknown task", r.ID)
		}
		if s.Users[r.UserID] == nil {
			t.Errorf("rating %s references unknown member", r.ID)
		}
		if r.PainLevel < 1 || r.PainLevel > 10 {
			t.Errorf("pain level %d out of range", r.PainLevel)
		}
	}

	for _, ex := range s.Executions {
		if ex.PeriodID != period.ID {
			t.Errorf("execution %s stamped %q, want active period", ex.ID, ex.PeriodID)
		}
		if s.Tasks[ex.TaskID] == nil || s.Users[ex.ExecutedBy] == nil {
			t.Errorf("execution %s has dangling references", ex.ID)
		}
	}
}
