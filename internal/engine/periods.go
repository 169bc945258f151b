package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/model"
)

func periodID(start, end time.Time) string {
	return start.Format("2006-01-02") + "_" + end.Format("2006-01-02")
}

// periodDays counts the calendar days a period spans, both bounds inclusive.
func periodDays(start, end time.Time) int {
	return dayIndex(end) - dayIndex(start) + 1
}

// dayIndex maps a timestamp to its UTC calendar day number.
func dayIndex(t time.Time) int {
	return int(t.UTC().Truncate(24*time.Hour).Unix() / 86400)
}

// ensureCurrentPeriodLocked returns the active period, creating one covering
// the current calendar month when none exists. Must run inside a commit.
func (e *Engine) ensureCurrentPeriodLocked(s *model.AppState, wg *model.Household) *model.Period {
	if p := wg.ActivePeriod(); p != nil {
		return p
	}

	now := e.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-24 * time.Hour)

	period := &model.Period{
		ID:           periodID(start, end),
		Name:         start.Format("January 2006"),
		Start:        start,
		End:          end,
		Days:         periodDays(start, end),
		TargetPoints: wg.Settings.MonthlyPointsTarget,
		IsActive:     true,
		CreatedAt:    now,
	}
	wg.Periods = append(wg.Periods, period)
	return period
}

// EnsureCurrentPeriod lazily creates the current-month period when the
// household has no active one. Idempotent.
func (e *Engine) EnsureCurrentPeriod() (*model.Period, error) {
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil, fmt.Errorf("ensure period: %w", ErrNoHousehold)
	}
	if p := wg.ActivePeriod(); p != nil {
		return p, nil
	}

	var period *model.Period
	err := e.commit(func(s *model.AppState) {
		period = e.ensureCurrentPeriodLocked(s, wg)
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// SetCustomPeriod closes the active period, archiving it with a deep state
// snapshot, and starts a new one over [start, end]. With resetData the new
// period begins clean: executions cleared, task alarms cooled, member
// counters zeroed. Definitions are never touched.
func (e *Engine) SetCustomPeriod(start, end time.Time, resetData bool) (*model.Period, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("set period %s..%s: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"), ErrInvalidPeriod)
	}
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil, fmt.Errorf("set period: %w", ErrNoHousehold)
	}

	start, end = start.UTC(), end.UTC()
	period := &model.Period{
		ID:           periodID(start, end),
		Name:         start.Format("2006-01-02") + " – " + end.Format("2006-01-02"),
		Start:        start,
		End:          end,
		Days:         periodDays(start, end),
		TargetPoints: wg.Settings.MonthlyPointsTarget,
		IsActive:     true,
		CreatedAt:    e.now().UTC(),
	}

	err := e.commit(func(s *model.AppState) {
		if active := wg.ActivePeriod(); active != nil {
			e.archivePeriodLocked(s, wg, active)
		}
		wg.Periods = append(wg.Periods, period)

		if resetData {
			s.Executions = map[string]*model.TaskExecution{}
			for _, t := range s.Tasks {
				if t.WGID == wg.ID {
					t.IsAlarmed = false
				}
			}
			for _, id := range wg.MemberIDs {
				if u, ok := s.Users[id]; ok {
					u.CurrentMonthPoints = 0
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "start period " + period.ID,
		Type:        backup.ChangeCreate,
		Entity:      "period",
		EntityID:    period.ID,
		After:       period,
	})
	return period, nil
}

// archivePeriodLocked moves an active period into HistoricalPeriods carrying
// a deep snapshot of the executions, tasks, and members of that moment.
func (e *Engine) archivePeriodLocked(s *model.AppState, wg *model.Household, active *model.Period) {
	active.IsActive = false

	saved := &model.SavedState{
		Executions: map[string]*model.TaskExecution{},
		Tasks:      map[string]*model.Task{},
		Members:    map[string]*model.Member{},
	}
	for id, ex := range s.Executions {
		saved.Executions[id] = ex.Clone()
	}
	for id, t := range s.Tasks {
		if t.WGID == wg.ID {
			saved.Tasks[id] = t.Clone()
		}
	}
	for _, id := range wg.MemberIDs {
		if u, ok := s.Users[id]; ok {
			saved.Members[id] = u.Clone()
		}
	}

	summary := &model.PeriodSummary{}
	perMember := map[string]*model.MemberPeriodStat{}
	for _, ex := range saved.Executions {
		if ex.PeriodID != active.ID {
			continue
		}
		summary.TotalExecutions++
		summary.TotalPoints += ex.PointsAwarded
		stat, ok := perMember[ex.ExecutedBy]
		if !ok {
			stat = &model.MemberPeriodStat{UserID: ex.ExecutedBy}
			if u := saved.Members[ex.ExecutedBy]; u != nil {
				stat.Name = u.Name
			}
			perMember[ex.ExecutedBy] = stat
		}
		stat.Points += ex.PointsAwarded
		stat.CompletedTasks++
	}
	for _, stat := range perMember {
		summary.MemberStats = append(summary.MemberStats, *stat)
	}
	sort.Slice(summary.MemberStats, func(i, j int) bool {
		return summary.MemberStats[i].Points > summary.MemberStats[j].Points
	})

	wg.HistoricalPeriods = append(wg.HistoricalPeriods, &model.HistoricalPeriod{
		ID:           active.ID,
		Name:         active.Name,
		StartDate:    active.Start,
		EndDate:      active.End,
		Days:         active.Days,
		TargetPoints: active.TargetPoints,
		CreatedAt:    active.CreatedAt,
		ArchivedAt:   e.now().UTC(),
		Summary:      summary,
		SavedState:   saved,
	})
}

// ToggleTaskOnPeriod flips a task's checklist entry on a period. Checking
// records who and when; unchecking clears both. The entry is created on
// first toggle.
func (e *Engine) ToggleTaskOnPeriod(periodID, taskID string) error {
	wg := e.state.CurrentWG()
	if wg == nil {
		return fmt.Errorf("toggle task: %w", ErrNoHousehold)
	}
	var period *model.Period
	for _, p := range wg.Periods {
		if p.ID == periodID {
			period = p
			break
		}
	}
	if period == nil {
		return fmt.Errorf("toggle task on period %s: %w", periodID, ErrNotFound)
	}

	return e.commit(func(s *model.AppState) {
		for i := range period.Tasks {
			entry := &period.Tasks[i]
			if entry.TaskID != taskID {
				continue
			}
			if entry.Checked {
				entry.Checked = false
				entry.CheckedAt = nil
				entry.CheckedBy = ""
			} else {
				now := e.now().UTC()
				entry.Checked = true
				entry.CheckedAt = &now
				entry.CheckedBy = s.CurrentUserID
			}
			return
		}
		now := e.now().UTC()
		period.Tasks = append(period.Tasks, model.PeriodTaskEntry{
			TaskID:    taskID,
			Checked:   true,
			CheckedAt: &now,
			CheckedBy: s.CurrentUserID,
		})
	})
}

// GetHistoricalPeriods unions the live period list with the archived one and
// normalizes both into a single canonical view: one entry per distinct
// (start, end) date range, the richer payload winning when the same range
// appears in both lists, ordered newest-created-first.
func (e *Engine) GetHistoricalPeriods() []*model.PeriodView {
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil
	}

	byRange := map[string]*model.PeriodView{}

	for _, p := range wg.Periods {
		v := &model.PeriodView{
			ID:           p.ID,
			Name:         p.Name,
			StartDate:    p.Start,
			EndDate:      p.End,
			Days:         p.Days,
			TargetPoints: p.TargetPoints,
			IsActive:     p.IsActive,
			CreatedAt:    p.CreatedAt,
		}
		mergePeriodView(byRange, v)
	}
	for _, hp := range wg.HistoricalPeriods {
		archived := hp.ArchivedAt
		v := &model.PeriodView{
			ID:           hp.ID,
			Name:         hp.Name,
			StartDate:    hp.StartDate,
			EndDate:      hp.EndDate,
			Days:         hp.Days,
			TargetPoints: hp.TargetPoints,
			IsActive:     hp.IsActive,
			CreatedAt:    hp.CreatedAt,
			ArchivedAt:   &archived,
			Summary:      hp.Summary,
			SavedState:   hp.SavedState,
		}
		mergePeriodView(byRange, v)
	}

	out := make([]*model.PeriodView, 0, len(byRange))
	for _, v := range byRange {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// mergePeriodView inserts a view keyed by its canonical date range. On
// collision the richer payload wins: a saved snapshot beats a summary beats
// a bare record.
func mergePeriodView(byRange map[string]*model.PeriodView, v *model.PeriodView) {
	key := periodID(v.StartDate, v.EndDate)
	existing, ok := byRange[key]
	if !ok || periodViewRichness(v) > periodViewRichness(existing) {
		byRange[key] = v
	}
}

func periodViewRichness(v *model.PeriodView) int {
	switch {
	case v.SavedState != nil:
		return 2
	case v.Summary != nil:
		return 1
	default:
		return 0
	}
}

// DeletePeriod removes a period from both the live and the archived lists.
// Executions referencing it are left in place.
func (e *Engine) DeletePeriod(id string) error {
	wg := e.state.CurrentWG()
	if wg == nil {
		return fmt.Errorf("delete period: %w", ErrNoHousehold)
	}

	found := false
	err := e.commit(func(s *model.AppState) {
		kept := wg.Periods[:0]
		for _, p := range wg.Periods {
			if p.ID == id {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		wg.Periods = kept

		keptHist := wg.HistoricalPeriods[:0]
		for _, hp := range wg.HistoricalPeriods {
			if hp.ID == id {
				found = true
				continue
			}
			keptHist = append(keptHist, hp)
		}
		wg.HistoricalPeriods = keptHist

		if e.displayPeriodID == id {
			e.displayPeriodID = ""
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("delete period %s: %w", id, ErrNotFound)
	}

	e.recordChange(backup.Change{
		Description: "delete period " + id,
		Type:        backup.ChangeDelete,
		Entity:      "period",
		EntityID:    id,
	})
	return nil
}
