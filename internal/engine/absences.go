package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/model"
)

// AddAbsence records an absence for a member. Dates are inclusive calendar
// days; any length is accepted.
func (e *Engine) AddAbsence(userID, reason string, start, end time.Time) (*model.Absence, error) {
	if _, ok := e.state.Users[userID]; !ok {
		return nil, fmt.Errorf("add absence: user %s: %w", userID, ErrNotFound)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("add absence %s..%s: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"), ErrInvalidPeriod)
	}

	absence := &model.Absence{
		ID:        newID(),
		UserID:    userID,
		Reason:    reason,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		CreatedAt: e.now().UTC(),
	}
	err := e.commit(func(s *model.AppState) {
		s.Absences[absence.ID] = absence
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "add absence for " + userID,
		Type:        backup.ChangeCreate,
		Entity:      "absence",
		EntityID:    absence.ID,
		After:       absence,
	})
	return absence, nil
}

func (e *Engine) RemoveAbsence(id string) error {
	absence, ok := e.state.Absences[id]
	if !ok {
		return fmt.Errorf("remove absence %s: %w", id, ErrNotFound)
	}
	err := e.commit(func(s *model.AppState) {
		delete(s.Absences, id)
	})
	if err != nil {
		return err
	}

	e.recordChange(backup.Change{
		Description: "remove absence for " + absence.UserID,
		Type:        backup.ChangeDelete,
		Entity:      "absence",
		EntityID:    id,
		Before:      absence,
	})
	return nil
}

// ActiveAbsences lists a member's absences ordered by start date.
func (e *Engine) ActiveAbsences(userID string) []*model.Absence {
	var out []*model.Absence
	for _, a := range e.state.Absences {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

// IsUserCurrentlyAbsent reports whether any of the member's absences covers
// today.
func (e *Engine) IsUserCurrentlyAbsent(userID string) bool {
	today := dayIndex(e.now())
	for _, a := range e.state.Absences {
		if a.UserID != userID {
			continue
		}
		if dayIndex(a.StartDate) <= today && today <= dayIndex(a.EndDate) {
			return true
		}
	}
	return false
}

// dayInterval is a half-open [start, end) range of calendar day indexes.
type dayInterval struct {
	start, end int
}

// GetAdjustedMonthlyTarget reduces a member's point target proportionally to
// the days they are absent within the period. Overlapping absences count
// once; absences are clipped to the period window. A full-period absence
// yields exactly zero; no absence leaves the target untouched.
func (e *Engine) GetAdjustedMonthlyTarget(userID string, period *model.Period) (int, error) {
	user, ok := e.state.Users[userID]
	if !ok {
		return 0, fmt.Errorf("adjust target: user %s: %w", userID, ErrNotFound)
	}
	if period == nil {
		return user.TargetMonthlyPoints, nil
	}

	pStart, pEnd := dayIndex(period.Start), dayIndex(period.End)+1
	if pEnd <= pStart {
		return user.TargetMonthlyPoints, nil
	}

	var intervals []dayInterval
	for _, a := range e.state.Absences {
		if a.UserID != userID {
			continue
		}
		// Inclusive absence dates become half-open day ranges, then clip.
		start, end := dayIndex(a.StartDate), dayIndex(a.EndDate)+1
		if start < pStart {
			start = pStart
		}
		if end > pEnd {
			end = pEnd
		}
		if start < end {
			intervals = append(intervals, dayInterval{start, end})
		}
	}

	absentDays := unionDays(intervals)
	target := user.TargetMonthlyPoints
	reduction := roundHalfUp(float64(target) * float64(absentDays) / float64(pEnd-pStart))
	adjusted := target - reduction
	if adjusted < 0 {
		adjusted = 0
	}
	return adjusted, nil
}

// unionDays sums the widths of the interval union, so overlapping ranges are
// counted once.
func unionDays(intervals []dayInterval) int {
	if len(intervals) == 0 {
		return 0
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	total := 0
	cur := intervals[0]
	for _, iv := range intervals[1:] {
		if iv.start <= cur.end {
			if iv.end > cur.end {
				cur.end = iv.end
			}
			continue
		}
		total += cur.end - cur.start
		cur = iv
	}
	total += cur.end - cur.start
	return total
}
