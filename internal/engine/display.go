package engine

import (
	"fmt"
	"sort"

	"github.com/mhartig/putzplan/internal/model"
)

// SetDisplayPeriod selects which period the read API shows. Empty means the
// live active period. The selector is view state only and never persisted.
func (e *Engine) SetDisplayPeriod(id string) error {
	if id == "" {
		e.displayPeriodID = ""
		return nil
	}
	wg := e.state.CurrentWG()
	if wg == nil {
		return fmt.Errorf("set display period: %w", ErrNoHousehold)
	}
	for _, p := range wg.Periods {
		if p.ID == id {
			e.displayPeriodID = id
			return nil
		}
	}
	for _, hp := range wg.HistoricalPeriods {
		if hp.ID == id {
			e.displayPeriodID = id
			return nil
		}
	}
	return fmt.Errorf("set display period %s: %w", id, ErrNotFound)
}

// GetDisplayPeriod returns the selected period view, or the live active
// period when no selection is set. Nil when neither exists.
func (e *Engine) GetDisplayPeriod() *model.PeriodView {
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil
	}

	if e.displayPeriodID == "" {
		active := wg.ActivePeriod()
		if active == nil {
			return nil
		}
		return &model.PeriodView{
			ID:           active.ID,
			Name:         active.Name,
			StartDate:    active.Start,
			EndDate:      active.End,
			Days:         active.Days,
			TargetPoints: active.TargetPoints,
			IsActive:     true,
			CreatedAt:    active.CreatedAt,
		}
	}

	for _, v := range e.GetHistoricalPeriods() {
		if v.ID == e.displayPeriodID {
			return v
		}
	}
	return nil
}

// GetDisplayPeriodExecutions returns the executions of the displayed period.
// For the live view this filters the live execution map by the active
// period's id; for an archived view it reads from the archived snapshot, so
// later executions never leak in.
func (e *Engine) GetDisplayPeriodExecutions() []*model.TaskExecution {
	wg := e.state.CurrentWG()
	if wg == nil {
		return nil
	}

	var out []*model.TaskExecution
	if e.displayPeriodID == "" {
		active := wg.ActivePeriod()
		if active == nil {
			return nil
		}
		for _, ex := range e.state.Executions {
			if ex.PeriodID == active.ID {
				out = append(out, ex)
			}
		}
	} else {
		for _, hp := range wg.HistoricalPeriods {
			if hp.ID != e.displayPeriodID || hp.SavedState == nil {
				continue
			}
			for _, ex := range hp.SavedState.Executions {
				if ex.PeriodID == hp.ID {
					out = append(out, ex)
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ExecutedAt.Before(out[j].ExecutedAt)
	})
	return out
}
