package model

import "time"

// Household is a shared flat (WG). It owns the member list, the scoring
// settings and every period ever created for it.
type Household struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Description       string              `json:"description,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	MemberIDs         []string            `json:"member_ids"`
	InviteCode        string              `json:"invite_code"`
	Settings          HouseholdSettings   `json:"settings"`
	Periods           []*Period           `json:"periods"`
	HistoricalPeriods []*HistoricalPeriod `json:"historical_periods"`
}

type HouseholdSettings struct {
	MonthlyPointsTarget int          `json:"monthly_points_target"`
	HotTaskBonus        HotTaskBonus `json:"hot_task_bonus"`
}

// HotTaskBonus configures the one-shot percent bonus for alarmed tasks.
type HotTaskBonus struct {
	Enabled bool `json:"enabled"`
	Percent int  `json:"percent"`
}

// ActivePeriod returns the household's single active period, or nil.
func (h *Household) ActivePeriod() *Period {
	for _, p := range h.Periods {
		if p.IsActive {
			return p
		}
	}
	return nil
}

func (h *Household) HasMember(userID string) bool {
	for _, id := range h.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
