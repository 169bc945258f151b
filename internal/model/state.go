package model

import "time"

// AppState is the canonical engine state. All mutation goes through the
// engine's commit path; readers must treat it as immutable.
type AppState struct {
	CurrentUserID string `json:"current_user_id,omitempty"`
	CurrentWGID   string `json:"current_wg_id,omitempty"`

	Users      map[string]*Member        `json:"users"`
	WGs        map[string]*Household     `json:"wgs"`
	Tasks      map[string]*Task          `json:"tasks"`
	Executions map[string]*TaskExecution `json:"executions"`
	Ratings    map[string]*TaskRating    `json:"ratings"`
	Absences   map[string]*Absence       `json:"absences"`

	LastSavedAt time.Time `json:"last_saved_at,omitempty"`
}

// NewAppState returns the blank initial state used on first start and after
// a version-mismatch or corrupt-store reset.
func NewAppState() *AppState {
	return &AppState{
		Users:      make(map[string]*Member),
		WGs:        make(map[string]*Household),
		Tasks:      make(map[string]*Task),
		Executions: make(map[string]*TaskExecution),
		Ratings:    make(map[string]*TaskRating),
		Absences:   make(map[string]*Absence),
	}
}

// EnsureMaps backfills nil maps after decoding an older or partial payload.
func (s *AppState) EnsureMaps() {
	if s.Users == nil {
		s.Users = make(map[string]*Member)
	}
	if s.WGs == nil {
		s.WGs = make(map[string]*Household)
	}
	if s.Tasks == nil {
		s.Tasks = make(map[string]*Task)
	}
	if s.Executions == nil {
		s.Executions = make(map[string]*TaskExecution)
	}
	if s.Ratings == nil {
		s.Ratings = make(map[string]*TaskRating)
	}
	if s.Absences == nil {
		s.Absences = make(map[string]*Absence)
	}
}

// CurrentWG resolves the current household, or nil when none is set.
func (s *AppState) CurrentWG() *Household {
	if s.CurrentWGID == "" {
		return nil
	}
	return s.WGs[s.CurrentWGID]
}
