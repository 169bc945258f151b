package engine

import (
	"fmt"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/model"
)

type CreateWGParams struct {
	Name                string
	Description         string
	MonthlyPointsTarget int
	HotTaskBonus        model.HotTaskBonus

	// Optional inline setup: members and tasks created together with the
	// household, the way the setup wizard hands them over in one call.
	Members []CreateUserParams
	Tasks   []CreateTaskParams
}

// CreateWG creates a household and makes it current. The current user, if
// any, becomes its first member; inline members and tasks are created and
// attached in the same durable write.
func (e *Engine) CreateWG(p CreateWGParams) (*model.Household, error) {
	wg := &model.Household{
		ID:          newID(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   e.now().UTC(),
		InviteCode:  newInviteCode(),
		Settings: model.HouseholdSettings{
			MonthlyPointsTarget: p.MonthlyPointsTarget,
			HotTaskBonus:        p.HotTaskBonus,
		},
	}

	var inlineUsers []*model.Member
	for _, mp := range p.Members {
		inlineUsers = append(inlineUsers, &model.Member{
			ID:                  newID(),
			Name:                mp.Name,
			Email:               mp.Email,
			Avatar:              mp.Avatar,
			JoinedAt:            e.now().UTC(),
			IsActive:            true,
			TargetMonthlyPoints: mp.TargetMonthlyPoints,
			TargetOverride:      mp.TargetOverride,
		})
	}
	var inlineTasks []*model.Task
	for _, tp := range p.Tasks {
		inlineTasks = append(inlineTasks, e.buildTask(tp, wg.ID))
	}

	err := e.commit(func(s *model.AppState) {
		if s.CurrentUserID != "" {
			wg.MemberIDs = append(wg.MemberIDs, s.CurrentUserID)
		}
		for _, u := range inlineUsers {
			s.Users[u.ID] = u
			wg.MemberIDs = append(wg.MemberIDs, u.ID)
		}
		for _, t := range inlineTasks {
			s.Tasks[t.ID] = t
		}
		s.WGs[wg.ID] = wg
		s.CurrentWGID = wg.ID
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "create household " + wg.Name,
		Type:        backup.ChangeCreate,
		Entity:      "wg",
		EntityID:    wg.ID,
		After:       wg,
	})
	return wg, nil
}

// WGUpdate carries optional field changes; nil fields stay untouched.
type WGUpdate struct {
	Name        *string
	Description *string
	MemberIDs   []string
	Settings    *model.HouseholdSettings
}

func (e *Engine) UpdateWG(id string, upd WGUpdate) (*model.Household, error) {
	wg, ok := e.state.WGs[id]
	if !ok {
		return nil, fmt.Errorf("update household %s: %w", id, ErrNotFound)
	}

	err := e.commit(func(s *model.AppState) {
		if upd.Name != nil {
			wg.Name = *upd.Name
		}
		if upd.Description != nil {
			wg.Description = *upd.Description
		}
		if upd.MemberIDs != nil {
			wg.MemberIDs = upd.MemberIDs
		}
		if upd.Settings != nil {
			wg.Settings = *upd.Settings
		}
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "update household " + wg.Name,
		Type:        backup.ChangeUpdate,
		Entity:      "wg",
		EntityID:    wg.ID,
		After:       wg,
	})
	return wg, nil
}

// AddMemberToWG attaches an existing user to a household. Members are never
// hard-deleted, only detached via UpdateWG with a reduced member list.
func (e *Engine) AddMemberToWG(wgID, userID string) error {
	wg, ok := e.state.WGs[wgID]
	if !ok {
		return fmt.Errorf("add member to household %s: %w", wgID, ErrNotFound)
	}
	if _, ok := e.state.Users[userID]; !ok {
		return fmt.Errorf("add member %s: %w", userID, ErrNotFound)
	}
	if wg.HasMember(userID) {
		return nil
	}
	return e.commit(func(s *model.AppState) {
		wg.MemberIDs = append(wg.MemberIDs, userID)
	})
}

func (e *Engine) SetCurrentWG(id string) error {
	if _, ok := e.state.WGs[id]; !ok {
		return fmt.Errorf("set current household %s: %w", id, ErrNotFound)
	}
	return e.commit(func(s *model.AppState) {
		s.CurrentWGID = id
	})
}

// GetCurrentWG returns the current household, or nil when none is set.
func (e *Engine) GetCurrentWG() *model.Household {
	return e.state.CurrentWG()
}

// Members returns the resolved member list of a household.
func (e *Engine) Members(wg *model.Household) []*model.Member {
	if wg == nil {
		return nil
	}
	out := make([]*model.Member, 0, len(wg.MemberIDs))
	for _, id := range wg.MemberIDs {
		if u, ok := e.state.Users[id]; ok {
			out = append(out, u)
		}
	}
	return out
}
