package engine

import (
	"fmt"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/model"
)

type CreateUserParams struct {
	Name                string
	Email               string
	Avatar              string
	TargetMonthlyPoints int
	// TargetOverride pins the target against distribution recalculation.
	TargetOverride bool
}

// CreateUser adds a member and makes them the current user.
func (e *Engine) CreateUser(p CreateUserParams) (*model.Member, error) {
	user := &model.Member{
		ID:                  newID(),
		Name:                p.Name,
		Email:               p.Email,
		Avatar:              p.Avatar,
		JoinedAt:            e.now().UTC(),
		IsActive:            true,
		TargetMonthlyPoints: p.TargetMonthlyPoints,
		TargetOverride:      p.TargetOverride,
	}

	err := e.commit(func(s *model.AppState) {
		s.Users[user.ID] = user
		s.CurrentUserID = user.ID
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "create user " + user.Name,
		Type:        backup.ChangeCreate,
		Entity:      "user",
		EntityID:    user.ID,
		After:       user,
	})
	return user, nil
}

// UserUpdate carries optional field changes; nil fields stay untouched.
type UserUpdate struct {
	Name                *string
	Email               *string
	Avatar              *string
	IsActive            *bool
	TargetMonthlyPoints *int
	TargetOverride      *bool
	CurrentMonthPoints  *int
	TotalCompletedTasks *int
}

// UpdateUser applies an update. Setting TargetMonthlyPoints marks the member
// as manually overridden unless TargetOverride says otherwise.
func (e *Engine) UpdateUser(id string, upd UserUpdate) (*model.Member, error) {
	user, ok := e.state.Users[id]
	if !ok {
		return nil, fmt.Errorf("update user %s: %w", id, ErrNotFound)
	}
	before := user.Clone()

	err := e.commit(func(s *model.AppState) {
		if upd.Name != nil {
			user.Name = *upd.Name
		}
		if upd.Email != nil {
			user.Email = *upd.Email
		}
		if upd.Avatar != nil {
			user.Avatar = *upd.Avatar
		}
		if upd.IsActive != nil {
			user.IsActive = *upd.IsActive
		}
		if upd.TargetMonthlyPoints != nil {
			user.TargetMonthlyPoints = *upd.TargetMonthlyPoints
			user.TargetOverride = true
		}
		if upd.TargetOverride != nil {
			user.TargetOverride = *upd.TargetOverride
		}
		if upd.CurrentMonthPoints != nil {
			user.CurrentMonthPoints = *upd.CurrentMonthPoints
		}
		if upd.TotalCompletedTasks != nil {
			user.TotalCompletedTasks = *upd.TotalCompletedTasks
		}
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "update user " + user.Name,
		Type:        backup.ChangeUpdate,
		Entity:      "user",
		EntityID:    user.ID,
		Before:      before,
		After:       user,
	})
	return user, nil
}

func (e *Engine) SetCurrentUser(id string) error {
	if _, ok := e.state.Users[id]; !ok {
		return fmt.Errorf("set current user %s: %w", id, ErrNotFound)
	}
	return e.commit(func(s *model.AppState) {
		s.CurrentUserID = id
	})
}

func (e *Engine) ClearCurrentUser() error {
	return e.commit(func(s *model.AppState) {
		s.CurrentUserID = ""
	})
}

// CurrentUser returns the current user, or nil when none is set.
func (e *Engine) CurrentUser() *model.Member {
	if e.state.CurrentUserID == "" {
		return nil
	}
	return e.state.Users[e.state.CurrentUserID]
}
