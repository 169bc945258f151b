package engine

import (
	"fmt"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/model"
)

type RateTaskParams struct {
	EstimatedMinutes   float64
	PainLevel          int
	Importance         int
	SuggestedFrequency int
}

// UpsertTaskRatingForUser records a member's rating of a task, replacing any
// earlier rating by the same member. Each (member, task) pair holds at most
// one rating; point recalculation averages over the current set.
func (e *Engine) UpsertTaskRatingForUser(taskID, userID string, p RateTaskParams) (*model.TaskRating, error) {
	if _, ok := e.state.Tasks[taskID]; !ok {
		return nil, fmt.Errorf("rate task %s: %w", taskID, ErrNotFound)
	}
	if _, ok := e.state.Users[userID]; !ok {
		return nil, fmt.Errorf("rate task: user %s: %w", userID, ErrNotFound)
	}

	rating := &model.TaskRating{
		ID:                 newID(),
		TaskID:             taskID,
		UserID:             userID,
		EstimatedMinutes:   p.EstimatedMinutes,
		PainLevel:          p.PainLevel,
		Importance:         p.Importance,
		SuggestedFrequency: p.SuggestedFrequency,
		CreatedAt:          e.now().UTC(),
	}

	err := e.commit(func(s *model.AppState) {
		for rid, r := range s.Ratings {
			if r.TaskID == taskID && r.UserID == userID {
				delete(s.Ratings, rid)
			}
		}
		s.Ratings[rating.ID] = rating
		e.recalculateTaskPointsLocked(s, taskID)
	})
	if err != nil {
		return nil, err
	}

	e.recordChange(backup.Change{
		Description: "rate task " + taskID,
		Type:        backup.ChangeUpdate,
		Entity:      "rating",
		EntityID:    rating.ID,
		After:       rating,
	})
	return rating, nil
}

// RateTask records a rating by the current user.
func (e *Engine) RateTask(taskID string, p RateTaskParams) (*model.TaskRating, error) {
	if e.state.CurrentUserID == "" {
		return nil, fmt.Errorf("rate task: %w", ErrNoCurrentUser)
	}
	return e.UpsertTaskRatingForUser(taskID, e.state.CurrentUserID, p)
}

// TaskRatings returns all ratings recorded for one task.
func (e *Engine) TaskRatings(taskID string) []*model.TaskRating {
	var out []*model.TaskRating
	for _, r := range e.state.Ratings {
		if r.TaskID == taskID {
			out = append(out, r)
		}
	}
	return out
}
