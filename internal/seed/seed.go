// Package seed produces a small demo household for trying the CLI without
// entering data by hand.
package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/mhartig/putzplan/internal/model"
)

type taskSpec struct {
	title      string
	emoji      string
	difficulty int
	unpleasant int
	minutes    float64
	pain       int
	importance int
	frequency  int
	maxDaysGap int
}

var demoTasks = []taskSpec{
	{"Küche putzen", "🧽", 6, 7, 45, 6, 8, 4, 7},
	{"Bad putzen", "🚿", 7, 8, 60, 7, 7, 2, 14},
	{"Müll rausbringen", "🗑️", 2, 4, 10, 3, 6, 8, 3},
	{"Staubsaugen", "🧹", 4, 4, 30, 4, 5, 4, 7},
	{"Einkaufen", "🛒", 3, 2, 60, 2, 7, 4, 7},
}

var demoMembers = []struct {
	name  string
	email string
}{
	{"Anna", "anna@example.com"},
	{"Ben", "ben@example.com"},
	{"Clara", "clara@example.com"},
}

// DemoState builds a fully linked application state: one household, three
// members, five rated tasks, an active period covering the current month,
// and a handful of executions.
func DemoState(now time.Time) *model.AppState {
	now = now.UTC()
	s := model.NewAppState()

	wg := &model.Household{
		ID:         uuid.NewString(),
		Name:       "WG Sonnenallee",
		CreatedAt:  now.AddDate(0, -2, 0),
		InviteCode: "DEMO1234",
		Settings: model.HouseholdSettings{
			MonthlyPointsTarget: 300,
			HotTaskBonus:        model.HotTaskBonus{Enabled: true, Percent: 50},
		},
	}
	s.WGs[wg.ID] = wg
	s.CurrentWGID = wg.ID

	for _, m := range demoMembers {
		u := &model.Member{
			ID:       uuid.NewString(),
			Name:     m.name,
			Email:    m.email,
			JoinedAt: wg.CreatedAt,
			IsActive: true,
		}
		s.Users[u.ID] = u
		wg.MemberIDs = append(wg.MemberIDs, u.ID)
	}
	s.CurrentUserID = wg.MemberIDs[0]

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-24 * time.Hour)
	period := &model.Period{
		ID:           start.Format("2006-01-02") + "_" + end.Format("2006-01-02"),
		Name:         start.Format("January 2006"),
		Start:        start,
		End:          end,
		Days:         end.Day(),
		TargetPoints: wg.Settings.MonthlyPointsTarget,
		IsActive:     true,
		CreatedAt:    start,
	}
	wg.Periods = append(wg.Periods, period)

	for i, spec := range demoTasks {
		task := &model.Task{
			ID:                  uuid.NewString(),
			WGID:                wg.ID,
			Title:               spec.title,
			Emoji:               spec.emoji,
			DifficultyScore:     spec.difficulty,
			UnpleasantnessScore: spec.unpleasant,
			Constraints:         model.TaskConstraints{MaxDaysBetween: spec.maxDaysGap},
			CreatedBy:           wg.MemberIDs[0],
			CreatedAt:           wg.CreatedAt,
			IsActive:            true,
		}
		s.Tasks[task.ID] = task

		// Every member rates every task, spread around the center values.
		for j, userID := range wg.MemberIDs {
			spread := float64(j - 1)
			r := &model.TaskRating{
				ID:                 uuid.NewString(),
				TaskID:             task.ID,
				UserID:             userID,
				EstimatedMinutes:   spec.minutes + spread*5,
				PainLevel:          clampScore(spec.pain + j - 1),
				Importance:         clampScore(spec.importance + 1 - j),
				SuggestedFrequency: spec.frequency,
				CreatedAt:          wg.CreatedAt.AddDate(0, 0, 1),
			}
			s.Ratings[r.ID] = r
		}

		// A couple of executions spread over the month so far.
		if i < 3 {
			userID := wg.MemberIDs[i%len(wg.MemberIDs)]
			ex := &model.TaskExecution{
				ID:            uuid.NewString(),
				TaskID:        task.ID,
				ExecutedBy:    userID,
				ExecutedAt:    start.AddDate(0, 0, i+2),
				PointsAwarded: 20,
				PeriodID:      period.ID,
			}
			s.Executions[ex.ID] = ex
			s.Users[userID].CurrentMonthPoints += ex.PointsAwarded
			s.Users[userID].TotalCompletedTasks++
		}
	}

	s.LastSavedAt = now
	return s
}

func clampScore(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
