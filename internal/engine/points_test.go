package engine

import (
	"testing"
	"time"

	"github.com/mhartig/putzplan/internal/model"
)

func TestPointRecalculationFromRatings(t *testing.T) {
	env := setupEngine(t)
	_, annaID, benID := setupHousehold(t, env)

	task, err := env.engine.CreateTask(CreateTaskParams{Title: "Kitchen", DifficultyScore: 5, UnpleasantnessScore: 5})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Means: 32.5 minutes, pain 5.5, importance 6.5, frequency 4.
	// 10 × (32.5/30) × (1+4.5×0.3) × (1+5.5×0.2) = 53.46 → 53 points.
	if _, err := env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 30, PainLevel: 5, Importance: 6, SuggestedFrequency: 4,
	}); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := env.engine.UpsertTaskRatingForUser(task.ID, benID, RateTaskParams{
		EstimatedMinutes: 35, PainLevel: 6, Importance: 7, SuggestedFrequency: 4,
	}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	got := env.engine.GetState().Tasks[task.ID]
	if got.PointsPerExecution != 53 {
		t.Errorf("PointsPerExecution = %d, want 53", got.PointsPerExecution)
	}
	if got.MonthlyFrequency != 4 {
		t.Errorf("MonthlyFrequency = %d, want 4", got.MonthlyFrequency)
	}
	if got.TotalMonthlyPoints != 212 {
		t.Errorf("TotalMonthlyPoints = %d, want 212", got.TotalMonthlyPoints)
	}
	if got.AverageMinutes != 32.5 {
		t.Errorf("AverageMinutes = %v, want 32.5", got.AverageMinutes)
	}
}

func TestTimeMultiplierSaturates(t *testing.T) {
	env := setupEngine(t)
	_, annaID, _ := setupHousehold(t, env)

	task, err := env.engine.CreateTask(CreateTaskParams{Title: "Spring clean", DifficultyScore: 5, UnpleasantnessScore: 5})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// 600 minutes clamps the time multiplier at 3: 10 × 3 × 1 × 1 = 30.
	if _, err := env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 600, PainLevel: 1, Importance: 1, SuggestedFrequency: 1,
	}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	got := env.engine.GetState().Tasks[task.ID]
	if got.PointsPerExecution != 30 {
		t.Errorf("PointsPerExecution = %d, want 30 (saturated)", got.PointsPerExecution)
	}

	// 90 minutes hits the cap exactly; more time must not add points.
	task2, _ := env.engine.CreateTask(CreateTaskParams{Title: "Basement", DifficultyScore: 5, UnpleasantnessScore: 5})
	env.engine.UpsertTaskRatingForUser(task2.ID, annaID, RateTaskParams{
		EstimatedMinutes: 90, PainLevel: 1, Importance: 1, SuggestedFrequency: 1,
	})
	if got2 := env.engine.GetState().Tasks[task2.ID]; got2.PointsPerExecution != 30 {
		t.Errorf("PointsPerExecution at 90min = %d, want 30", got2.PointsPerExecution)
	}
}

func TestRecalculateUnratedTaskIsNoOp(t *testing.T) {
	env := setupEngine(t)
	setupHousehold(t, env)

	task, err := env.engine.CreateTask(CreateTaskParams{Title: "Unrated", DifficultyScore: 7, UnpleasantnessScore: 7})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	before := *task

	got, err := env.engine.RecalculateTaskPoints(task.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if got.PointsPerExecution != before.PointsPerExecution || got.TotalMonthlyPoints != before.TotalMonthlyPoints {
		t.Errorf("unrated task changed: %+v", got)
	}
}

func TestFrequencyFallsBackToMaxDaysBetween(t *testing.T) {
	env := setupEngine(t)
	_, annaID, _ := setupHousehold(t, env)

	task, err := env.engine.CreateTask(CreateTaskParams{
		Title: "Fridge", DifficultyScore: 5, UnpleasantnessScore: 5, MaxDaysBetween: 10,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 30, PainLevel: 1, Importance: 1,
	}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	got := env.engine.GetState().Tasks[task.ID]
	if got.MonthlyFrequency != 3 {
		t.Errorf("MonthlyFrequency = %d, want 3 (30/10)", got.MonthlyFrequency)
	}
}

func TestRatingUpsertReplacesPrevious(t *testing.T) {
	env := setupEngine(t)
	_, annaID, _ := setupHousehold(t, env)

	task, _ := env.engine.CreateTask(CreateTaskParams{Title: "Trash", DifficultyScore: 5, UnpleasantnessScore: 5})
	env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 10, PainLevel: 2, Importance: 2, SuggestedFrequency: 8,
	})
	env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 20, PainLevel: 3, Importance: 3, SuggestedFrequency: 6,
	})

	ratings := env.engine.TaskRatings(task.ID)
	if len(ratings) != 1 {
		t.Fatalf("got %d ratings, want 1 per (member, task)", len(ratings))
	}
	if ratings[0].EstimatedMinutes != 20 {
		t.Errorf("EstimatedMinutes = %v, want the newer rating", ratings[0].EstimatedMinutes)
	}
}

func TestHotTaskBonusConsumedOnce(t *testing.T) {
	env := setupEngine(t)
	_, annaID, _ := setupHousehold(t, env)

	task, _ := env.engine.CreateTask(CreateTaskParams{Title: "Oven", DifficultyScore: 5, UnpleasantnessScore: 5})
	// Single neutral rating pins the task at 10 points per execution.
	env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 30, PainLevel: 1, Importance: 1, SuggestedFrequency: 2,
	})
	alarmed := true
	if _, err := env.engine.UpdateTask(task.ID, TaskUpdate{IsAlarmed: &alarmed}); err != nil {
		t.Fatalf("alarm task: %v", err)
	}

	// 10 points at 50% bonus → 15, and the alarm clears.
	exec, err := env.engine.ExecuteTaskForUser(task.ID, annaID, ExecOptions{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if exec.PointsAwarded != 15 {
		t.Errorf("PointsAwarded = %d, want 15", exec.PointsAwarded)
	}
	if env.engine.GetState().Tasks[task.ID].IsAlarmed {
		t.Error("alarm should clear after the bonus execution")
	}

	// Second execution pays the plain rate.
	exec2, err := env.engine.ExecuteTaskForUser(task.ID, annaID, ExecOptions{})
	if err != nil {
		t.Fatalf("execute again: %v", err)
	}
	if exec2.PointsAwarded != 10 {
		t.Errorf("PointsAwarded = %d, want 10", exec2.PointsAwarded)
	}
}

func TestHotTaskBonusLargePercent(t *testing.T) {
	env := setupEngine(t)
	wg, annaID, _ := setupHousehold(t, env)

	settings := wg.Settings
	settings.HotTaskBonus = model.HotTaskBonus{Enabled: true, Percent: 500}
	if _, err := env.engine.UpdateWG(wg.ID, WGUpdate{Settings: &settings}); err != nil {
		t.Fatalf("update household: %v", err)
	}

	task, _ := env.engine.CreateTask(CreateTaskParams{Title: "Cellar", DifficultyScore: 5, UnpleasantnessScore: 5})
	env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 30, PainLevel: 1, Importance: 1, SuggestedFrequency: 1,
	})
	alarmed := true
	env.engine.UpdateTask(task.ID, TaskUpdate{IsAlarmed: &alarmed})

	exec, err := env.engine.ExecuteTaskForUser(task.ID, annaID, ExecOptions{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if exec.PointsAwarded != 60 {
		t.Errorf("PointsAwarded = %d, want 60 (×6)", exec.PointsAwarded)
	}
}

func TestHotTaskBonusDisabled(t *testing.T) {
	env := setupEngine(t)
	wg, annaID, _ := setupHousehold(t, env)

	settings := wg.Settings
	settings.HotTaskBonus.Enabled = false
	env.engine.UpdateWG(wg.ID, WGUpdate{Settings: &settings})

	task, _ := env.engine.CreateTask(CreateTaskParams{Title: "Hall", DifficultyScore: 5, UnpleasantnessScore: 5})
	env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 30, PainLevel: 1, Importance: 1, SuggestedFrequency: 1,
	})
	alarmed := true
	env.engine.UpdateTask(task.ID, TaskUpdate{IsAlarmed: &alarmed})

	exec, err := env.engine.ExecuteTaskForUser(task.ID, annaID, ExecOptions{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if exec.PointsAwarded != 10 {
		t.Errorf("PointsAwarded = %d, want 10 with bonus disabled", exec.PointsAwarded)
	}
}

func TestExecutionBumpsMemberCounters(t *testing.T) {
	env := setupEngine(t)
	_, annaID, _ := setupHousehold(t, env)

	task, _ := env.engine.CreateTask(CreateTaskParams{Title: "Plants", DifficultyScore: 5, UnpleasantnessScore: 5})
	env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 30, PainLevel: 1, Importance: 1, SuggestedFrequency: 4,
	})

	if _, err := env.engine.ExecuteTaskForUser(task.ID, annaID, ExecOptions{Note: "watered"}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	anna := env.engine.GetState().Users[annaID]
	if anna.CurrentMonthPoints != 10 {
		t.Errorf("CurrentMonthPoints = %d, want 10", anna.CurrentMonthPoints)
	}
	if anna.TotalCompletedTasks != 1 {
		t.Errorf("TotalCompletedTasks = %d, want 1", anna.TotalCompletedTasks)
	}
}

func TestDistributionRespectsOverride(t *testing.T) {
	env := setupEngine(t)
	_, annaID, benID := setupHousehold(t, env)

	task, _ := env.engine.CreateTask(CreateTaskParams{Title: "Everything", DifficultyScore: 5, UnpleasantnessScore: 5})
	env.engine.UpsertTaskRatingForUser(task.ID, annaID, RateTaskParams{
		EstimatedMinutes: 30, PainLevel: 1, Importance: 1, SuggestedFrequency: 10,
	})
	// 10 points × 10/month = 100 total, 50 each.

	target := 80
	if _, err := env.engine.UpdateUser(annaID, UserUpdate{TargetMonthlyPoints: &target}); err != nil {
		t.Fatalf("override target: %v", err)
	}

	dist, err := env.engine.RecalculateWGPointDistribution()
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if dist.TotalWorkload != 100 {
		t.Errorf("TotalWorkload = %d, want 100", dist.TotalWorkload)
	}
	if dist.PointsPerMember != 50 {
		t.Errorf("PointsPerMember = %d, want 50", dist.PointsPerMember)
	}

	state := env.engine.GetState()
	if state.Users[annaID].TargetMonthlyPoints != 80 {
		t.Errorf("overridden member target = %d, want 80 untouched", state.Users[annaID].TargetMonthlyPoints)
	}
	if state.Users[benID].TargetMonthlyPoints != 50 {
		t.Errorf("plain member target = %d, want 50", state.Users[benID].TargetMonthlyPoints)
	}
	if got := state.CurrentWG().Settings.MonthlyPointsTarget; got != 50 {
		t.Errorf("household monthly target = %d, want the new per-member value", got)
	}
}

func TestExecutionTimeOverride(t *testing.T) {
	env := setupEngine(t)
	_, annaID, _ := setupHousehold(t, env)

	task, _ := env.engine.CreateTask(CreateTaskParams{Title: "Compost", DifficultyScore: 5, UnpleasantnessScore: 5})

	when := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	exec, err := env.engine.ExecuteTaskForUser(task.ID, annaID, ExecOptions{ExecutedAt: when})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !exec.ExecutedAt.Equal(when) {
		t.Errorf("ExecutedAt = %v, want the override %v", exec.ExecutedAt, when)
	}
}

func TestCanUserExecuteTaskCooldown(t *testing.T) {
	env := setupEngine(t)
	_, annaID, benID := setupHousehold(t, env)

	task, _ := env.engine.CreateTask(CreateTaskParams{
		Title: "Mop", DifficultyScore: 5, UnpleasantnessScore: 5, MinDaysBetween: 3,
	})

	ok, err := env.engine.CanUserExecuteTask(task.ID, annaID)
	if err != nil || !ok {
		t.Fatalf("expected fresh task to be executable, ok=%v err=%v", ok, err)
	}
	if _, err := env.engine.ExecuteTaskForUser(task.ID, annaID, ExecOptions{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	ok, _ = env.engine.CanUserExecuteTask(task.ID, annaID)
	if ok {
		t.Error("expected cool-down to block immediate re-execution")
	}

	// Another member is not blocked by Anna's execution.
	ok, _ = env.engine.CanUserExecuteTask(task.ID, benID)
	if !ok {
		t.Error("cool-down is per member")
	}

	env.advance(4 * 24 * time.Hour)
	ok, _ = env.engine.CanUserExecuteTask(task.ID, annaID)
	if !ok {
		t.Error("expected cool-down to expire after MinDaysBetween")
	}
}

func TestRecalculateAllTaskPoints(t *testing.T) {
	env := setupEngine(t)
	_, annaID, _ := setupHousehold(t, env)

	kitchen, _ := env.engine.CreateTask(CreateTaskParams{Title: "Kitchen", DifficultyScore: 5, UnpleasantnessScore: 5})
	bath, _ := env.engine.CreateTask(CreateTaskParams{Title: "Bath", DifficultyScore: 5, UnpleasantnessScore: 5})
	env.engine.UpsertTaskRatingForUser(kitchen.ID, annaID, RateTaskParams{
		EstimatedMinutes: 30, PainLevel: 1, Importance: 1, SuggestedFrequency: 2,
	})
	env.engine.UpsertTaskRatingForUser(bath.ID, annaID, RateTaskParams{
		EstimatedMinutes: 60, PainLevel: 1, Importance: 1, SuggestedFrequency: 1,
	})

	// Stale values, as after importing a state whose points were never
	// computed. One call must bring every rated task back up to date.
	state := env.engine.GetState()
	for _, task := range []*model.Task{state.Tasks[kitchen.ID], state.Tasks[bath.ID]} {
		task.PointsPerExecution = 0
		task.TotalMonthlyPoints = 0
	}

	if err := env.engine.RecalculateAllTaskPoints(); err != nil {
		t.Fatalf("recalculate all: %v", err)
	}
	if got := state.Tasks[kitchen.ID]; got.PointsPerExecution != 10 || got.TotalMonthlyPoints != 20 {
		t.Errorf("kitchen = %d pts, %d/month, want 10 and 20", got.PointsPerExecution, got.TotalMonthlyPoints)
	}
	if got := state.Tasks[bath.ID]; got.PointsPerExecution != 20 || got.TotalMonthlyPoints != 20 {
		t.Errorf("bath = %d pts, %d/month, want 20 and 20", got.PointsPerExecution, got.TotalMonthlyPoints)
	}
}
