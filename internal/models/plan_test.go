package models

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seedPlan(t testing.TB, db *sql.DB, userID, questionnaireID int64) int64 {
	t.Helper()
	squat := seedExercise(t, db, "Goblet Squat", "squat", "quadriceps, glutes", "compound", "dumbbell")
	row := seedExercise(t, db, "Dumbbell Row", "horizontal pull", "back", "compound", "dumbbell")
	planID, err := CreateWorkoutPlan(db, userID, "Test Plan", "2026-08-24", 4, questionnaireID, []PlannedExerciseInput{
		{DayIndex: 2, SessionType: "full_body", Sequence: 1, ExerciseID: row,
			TargetSets: 3, TargetRepsMin: 6, TargetRepsMax: 12,
			StartingWeight: sql.NullFloat64{Float64: 10, Valid: true}, IsInitialLoad: true},
		{DayIndex: 0, SessionType: "full_body", Sequence: 2, ExerciseID: squat,
			TargetSets: 3, TargetRepsMin: 6, TargetRepsMax: 12,
			StartingWeight: sql.NullFloat64{Float64: 20, Valid: true}},
		{DayIndex: 0, SessionType: "full_body", Sequence: 1, ExerciseID: row,
			TargetSets: 3, TargetRepsMin: 6, TargetRepsMax: 12,
			StartingWeight: sql.NullFloat64{Float64: 10, Valid: true}, IsInitialLoad: true},
	})
	if err != nil {
		t.Fatalf("CreateWorkoutPlan: %v", err)
	}
	return planID
}

func TestCreateAndFetchPlanPayload(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "lifter@local", 2.5)
	qID := seedQuestionnaire(t, db, user.ID, "muscle_gain", "beginner", 2, "dumbbells_only")
	planID := seedPlan(t, db, user.ID, qID)

	plan, err := GetPlanPayload(db, planID)
	if err != nil {
		t.Fatalf("GetPlanPayload: %v", err)
	}

	if plan.Name != "Test Plan" || plan.Weeks != 4 || plan.Goals != "muscle_gain" {
		t.Errorf("plan header = %+v", plan)
	}
	if plan.UUID == "" {
		t.Error("plan uuid not assigned")
	}
	if plan.StartDate == nil || *plan.StartDate != "2026-08-24" {
		t.Errorf("start date = %v", plan.StartDate)
	}

	// Days ascending, exercises in sequence order within each day.
	if len(plan.Workouts) != 2 {
		t.Fatalf("workouts = %d, want 2", len(plan.Workouts))
	}
	if plan.Workouts[0].DayIndex != 0 || plan.Workouts[1].DayIndex != 2 {
		t.Errorf("day order = %d, %d", plan.Workouts[0].DayIndex, plan.Workouts[1].DayIndex)
	}
	day0 := plan.Workouts[0]
	if len(day0.Exercises) != 2 || day0.Exercises[0].Sequence != 1 || day0.Exercises[1].Sequence != 2 {
		t.Errorf("day 0 exercises out of order: %+v", day0.Exercises)
	}
	if day0.Exercises[0].Name != "Dumbbell Row" || !day0.Exercises[0].IsInitialLoad {
		t.Errorf("day 0 slot 1 = %+v", day0.Exercises[0])
	}
}

func TestGetPlanPayloadNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := GetPlanPayload(db, 42); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("error = %v, want ErrPlanNotFound", err)
	}
	if _, err := GetPlanContext(db, 42); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("context error = %v, want ErrPlanNotFound", err)
	}
}

func TestSwapPlannedExercise(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "lifter@local", 2.5)
	qID := seedQuestionnaire(t, db, user.ID, "muscle_gain", "beginner", 2, "dumbbells_only")
	planID := seedPlan(t, db, user.ID, qID)
	replacement := seedExercise(t, db, "Chest-Supported Row", "horizontal pull", "back", "compound", "dumbbell")

	before, err := GetPlannedExerciseDetail(db, planID, 0, 1)
	if err != nil {
		t.Fatalf("GetPlannedExerciseDetail: %v", err)
	}

	err = SwapPlannedExercise(db, planID, 0, 1, before.ExerciseID, replacement,
		sql.NullFloat64{Float64: 10, Valid: true}, true)
	if err != nil {
		t.Fatalf("SwapPlannedExercise: %v", err)
	}

	after, err := GetPlannedExerciseDetail(db, planID, 0, 1)
	if err != nil {
		t.Fatalf("re-fetch slot: %v", err)
	}
	if after.ExerciseID != replacement {
		t.Errorf("slot exercise = %d, want %d", after.ExerciseID, replacement)
	}

	// The audit row records old and new ids.
	var prev, next int64
	err = db.QueryRow(
		`SELECT previous_exercise_id, new_exercise_id FROM planned_exercise_swaps
		 WHERE plan_id = ? AND day_index = 0 AND sequence = 1`, planID,
	).Scan(&prev, &next)
	if err != nil {
		t.Fatalf("read swap audit: %v", err)
	}
	if prev != before.ExerciseID || next != replacement {
		t.Errorf("audit = (%d, %d), want (%d, %d)", prev, next, before.ExerciseID, replacement)
	}
}

func TestSwapPlannedExerciseMissingSlot(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "lifter@local", 2.5)
	qID := seedQuestionnaire(t, db, user.ID, "muscle_gain", "beginner", 2, "dumbbells_only")
	planID := seedPlan(t, db, user.ID, qID)

	err := SwapPlannedExercise(db, planID, 6, 9, 1, 2, sql.NullFloat64{}, false)
	if !errors.Is(err, ErrPlannedExerciseNotFound) {
		t.Errorf("error = %v, want ErrPlannedExerciseNotFound", err)
	}

	// Failed swap leaves no audit row behind.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM planned_exercise_swaps`).Scan(&count); err != nil {
		t.Fatalf("count audit rows: %v", err)
	}
	if count != 0 {
		t.Errorf("audit rows = %d, want 0", count)
	}
}

func TestListPlanIDs(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "lifter@local", 2.5)
	qID := seedQuestionnaire(t, db, user.ID, "muscle_gain", "beginner", 2, "dumbbells_only")
	first := seedPlan(t, db, user.ID, qID)

	second, err := CreateWorkoutPlan(db, user.ID, "Another", "", 4, qID, nil)
	if err != nil {
		t.Fatalf("second plan: %v", err)
	}

	ids, err := ListPlanIDs(db, user.ID)
	if err != nil {
		t.Fatalf("ListPlanIDs: %v", err)
	}
	if diff := cmp.Diff([]int64{first, second}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}
