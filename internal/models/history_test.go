package models

import (
	"testing"
)

func TestExerciseHistoryEmpty(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "lifter@local", 2.5)
	exercise := seedExercise(t, db, "Goblet Squat", "squat", "quadriceps", "compound", "dumbbell")

	history, err := GetExerciseHistory(db, user.ID, exercise, 5)
	if err != nil {
		t.Fatalf("GetExerciseHistory: %v", err)
	}
	if len(history.RecentSessions) != 0 || len(history.BestSets) != 0 {
		t.Errorf("history not empty: %+v", history)
	}
	if history.BaselineEstablished || history.BaselineStatus != "pending" {
		t.Errorf("baseline = (%v, %q), want (false, pending)", history.BaselineEstablished, history.BaselineStatus)
	}
}

func TestExerciseHistoryRecentAndBestSets(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "lifter@local", 2.5)
	exercise := seedExercise(t, db, "Goblet Squat", "squat", "quadriceps", "compound", "dumbbell")

	log := func(at string, weight float64, reps int, rpe float64, initial bool) {
		t.Helper()
		if _, err := CreateSession(db, SessionInput{
			UserID: user.ID, PerformedAt: at, CompletionStatus: "completed",
		}, []SetLogInput{
			{ExerciseID: exercise, SetNumber: 1, Reps: reps, Weight: weight, RPE: floatPtr(rpe), RestSeconds: intPtr(90), IsInitialLoad: initial},
		}); err != nil {
			t.Fatalf("log session: %v", err)
		}
	}
	log("2026-08-18T10:00:00", 30, 12, 7, true)
	log("2026-08-20T10:00:00", 35, 10, 8, false)
	log("2026-08-22T10:00:00", 35, 12, 7, false)
	log("2026-08-24T10:00:00", 32.5, 12, 6, false)

	history, err := GetExerciseHistory(db, user.ID, exercise, 3)
	if err != nil {
		t.Fatalf("GetExerciseHistory: %v", err)
	}

	// Recent sessions newest first, capped by the limit.
	if len(history.RecentSessions) != 3 {
		t.Fatalf("recent sessions = %d, want 3", len(history.RecentSessions))
	}
	if history.RecentSessions[0].PerformedAt != "2026-08-24T10:00:00" {
		t.Errorf("newest session = %s", history.RecentSessions[0].PerformedAt)
	}
	if len(history.RecentSessions[0].Sets) != 1 {
		t.Errorf("newest session sets = %d, want 1", len(history.RecentSessions[0].Sets))
	}

	// Best sets ranked weight desc, reps desc, rpe desc.
	if len(history.BestSets) != 3 {
		t.Fatalf("best sets = %d, want 3", len(history.BestSets))
	}
	first, second := history.BestSets[0], history.BestSets[1]
	if *first.Weight != 35 || first.Reps != 12 {
		t.Errorf("best set 1 = %+v", first)
	}
	if *second.Weight != 35 || second.Reps != 10 {
		t.Errorf("best set 2 = %+v", second)
	}
	if *history.BestSets[2].Weight != 32.5 {
		t.Errorf("best set 3 = %+v", history.BestSets[2])
	}

	if !history.BaselineEstablished || history.BaselineStatus != "established" {
		t.Errorf("baseline = (%v, %q), want (true, established)", history.BaselineEstablished, history.BaselineStatus)
	}
}

func TestExerciseHistoryManualAuditFlag(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "lifter@local", 2.5)
	exercise := seedExercise(t, db, "Goblet Squat", "squat", "quadriceps", "compound", "dumbbell")

	if _, err := CreateSession(db, SessionInput{
		UserID: user.ID, PerformedAt: "2026-08-24T10:00:00",
		CompletionStatus: "completed", ManualAuditFlag: true,
	}, []SetLogInput{
		{ExerciseID: exercise, SetNumber: 1, Reps: 10, Weight: 30, RPE: floatPtr(7), RestSeconds: intPtr(90)},
	}); err != nil {
		t.Fatalf("log session: %v", err)
	}

	history, err := GetExerciseHistory(db, user.ID, exercise, 3)
	if err != nil {
		t.Fatalf("GetExerciseHistory: %v", err)
	}
	if len(history.RecentSessions) != 1 || !history.RecentSessions[0].ManualAuditFlag {
		t.Errorf("manual audit flag not surfaced: %+v", history.RecentSessions)
	}
}
