package models

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetExerciseByID(t *testing.T) {
	db := testDB(t)
	id := seedExercise(t, db, "Push-Up", "horizontal push", "chest, triceps", "compound", "bodyweight")

	e, err := GetExerciseByID(db, id)
	if err != nil {
		t.Fatalf("GetExerciseByID: %v", err)
	}
	if e.Name != "Push-Up" || e.MovementPattern != "horizontal push" {
		t.Errorf("got %+v", e)
	}

	if _, err := GetExerciseByID(db, 9999); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("missing exercise error = %v, want ErrExerciseNotFound", err)
	}
}

func TestExercisePoolFilters(t *testing.T) {
	db := testDB(t)
	seedExercise(t, db, "Barbell Row", "horizontal pull", "back", "compound", "barbell")
	seedExercise(t, db, "Band Row", "horizontal pull", "back", "compound", "band")
	seedExercise(t, db, "Push-Up", "horizontal push", "chest", "compound", "bodyweight")

	pool, err := ExercisePool(db, []string{"horizontal pull"}, []string{"band", "bodyweight"})
	if err != nil {
		t.Fatalf("ExercisePool: %v", err)
	}
	if len(pool) != 1 || pool[0].Name != "Band Row" {
		t.Errorf("pool = %+v, want only Band Row", pool)
	}

	// Empty inputs short-circuit to an empty pool.
	pool, err = ExercisePool(db, nil, []string{"band"})
	if err != nil {
		t.Fatalf("empty-pattern pool: %v", err)
	}
	if len(pool) != 0 {
		t.Errorf("empty-pattern pool has %d entries", len(pool))
	}
}

func TestExistingExerciseIDs(t *testing.T) {
	db := testDB(t)
	id := seedExercise(t, db, "Plank", "core", "core", "compound", "bodyweight")

	existing, err := ExistingExerciseIDs(db, []int64{id, 404, id})
	if err != nil {
		t.Fatalf("ExistingExerciseIDs: %v", err)
	}
	want := map[int64]bool{id: true}
	if diff := cmp.Diff(want, existing); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBodyweightExerciseIDs(t *testing.T) {
	db := testDB(t)
	pushUp := seedExercise(t, db, "Push-Up", "horizontal push", "chest", "compound", "bodyweight")
	seedExercise(t, db, "Bench Press", "horizontal push", "chest", "compound", "barbell")

	ids, err := BodyweightExerciseIDs(db)
	if err != nil {
		t.Fatalf("BodyweightExerciseIDs: %v", err)
	}
	if !ids[pushUp] || len(ids) != 1 {
		t.Errorf("ids = %v, want only push-up", ids)
	}
}

func TestExerciseIDsByName(t *testing.T) {
	db := testDB(t)
	id := seedExercise(t, db, "Goblet Squat", "squat", "quadriceps", "compound", "dumbbell")

	resolved, err := ExerciseIDsByName(db, []string{"  GOBLET squat ", "Unknown Lift"})
	if err != nil {
		t.Fatalf("ExerciseIDsByName: %v", err)
	}
	if resolved["goblet squat"] != id {
		t.Errorf("resolved = %v, want goblet squat -> %d", resolved, id)
	}
	if _, ok := resolved["unknown lift"]; ok {
		t.Error("unknown name should be absent")
	}
}
