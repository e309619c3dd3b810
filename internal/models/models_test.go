package models

import (
	"database/sql"
	"testing"

	"github.com/carpenike/liftplan/internal/database"
)

// testDB creates a fresh in-memory SQLite database with migrations applied.
func testDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser creates a user and returns it.
func seedUser(t testing.TB, db *sql.DB, email string, increment float64) *User {
	t.Helper()
	u, err := CreateUser(db, email, increment)
	if err != nil {
		t.Fatalf("seed user %q: %v", email, err)
	}
	return u
}

// seedExercise inserts a library row directly and returns its id.
func seedExercise(t testing.TB, db *sql.DB, name, pattern, muscle, category, equipmentID string) int64 {
	t.Helper()
	result, err := db.Exec(
		`INSERT INTO exercises (name, primary_muscle, equipment, movement_pattern, category, equipment_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, muscle, equipmentID, pattern, category, equipmentID,
	)
	if err != nil {
		t.Fatalf("seed exercise %q: %v", name, err)
	}
	id, _ := result.LastInsertId()
	return id
}

// seedQuestionnaire creates a minimal intake response and returns its id.
func seedQuestionnaire(t testing.TB, db *sql.DB, userID int64, goals, experience string, scheduleDays int, equipment string) int64 {
	t.Helper()
	id, err := CreateQuestionnaire(db, &Questionnaire{
		UserID:             userID,
		Goals:              goals,
		ExperienceLevel:    experience,
		ScheduleDays:       scheduleDays,
		EquipmentAvailable: equipment,
	}, 2.5)
	if err != nil {
		t.Fatalf("seed questionnaire: %v", err)
	}
	return id
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
