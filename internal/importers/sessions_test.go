package importers

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carpenike/liftplan/internal/database"
	"github.com/carpenike/liftplan/internal/models"
)

const sampleCSV = `performed_at,exercise,set_number,reps,weight,rpe,rest_seconds
2026-08-20T10:00:00,Goblet Squat,1,10,25,7,90
2026-08-20T10:00:00,Goblet Squat,2,8,25,8,90
2026-08-22T10:00:00,Dumbbell Row,1,12,15,7.5,60
2026-08-20T10:00:00,Dumbbell Row,1,10,15,,
`

func TestParseSessionCSV(t *testing.T) {
	sessions, err := ParseSessionCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseSessionCSV: %v", err)
	}

	// Grouped by timestamp in first-appearance order, even when rows for a
	// session are not contiguous.
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	if sessions[0].PerformedAt != "2026-08-20T10:00:00" || sessions[1].PerformedAt != "2026-08-22T10:00:00" {
		t.Errorf("session order = %s, %s", sessions[0].PerformedAt, sessions[1].PerformedAt)
	}
	if len(sessions[0].Sets) != 3 || len(sessions[1].Sets) != 1 {
		t.Fatalf("set counts = %d, %d", len(sessions[0].Sets), len(sessions[1].Sets))
	}

	first := sessions[0].Sets[0]
	if first.Exercise != "Goblet Squat" || first.SetNumber != 1 || first.Reps != 10 || first.Weight != 25 {
		t.Errorf("first set = %+v", first)
	}
	if first.RPE == nil || *first.RPE != 7 || first.RestSeconds == nil || *first.RestSeconds != 90 {
		t.Errorf("first set optionals = %+v", first)
	}
	// Blank optional columns stay unset.
	last := sessions[0].Sets[2]
	if last.RPE != nil || last.RestSeconds != nil {
		t.Errorf("blank optionals parsed: %+v", last)
	}
}

func TestParseSessionCSVMissingColumn(t *testing.T) {
	csv := "performed_at,exercise,reps,weight\n2026-08-20T10:00:00,Squat,10,25\n"
	_, err := ParseSessionCSV(strings.NewReader(csv))
	if err == nil || !strings.Contains(err.Error(), `missing required column "set_number"`) {
		t.Errorf("error = %v", err)
	}
}

func TestParseSessionCSVNoRows(t *testing.T) {
	csv := "performed_at,exercise,set_number,reps,weight\n"
	if _, err := ParseSessionCSV(strings.NewReader(csv)); err == nil {
		t.Error("header-only csv accepted")
	}
}

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

func seedImportFixtures(t testing.TB, db *sql.DB) int64 {
	t.Helper()
	u, err := models.CreateUser(db, "lifter@local", 2.5)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	for _, e := range []struct{ name, pattern, muscle string }{
		{"Goblet Squat", "squat", "quadriceps"},
		{"Dumbbell Row", "horizontal pull", "back"},
	} {
		if _, err := db.Exec(
			`INSERT INTO exercises (name, primary_muscle, equipment, movement_pattern, category, equipment_id)
			 VALUES (?, ?, 'dumbbell', ?, 'compound', 'dumbbell')`,
			e.name, e.muscle, e.pattern,
		); err != nil {
			t.Fatalf("seed exercise %q: %v", e.name, err)
		}
	}
	return u.ID
}

func TestImportSessionsRoundTrip(t *testing.T) {
	db := testDB(t)
	userID := seedImportFixtures(t, db)

	// Optional columns must survive the trip; validation requires them.
	csv := `performed_at,exercise,set_number,reps,weight,rpe,rest_seconds
2026-08-20T10:00:00,goblet squat,1,10,25,7,90
2026-08-20T10:00:00,Goblet Squat,2,8,25,8,90
2026-08-22T10:00:00,Dumbbell Row,1,12,15,7.5,60
`
	sessions, err := ParseSessionCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseSessionCSV: %v", err)
	}

	ids, err := ImportSessions(db, userID, sessions)
	if err != nil {
		t.Fatalf("ImportSessions: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("session ids = %v, want 2", ids)
	}

	stored, err := models.ListSessionsWithSets(db, userID)
	if err != nil {
		t.Fatalf("ListSessionsWithSets: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored sessions = %d, want 2", len(stored))
	}
	// Newest first: the row session, then the squat session.
	if stored[0].PerformedAt != "2026-08-22T10:00:00" || len(stored[0].SetLogs) != 1 {
		t.Errorf("newest session = %+v", stored[0])
	}
	if stored[1].CompletionStatus != "completed" || len(stored[1].SetLogs) != 2 {
		t.Errorf("squat session = %+v", stored[1])
	}

	var performed []string
	for _, s := range stored {
		performed = append(performed, s.PerformedAt)
	}
	if diff := cmp.Diff([]string{"2026-08-22T10:00:00", "2026-08-20T10:00:00"}, performed); diff != "" {
		t.Errorf("timestamps mismatch (-want +got):\n%s", diff)
	}
}

func TestImportSessionsUnknownExercise(t *testing.T) {
	db := testDB(t)
	userID := seedImportFixtures(t, db)

	sessions := []ParsedSession{{
		PerformedAt: "2026-08-20T10:00:00",
		Sets: []ParsedSet{{
			Exercise: "Nordic Curl", SetNumber: 1, Reps: 10, Weight: 20,
			RPE: func() *float64 { v := 7.0; return &v }(),
			RestSeconds: func() *int { v := 90; return &v }(),
		}},
	}}
	_, err := ImportSessions(db, userID, sessions)
	if !errors.Is(err, models.ErrExerciseNotFound) {
		t.Errorf("error = %v, want ErrExerciseNotFound", err)
	}
}
