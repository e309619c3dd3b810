package export

import (
	"bytes"
	"testing"

	"github.com/carpenike/liftplan/internal/models"
)

func samplePlan() *models.PlanPayload {
	weight := 25.0
	start := "2026-08-24"
	return &models.PlanPayload{
		ID: 1, UUID: "test-uuid", Name: "First Block",
		StartDate: &start, Weeks: 4,
		Goals: "muscle_gain", ExperienceLevel: "beginner", ScheduleDays: 2,
		Workouts: []models.PlanWorkoutPayload{
			{
				DayIndex: 0, SessionType: "full_body",
				Exercises: []models.PlannedExercisePayload{
					{Sequence: 1, ExerciseID: 1, TargetSets: 3, TargetRepsMin: 6, TargetRepsMax: 12,
						StartingWeight: &weight, Name: "Goblet Squat", Category: "compound"},
					{Sequence: 2, ExerciseID: 2, TargetSets: 3, TargetRepsMin: 6, TargetRepsMax: 12,
						Name: "Push-Up", Category: "compound"},
				},
			},
			{DayIndex: 8, SessionType: "upper"},
		},
	}
}

func TestPlanPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := PlanPDF(&buf, samplePlan()); err != nil {
		t.Fatalf("PlanPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:8])
	}
	if buf.Len() < 500 {
		t.Errorf("output suspiciously small: %d bytes", buf.Len())
	}
}

func TestPlanPDFEmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	plan := &models.PlanPayload{Name: "Empty", Weeks: 4, Goals: "strength", ExperienceLevel: "beginner"}
	if err := PlanPDF(&buf, plan); err != nil {
		t.Fatalf("PlanPDF empty plan: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("empty plan did not render a PDF")
	}
}
