package planner

import (
	"database/sql"
	"time"

	"github.com/carpenike/liftplan/internal/models"
	"github.com/carpenike/liftplan/internal/progression"
)

// Request carries the inputs for one plan generation.
type Request struct {
	QuestionnaireID int64
	Weeks           int
	StartDate       time.Time
	Name            string
}

// Generate runs the full pipeline: questionnaire → pool fetch → composition
// → audit → starting loads → atomic persist. It returns the new plan id.
// Any validation or audit failure aborts before the write transaction, so a
// failed generation leaves no rows behind.
func Generate(db *sql.DB, req Request) (int64, error) {
	questionnaire, err := models.GetQuestionnaireByID(db, req.QuestionnaireID)
	if err != nil {
		return 0, err
	}
	smallestIncrement, err := models.GetUserSmallestIncrement(db, questionnaire.UserID)
	if err != nil {
		return 0, err
	}

	trainingDays, err := ResolveTrainingDays(questionnaire.ScheduleDays, questionnaire.TrainingDaysOfWeek)
	if err != nil {
		return 0, err
	}
	split, err := SelectSplit(questionnaire.Goals, questionnaire.ScheduleDays)
	if err != nil {
		return 0, err
	}
	weekStructure, err := BuildWeekStructure(split, questionnaire.ScheduleDays, questionnaire.SplitVariant.String)
	if err != nil {
		return 0, err
	}
	allowed, err := AllowedEquipment(questionnaire.EquipmentAvailable)
	if err != nil {
		return 0, err
	}

	pool, err := models.ExercisePool(db, UniquePatterns(weekStructure), allowed)
	if err != nil {
		return 0, err
	}
	byPattern := GroupByPattern(pool)

	days, err := BuildPlanDays(
		trainingDays, weekStructure, byPattern,
		questionnaire.ExperienceLevel,
		nullIntPtr(questionnaire.SessionDurationMinutes),
		questionnaire.FocusAreas,
	)
	if err != nil {
		return 0, err
	}
	if err := AuditPlan(days, allowed, questionnaire.ExperienceLevel); err != nil {
		return 0, err
	}

	planned, err := buildPlannedExercises(db, questionnaire.UserID, days, smallestIncrement)
	if err != nil {
		return 0, err
	}

	return models.CreateWorkoutPlan(
		db, questionnaire.UserID, req.Name, req.StartDate.Format("2006-01-02"),
		req.Weeks, req.QuestionnaireID, planned,
	)
}

// buildPlannedExercises resolves each slot's starting load: the latest
// recorded performance when one exists, otherwise a conservative initial
// load marked as such.
func buildPlannedExercises(db *sql.DB, userID int64, days []PlanDay, smallestIncrement float64) ([]models.PlannedExerciseInput, error) {
	var planned []models.PlannedExerciseInput
	for _, day := range days {
		for i, exercise := range day.Exercises {
			latest, err := models.LatestPerformance(db, userID, exercise.ID)
			if err != nil {
				return nil, err
			}
			weight, isInitialLoad, err := resolveStartingWeight(exercise, latest, smallestIncrement)
			if err != nil {
				return nil, err
			}
			planned = append(planned, models.PlannedExerciseInput{
				DayIndex:       day.DayIndex,
				SessionType:    day.SessionType,
				Sequence:       i + 1,
				ExerciseID:     exercise.ID,
				TargetSets:     targetSets,
				TargetRepsMin:  targetRepsMin,
				TargetRepsMax:  targetRepsMax,
				StartingWeight: sql.NullFloat64{Float64: weight, Valid: true},
				IsInitialLoad:  isInitialLoad,
			})
		}
	}
	return planned, nil
}

func resolveStartingWeight(exercise *models.Exercise, latest *float64, smallestIncrement float64) (weight float64, isInitialLoad bool, err error) {
	if latest != nil {
		return *latest, false, nil
	}
	weight, err = progression.DefaultStartingWeight(exercise, smallestIncrement)
	if err != nil {
		return 0, false, err
	}
	return weight, true, nil
}

// nullIntPtr converts an optional SQL integer to the pointer form the
// composer works with.
func nullIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	n := int(value.Int64)
	return &n
}
