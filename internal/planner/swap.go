package planner

import (
	"database/sql"
	"strings"

	"github.com/carpenike/liftplan/internal/models"
)

// SwapOption is one conforming replacement for a planned exercise slot.
type SwapOption struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MovementPattern string `json:"movement_pattern"`
	Category        string `json:"category"`
	EquipmentID     string `json:"equipment_id"`
	PrimaryMuscle   string `json:"primary_muscle"`
}

// swapContext gathers everything eligibility depends on: the slot, the
// plan's owner, and the questionnaire that generated the plan.
type swapContext struct {
	planned       *models.PlannedExerciseDetail
	plan          *models.PlanContext
	questionnaire *models.Questionnaire
	excluded      bool
	eligible      []*models.Exercise
}

func loadSwapContext(db *sql.DB, planID int64, dayIndex, sequence int) (*swapContext, error) {
	planned, err := models.GetPlannedExerciseDetail(db, planID, dayIndex, sequence)
	if err != nil {
		return nil, err
	}
	plan, err := models.GetPlanContext(db, planID)
	if err != nil {
		return nil, err
	}
	questionnaire, err := models.GetQuestionnaireByID(db, plan.QuestionnaireID)
	if err != nil {
		return nil, err
	}

	ctx := &swapContext{planned: planned, plan: plan, questionnaire: questionnaire}

	slotPattern := strings.ToLower(strings.TrimSpace(planned.MovementPattern))
	for _, excluded := range questionnaire.ExcludedPatterns {
		if strings.ToLower(strings.TrimSpace(excluded)) == slotPattern {
			ctx.excluded = true
			return ctx, nil
		}
	}

	allowed, err := AllowedEquipment(questionnaire.EquipmentAvailable)
	if err != nil {
		return nil, err
	}
	pool, err := models.ExercisePool(db, []string{planned.MovementPattern}, allowed)
	if err != nil {
		return nil, err
	}
	ctx.eligible, err = eligibleByExperience(pool, questionnaire.ExperienceLevel)
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

// ListSwapOptions returns the conforming replacements for a slot, name
// ascending, with the current exercise removed. A slot whose pattern the
// questionnaire excludes has no options.
func ListSwapOptions(db *sql.DB, planID int64, dayIndex, sequence int) ([]SwapOption, error) {
	ctx, err := loadSwapContext(db, planID, dayIndex, sequence)
	if err != nil {
		return nil, err
	}
	options := []SwapOption{}
	if ctx.excluded {
		return options, nil
	}
	for _, exercise := range ctx.eligible {
		if exercise.ID == ctx.planned.ExerciseID {
			continue
		}
		options = append(options, SwapOption{
			ID:              exercise.ID,
			Name:            exercise.Name,
			MovementPattern: exercise.MovementPattern,
			Category:        exercise.Category,
			EquipmentID:     exercise.EquipmentID,
			PrimaryMuscle:   exercise.PrimaryMuscle,
		})
	}
	return options, nil
}

// ApplySwap recomputes eligibility, requires the proposed exercise to be in
// it, resolves the replacement's starting load from history, and atomically
// updates the slot while appending the swap audit row.
func ApplySwap(db *sql.DB, planID int64, dayIndex, sequence int, newExerciseID int64) error {
	ctx, err := loadSwapContext(db, planID, dayIndex, sequence)
	if err != nil {
		return err
	}
	if ctx.excluded {
		return ErrExcludedPattern
	}

	var replacement *models.Exercise
	for _, exercise := range ctx.eligible {
		if exercise.ID == newExerciseID {
			replacement = exercise
			break
		}
	}
	if replacement == nil {
		return ErrInvalidSwapExercise
	}

	smallestIncrement, err := models.GetUserSmallestIncrement(db, ctx.plan.UserID)
	if err != nil {
		return err
	}
	latest, err := models.LatestPerformance(db, ctx.plan.UserID, replacement.ID)
	if err != nil {
		return err
	}
	weight, isInitialLoad, err := resolveStartingWeight(replacement, latest, smallestIncrement)
	if err != nil {
		return err
	}

	return models.SwapPlannedExercise(
		db, planID, dayIndex, sequence,
		ctx.planned.ExerciseID, replacement.ID,
		sql.NullFloat64{Float64: weight, Valid: true}, isInitialLoad,
	)
}
