package models

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Plan is a generated multi-week training plan.
type Plan struct {
	ID              int64
	UUID            string
	UserID          int64
	Name            string
	StartDate       sql.NullString
	Weeks           int
	QuestionnaireID int64
	CreatedAt       time.Time
}

// PlannedExerciseInput is one slot of a plan about to be persisted.
type PlannedExerciseInput struct {
	DayIndex       int
	SessionType    string
	Sequence       int
	ExerciseID     int64
	TargetSets     int
	TargetRepsMin  int
	TargetRepsMax  int
	StartingWeight sql.NullFloat64
	IsInitialLoad  bool
}

// CreateWorkoutPlan persists a plan, its per-day workout rows, and all
// planned exercise slots in one transaction. Slots are inserted ordered by
// (day_index, sequence). Returns the new plan id.
func CreateWorkoutPlan(db *sql.DB, userID int64, name, startDate string, weeks int, questionnaireID int64, planned []PlannedExerciseInput) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("models: begin plan tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO plans (uuid, user_id, name, start_date, weeks, generated_from_questionnaire_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, name, stringToNull(startDate), weeks, questionnaireID,
	)
	if err != nil {
		return 0, fmt.Errorf("models: insert plan for user %d: %w", userID, err)
	}
	planID, _ := result.LastInsertId()

	ordered := make([]PlannedExerciseInput, len(planned))
	copy(ordered, planned)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].DayIndex != ordered[j].DayIndex {
			return ordered[i].DayIndex < ordered[j].DayIndex
		}
		return ordered[i].Sequence < ordered[j].Sequence
	})

	// Workout rows go in before the slots that reference their day.
	seen := make(map[int]bool)
	for _, slot := range ordered {
		if seen[slot.DayIndex] {
			continue
		}
		seen[slot.DayIndex] = true
		if _, err := tx.Exec(
			`INSERT INTO plan_workouts (plan_id, day_index, template_id) VALUES (?, ?, NULL)`,
			planID, slot.DayIndex,
		); err != nil {
			return 0, fmt.Errorf("models: insert plan workout day %d: %w", slot.DayIndex, err)
		}
	}

	for _, slot := range ordered {
		if _, err := tx.Exec(
			`INSERT INTO planned_exercises
			   (plan_id, day_index, session_type, sequence, exercise_id,
			    target_sets, target_reps_min, target_reps_max, starting_weight, is_initial_load)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			planID, slot.DayIndex, slot.SessionType, slot.Sequence, slot.ExerciseID,
			slot.TargetSets, slot.TargetRepsMin, slot.TargetRepsMax, slot.StartingWeight, slot.IsInitialLoad,
		); err != nil {
			return 0, fmt.Errorf("models: insert planned exercise day %d seq %d: %w", slot.DayIndex, slot.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("models: commit plan: %w", err)
	}
	return planID, nil
}

// PlanContext identifies the owner and source questionnaire of a plan.
type PlanContext struct {
	UserID          int64
	QuestionnaireID int64
}

// GetPlanContext returns the owner and questionnaire behind a plan.
func GetPlanContext(db *sql.DB, planID int64) (*PlanContext, error) {
	ctx := &PlanContext{}
	err := db.QueryRow(
		`SELECT user_id, generated_from_questionnaire_id FROM plans WHERE id = ?`, planID,
	).Scan(&ctx.UserID, &ctx.QuestionnaireID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("models: get plan context %d: %w", planID, err)
	}
	return ctx, nil
}

// PlannedExerciseDetail is one plan slot joined with its exercise metadata.
type PlannedExerciseDetail struct {
	PlanID          int64
	DayIndex        int
	Sequence        int
	ExerciseID      int64
	SessionType     string
	TargetSets      int
	TargetRepsMin   int
	TargetRepsMax   int
	StartingWeight  sql.NullFloat64
	IsInitialLoad   bool
	MovementPattern string
	Category        string
	EquipmentID     string
	PrimaryMuscle   string
}

// GetPlannedExerciseDetail loads one slot identified by (plan, day, sequence).
func GetPlannedExerciseDetail(db *sql.DB, planID int64, dayIndex, sequence int) (*PlannedExerciseDetail, error) {
	d := &PlannedExerciseDetail{}
	err := db.QueryRow(
		`SELECT pe.plan_id, pe.day_index, pe.sequence, pe.exercise_id, pe.session_type,
		        pe.target_sets, pe.target_reps_min, pe.target_reps_max,
		        pe.starting_weight, pe.is_initial_load,
		        ex.movement_pattern, ex.category, ex.equipment_id, ex.primary_muscle
		 FROM planned_exercises pe
		 JOIN exercises ex ON ex.id = pe.exercise_id
		 WHERE pe.plan_id = ? AND pe.day_index = ? AND pe.sequence = ?`,
		planID, dayIndex, sequence,
	).Scan(&d.PlanID, &d.DayIndex, &d.Sequence, &d.ExerciseID, &d.SessionType,
		&d.TargetSets, &d.TargetRepsMin, &d.TargetRepsMax,
		&d.StartingWeight, &d.IsInitialLoad,
		&d.MovementPattern, &d.Category, &d.EquipmentID, &d.PrimaryMuscle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlannedExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("models: get planned exercise %d/%d/%d: %w", planID, dayIndex, sequence, err)
	}
	return d, nil
}

// SwapPlannedExercise replaces a slot's exercise and appends the swap audit
// row in one transaction. The slot keeps its (day_index, sequence) identity.
func SwapPlannedExercise(db *sql.DB, planID int64, dayIndex, sequence int, previousExerciseID, newExerciseID int64, startingWeight sql.NullFloat64, isInitialLoad bool) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("models: begin swap tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE planned_exercises
		 SET exercise_id = ?, starting_weight = ?, is_initial_load = ?
		 WHERE plan_id = ? AND day_index = ? AND sequence = ?`,
		newExerciseID, startingWeight, isInitialLoad, planID, dayIndex, sequence,
	)
	if err != nil {
		return fmt.Errorf("models: update planned exercise %d/%d/%d: %w", planID, dayIndex, sequence, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrPlannedExerciseNotFound
	}

	if _, err := tx.Exec(
		`INSERT INTO planned_exercise_swaps
		   (plan_id, day_index, sequence, previous_exercise_id, new_exercise_id)
		 VALUES (?, ?, ?, ?, ?)`,
		planID, dayIndex, sequence, previousExerciseID, newExerciseID,
	); err != nil {
		return fmt.Errorf("models: insert swap audit %d/%d/%d: %w", planID, dayIndex, sequence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("models: commit swap: %w", err)
	}
	return nil
}

// PlanPayload is the client-facing view of a plan, grouped by day.
type PlanPayload struct {
	ID                 int64                `json:"id"`
	UUID               string               `json:"uuid"`
	Name               string               `json:"name"`
	StartDate          *string              `json:"start_date"`
	Weeks              int                  `json:"weeks"`
	Goals              string               `json:"goals"`
	ExperienceLevel    string               `json:"experience_level"`
	ScheduleDays       int                  `json:"schedule_days"`
	TrainingDaysOfWeek []int                `json:"training_days_of_week"`
	Workouts           []PlanWorkoutPayload `json:"workouts"`
}

// PlanWorkoutPayload is one training day within a plan payload.
type PlanWorkoutPayload struct {
	DayIndex    int                      `json:"day_index"`
	SessionType string                   `json:"session_type"`
	Exercises   []PlannedExercisePayload `json:"exercises"`
}

// PlannedExercisePayload is one slot within a plan payload.
type PlannedExercisePayload struct {
	Sequence       int      `json:"sequence"`
	ExerciseID     int64    `json:"exercise_id"`
	TargetSets     int      `json:"target_sets"`
	TargetRepsMin  int      `json:"target_reps_min"`
	TargetRepsMax  int      `json:"target_reps_max"`
	StartingWeight *float64 `json:"starting_weight"`
	IsInitialLoad  bool     `json:"is_initial_load"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
}

// GetPlanPayload assembles the full plan view: questionnaire context plus
// slots grouped by day_index ascending, each day's exercises in sequence order.
func GetPlanPayload(db *sql.DB, planID int64) (*PlanPayload, error) {
	p := &PlanPayload{}
	var startDate, trainingDays sql.NullString
	err := db.QueryRow(
		`SELECT p.id, p.uuid, p.name, p.start_date, p.weeks,
		        q.goals, q.experience_level, q.schedule_days, q.training_days_of_week
		 FROM plans p
		 JOIN questionnaire_responses q ON q.id = p.generated_from_questionnaire_id
		 WHERE p.id = ?`, planID,
	).Scan(&p.ID, &p.UUID, &p.Name, &startDate, &p.Weeks,
		&p.Goals, &p.ExperienceLevel, &p.ScheduleDays, &trainingDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("models: get plan %d: %w", planID, err)
	}
	p.StartDate = nullStringPtr(startDate)
	p.TrainingDaysOfWeek = []int{}
	if trainingDays.Valid {
		days, err := splitInts(trainingDays.String)
		if err != nil {
			return nil, fmt.Errorf("models: plan %d training days %q: %w", planID, trainingDays.String, err)
		}
		if days != nil {
			p.TrainingDaysOfWeek = days
		}
	}

	rows, err := db.Query(
		`SELECT pe.day_index, pe.session_type, pe.sequence, pe.exercise_id,
		        pe.target_sets, pe.target_reps_min, pe.target_reps_max,
		        pe.starting_weight, pe.is_initial_load, ex.name, ex.category
		 FROM planned_exercises pe
		 JOIN exercises ex ON ex.id = pe.exercise_id
		 WHERE pe.plan_id = ?
		 ORDER BY pe.day_index, pe.sequence`, planID,
	)
	if err != nil {
		return nil, fmt.Errorf("models: list planned exercises %d: %w", planID, err)
	}
	defer rows.Close()

	p.Workouts = []PlanWorkoutPayload{}
	for rows.Next() {
		var (
			dayIndex       int
			sessionType    string
			slot           PlannedExercisePayload
			startingWeight sql.NullFloat64
		)
		if err := rows.Scan(&dayIndex, &sessionType, &slot.Sequence, &slot.ExerciseID,
			&slot.TargetSets, &slot.TargetRepsMin, &slot.TargetRepsMax,
			&startingWeight, &slot.IsInitialLoad, &slot.Name, &slot.Category); err != nil {
			return nil, fmt.Errorf("models: scan planned exercise: %w", err)
		}
		slot.StartingWeight = nullFloatPtr(startingWeight)

		if n := len(p.Workouts); n == 0 || p.Workouts[n-1].DayIndex != dayIndex {
			p.Workouts = append(p.Workouts, PlanWorkoutPayload{
				DayIndex:    dayIndex,
				SessionType: sessionType,
			})
		}
		last := &p.Workouts[len(p.Workouts)-1]
		last.Exercises = append(last.Exercises, slot)
	}
	return p, rows.Err()
}

// ListPlanIDs returns all plan ids for a user, oldest first.
func ListPlanIDs(db *sql.DB, userID int64) ([]int64, error) {
	rows, err := db.Query(`SELECT id FROM plans WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("models: list plans for user %d: %w", userID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("models: scan plan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
