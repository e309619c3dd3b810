package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Exercise is a movement in the seeded library.
type Exercise struct {
	ID              int64
	Name            string
	PrimaryMuscle   string
	Equipment       string
	MovementPattern string
	Category        string
	EquipmentID     string
}

const exerciseColumns = `id, name, primary_muscle, equipment, movement_pattern, category, equipment_id`

func scanExercise(row interface{ Scan(...any) error }) (*Exercise, error) {
	e := &Exercise{}
	err := row.Scan(&e.ID, &e.Name, &e.PrimaryMuscle, &e.Equipment, &e.MovementPattern, &e.Category, &e.EquipmentID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetExerciseByID retrieves an exercise by primary key.
func GetExerciseByID(db *sql.DB, id int64) (*Exercise, error) {
	e, err := scanExercise(db.QueryRow(
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("models: get exercise %d: %w", id, err)
	}
	return e, nil
}

// ListExercises returns the whole library ordered by name.
func ListExercises(db *sql.DB) ([]*Exercise, error) {
	rows, err := db.Query(`SELECT ` + exerciseColumns + ` FROM exercises ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("models: list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("models: scan exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// ExercisePool returns library entries matching any of the given movement
// patterns and any of the allowed equipment ids, ordered by name. Inputs are
// deduplicated; an empty pattern or equipment list yields an empty pool.
func ExercisePool(db *sql.DB, patterns, equipmentIDs []string) ([]*Exercise, error) {
	patterns = dedupe(patterns)
	equipmentIDs = dedupe(equipmentIDs)
	if len(patterns) == 0 || len(equipmentIDs) == 0 {
		return []*Exercise{}, nil
	}

	query := `SELECT ` + exerciseColumns + ` FROM exercises
	          WHERE movement_pattern IN (` + placeholders(len(patterns)) + `)
	            AND equipment_id IN (` + placeholders(len(equipmentIDs)) + `)
	          ORDER BY name ASC`
	args := make([]any, 0, len(patterns)+len(equipmentIDs))
	for _, p := range patterns {
		args = append(args, p)
	}
	for _, eq := range equipmentIDs {
		args = append(args, eq)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("models: exercise pool: %w", err)
	}
	defer rows.Close()

	pool := []*Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("models: scan pool exercise: %w", err)
		}
		pool = append(pool, e)
	}
	return pool, rows.Err()
}

// ExistingExerciseIDs reports which of the given ids exist in the library.
func ExistingExerciseIDs(db *sql.DB, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	distinct := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	args := make([]any, len(distinct))
	for i, id := range distinct {
		args[i] = id
	}
	rows, err := db.Query(
		`SELECT id FROM exercises WHERE id IN (`+placeholders(len(distinct))+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("models: existing exercise ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("models: scan exercise id: %w", err)
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// BodyweightExerciseIDs returns the ids of exercises loaded by bodyweight
// alone. Set validation allows zero weight only for these.
func BodyweightExerciseIDs(db *sql.DB) (map[int64]bool, error) {
	rows, err := db.Query(`SELECT id FROM exercises WHERE equipment_id = 'bodyweight'`)
	if err != nil {
		return nil, fmt.Errorf("models: bodyweight exercise ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("models: scan bodyweight id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// ExerciseIDsByName resolves exercise names to ids, case-insensitively.
// The returned map is keyed by lowercased name; unknown names are absent.
func ExerciseIDsByName(db *sql.DB, names []string) (map[string]int64, error) {
	resolved := make(map[string]int64, len(names))
	if len(names) == 0 {
		return resolved, nil
	}

	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(n)))
	}
	lowered = dedupe(lowered)

	args := make([]any, len(lowered))
	for i, n := range lowered {
		args[i] = n
	}
	rows, err := db.Query(
		`SELECT id, name FROM exercises WHERE LOWER(name) IN (`+placeholders(len(lowered))+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("models: exercise ids by name: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("models: scan exercise name: %w", err)
		}
		resolved[strings.ToLower(name)] = id
	}
	return resolved, rows.Err()
}
