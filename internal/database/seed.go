package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed library.md
var exerciseLibrary string

// seedBatchSize is how many exercises are inserted per statement.
const seedBatchSize = 50

// ExerciseRow is one parsed line of the exercise library file.
type ExerciseRow struct {
	Name            string
	MovementPattern string
	PrimaryMuscle   string
	Equipment       string
	Category        string
	EquipmentID     string
}

// ParseLibrary reads the pipe-delimited exercise library. Blank lines, lines
// starting with #, lines without a pipe, and the header row (first field
// "Exercise") are skipped. Rows need at least eight fields:
// name | pattern | muscles | equipment | difficulty | alternatives | category | equipment_id.
func ParseLibrary(lines []string) []ExerciseRow {
	var rows []ExerciseRow
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		if !strings.Contains(stripped, "|") {
			continue
		}
		parts := strings.Split(stripped, "|")
		if len(parts) < 8 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] == "Exercise" {
			continue
		}
		rows = append(rows, ExerciseRow{
			Name:            parts[0],
			MovementPattern: parts[1],
			PrimaryMuscle:   parts[2],
			Equipment:       parts[3],
			Category:        parts[6],
			EquipmentID:     parts[7],
		})
	}
	return rows
}

// SeedExercises replaces the exercises table with the embedded library.
// The delete and all batched inserts run in one transaction.
func SeedExercises(db *sql.DB) error {
	rows := ParseLibrary(strings.Split(exerciseLibrary, "\n"))

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("database: begin seed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM exercises"); err != nil {
		return fmt.Errorf("database: clear exercises: %w", err)
	}

	for start := 0; start < len(rows); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		var (
			sb   strings.Builder
			args []any
		)
		sb.WriteString("INSERT INTO exercises (name, primary_muscle, equipment, movement_pattern, category, equipment_id) VALUES ")
		for i, row := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?, ?)")
			args = append(args, row.Name, row.PrimaryMuscle, row.Equipment, row.MovementPattern, row.Category, row.EquipmentID)
		}
		if _, err := tx.Exec(sb.String(), args...); err != nil {
			return fmt.Errorf("database: insert exercise batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("database: commit seed: %w", err)
	}
	return nil
}

// SeedExercisesIfEmpty seeds the library only when the table has no rows,
// so a restart never clobbers ids referenced by existing plans.
func SeedExercisesIfEmpty(db *sql.DB) (bool, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM exercises").Scan(&count); err != nil {
		return false, fmt.Errorf("database: count exercises: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := SeedExercises(db); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureDefaultUser creates user id 1 when it does not exist. The system
// assumes a single local user; id 1 is the implicit owner of everything.
func EnsureDefaultUser(db *sql.DB, email string, smallestIncrement float64) error {
	var one int
	err := db.QueryRow("SELECT 1 FROM users WHERE id = 1").Scan(&one)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("database: check default user: %w", err)
	}
	if _, err := db.Exec(
		"INSERT INTO users (id, email, smallest_increment) VALUES (1, ?, ?)",
		email, smallestIncrement,
	); err != nil {
		return fmt.Errorf("database: create default user: %w", err)
	}
	return nil
}
