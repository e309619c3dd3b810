package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Questionnaire captures one intake response. Plans are generated from the
// most recent response and keep a reference back to it.
type Questionnaire struct {
	ID                     int64
	UserID                 int64
	Goals                  string
	ExperienceLevel        string
	ScheduleDays           int
	EquipmentAvailable     string
	SessionDurationMinutes sql.NullInt64
	TrainingDaysOfWeek     []int
	FocusAreas             []string
	InjuriesConstraints    sql.NullString
	ExcludedPatterns       []string
	SplitVariant           sql.NullString
	CreatedAt              time.Time
}

// CreateQuestionnaire persists a response and updates the user's smallest
// equipment increment in one transaction. Returns the new response id.
func CreateQuestionnaire(db *sql.DB, q *Questionnaire, smallestIncrement float64) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("models: begin questionnaire tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE users SET smallest_increment = ? WHERE id = ?`,
		smallestIncrement, q.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("models: update increment for user %d: %w", q.UserID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, ErrUserNotFound
	}

	result, err = tx.Exec(
		`INSERT INTO questionnaire_responses
		   (user_id, goals, experience_level, schedule_days, equipment_available,
		    session_duration_minutes, training_days_of_week, focus_areas,
		    injuries_constraints, excluded_patterns, split_variant)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.UserID, q.Goals, q.ExperienceLevel, q.ScheduleDays, q.EquipmentAvailable,
		q.SessionDurationMinutes, joinInts(q.TrainingDaysOfWeek), strings.Join(q.FocusAreas, ","),
		q.InjuriesConstraints, strings.Join(q.ExcludedPatterns, ","), q.SplitVariant,
	)
	if err != nil {
		return 0, fmt.Errorf("models: insert questionnaire for user %d: %w", q.UserID, err)
	}
	id, _ := result.LastInsertId()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("models: commit questionnaire: %w", err)
	}
	return id, nil
}

// GetQuestionnaireByID retrieves a response by primary key.
func GetQuestionnaireByID(db *sql.DB, id int64) (*Questionnaire, error) {
	q := &Questionnaire{ID: id}
	var trainingDays, focusAreas, excludedPatterns sql.NullString
	err := db.QueryRow(
		`SELECT user_id, goals, experience_level, schedule_days, equipment_available,
		        session_duration_minutes, training_days_of_week, focus_areas,
		        injuries_constraints, excluded_patterns, split_variant, created_at
		 FROM questionnaire_responses WHERE id = ?`, id,
	).Scan(&q.UserID, &q.Goals, &q.ExperienceLevel, &q.ScheduleDays, &q.EquipmentAvailable,
		&q.SessionDurationMinutes, &trainingDays, &focusAreas,
		&q.InjuriesConstraints, &excludedPatterns, &q.SplitVariant, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuestionnaireNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("models: get questionnaire %d: %w", id, err)
	}

	if trainingDays.Valid {
		days, err := splitInts(trainingDays.String)
		if err != nil {
			return nil, fmt.Errorf("models: questionnaire %d training days %q: %w", id, trainingDays.String, err)
		}
		q.TrainingDaysOfWeek = days
	}
	if focusAreas.Valid {
		q.FocusAreas = splitCSV(focusAreas.String)
	}
	if excludedPatterns.Valid {
		q.ExcludedPatterns = splitCSV(excludedPatterns.String)
	}
	return q, nil
}

// LatestQuestionnaireID returns the most recent response id for a user, or
// ErrQuestionnaireNotFound if none exists.
func LatestQuestionnaireID(db *sql.DB, userID int64) (int64, error) {
	var id int64
	err := db.QueryRow(
		`SELECT id FROM questionnaire_responses WHERE user_id = ? ORDER BY id DESC LIMIT 1`,
		userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrQuestionnaireNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("models: latest questionnaire for user %d: %w", userID, err)
	}
	return id, nil
}
