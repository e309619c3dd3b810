package models

import (
	"database/sql"
	"fmt"
)

// BackupUser is one user row in a backup dump.
type BackupUser struct {
	ID                int64   `json:"id"`
	Email             string  `json:"email"`
	SmallestIncrement float64 `json:"smallest_increment"`
}

// BackupExercise is one library row in a backup dump.
type BackupExercise struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	PrimaryMuscle   string `json:"primary_muscle"`
	Equipment       string `json:"equipment"`
	MovementPattern string `json:"movement_pattern"`
	Category        string `json:"category"`
	EquipmentID     string `json:"equipment_id"`
}

// BackupQuestionnaire is one intake response in a backup dump.
type BackupQuestionnaire struct {
	ID                 int64    `json:"id"`
	UserID             int64    `json:"user_id"`
	Goals              string   `json:"goals"`
	ExperienceLevel    string   `json:"experience_level"`
	ScheduleDays       int      `json:"schedule_days"`
	EquipmentAvailable string   `json:"equipment_available"`
	TrainingDaysOfWeek []int    `json:"training_days_of_week"`
	FocusAreas         []string `json:"focus_areas"`
	ExcludedPatterns   []string `json:"excluded_patterns"`
	SplitVariant       *string  `json:"split_variant"`
}

// Backup is a full JSON dump of the store for local-first safekeeping.
type Backup struct {
	Users          []BackupUser          `json:"users"`
	Exercises      []BackupExercise      `json:"exercises"`
	Questionnaires []BackupQuestionnaire `json:"questionnaires"`
	Plans          []PlanPayload         `json:"plans"`
	Sessions       []SessionPayload      `json:"sessions"`
}

// DumpBackup assembles the whole store into one serialisable structure.
// Reads are plain snapshots; the dump is advisory, not transactional.
func DumpBackup(db *sql.DB) (*Backup, error) {
	backup := &Backup{
		Users:          []BackupUser{},
		Exercises:      []BackupExercise{},
		Questionnaires: []BackupQuestionnaire{},
		Plans:          []PlanPayload{},
		Sessions:       []SessionPayload{},
	}

	userRows, err := db.Query(`SELECT id, email, smallest_increment FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("models: dump users: %w", err)
	}
	defer userRows.Close()
	var userIDs []int64
	for userRows.Next() {
		var u BackupUser
		if err := userRows.Scan(&u.ID, &u.Email, &u.SmallestIncrement); err != nil {
			return nil, fmt.Errorf("models: scan backup user: %w", err)
		}
		backup.Users = append(backup.Users, u)
		userIDs = append(userIDs, u.ID)
	}
	if err := userRows.Err(); err != nil {
		return nil, err
	}

	exRows, err := db.Query(`SELECT ` + exerciseColumns + ` FROM exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("models: dump exercises: %w", err)
	}
	defer exRows.Close()
	for exRows.Next() {
		var e BackupExercise
		if err := exRows.Scan(&e.ID, &e.Name, &e.PrimaryMuscle, &e.Equipment, &e.MovementPattern, &e.Category, &e.EquipmentID); err != nil {
			return nil, fmt.Errorf("models: scan backup exercise: %w", err)
		}
		backup.Exercises = append(backup.Exercises, e)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	qRows, err := db.Query(
		`SELECT id, user_id, goals, experience_level, schedule_days, equipment_available,
		        training_days_of_week, focus_areas, excluded_patterns, split_variant
		 FROM questionnaire_responses ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("models: dump questionnaires: %w", err)
	}
	defer qRows.Close()
	for qRows.Next() {
		var (
			q                          BackupQuestionnaire
			days, focus, excluded, spv sql.NullString
		)
		if err := qRows.Scan(&q.ID, &q.UserID, &q.Goals, &q.ExperienceLevel, &q.ScheduleDays,
			&q.EquipmentAvailable, &days, &focus, &excluded, &spv); err != nil {
			return nil, fmt.Errorf("models: scan backup questionnaire: %w", err)
		}
		q.TrainingDaysOfWeek = []int{}
		if days.Valid {
			parsed, err := splitInts(days.String)
			if err != nil {
				return nil, fmt.Errorf("models: backup questionnaire %d training days: %w", q.ID, err)
			}
			if parsed != nil {
				q.TrainingDaysOfWeek = parsed
			}
		}
		q.FocusAreas = []string{}
		if focus.Valid {
			q.FocusAreas = splitCSV(focus.String)
		}
		q.ExcludedPatterns = []string{}
		if excluded.Valid {
			q.ExcludedPatterns = splitCSV(excluded.String)
		}
		q.SplitVariant = nullStringPtr(spv)
		backup.Questionnaires = append(backup.Questionnaires, q)
	}
	if err := qRows.Err(); err != nil {
		return nil, err
	}

	for _, userID := range userIDs {
		planIDs, err := ListPlanIDs(db, userID)
		if err != nil {
			return nil, err
		}
		for _, planID := range planIDs {
			payload, err := GetPlanPayload(db, planID)
			if err != nil {
				return nil, err
			}
			backup.Plans = append(backup.Plans, *payload)
		}

		sessions, err := ListSessionsWithSets(db, userID)
		if err != nil {
			return nil, err
		}
		backup.Sessions = append(backup.Sessions, sessions...)
	}

	return backup, nil
}
