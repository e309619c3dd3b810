package models

import (
	"database/sql"
	"fmt"
)

// SessionInput describes a workout session to be logged.
type SessionInput struct {
	UserID           int64
	TemplateID       *int64
	PerformedAt      string
	DurationMinutes  *int
	Notes            string
	CompletionStatus string
	ManualAuditFlag  bool

	// Optional back-link to the plan day this session fulfilled.
	PlanID       *int64
	PlanDayIndex *int
}

// SetLogInput is one set within a session being logged. RPE and RestSeconds
// are pointers so the validator can tell "absent" from zero.
type SetLogInput struct {
	ExerciseID    int64
	SetNumber     int
	Reps          int
	Weight        float64
	RPE           *float64
	RestSeconds   *int
	IsInitialLoad bool
}

// CreateSession persists a session, its optional plan link, and all set logs
// in one transaction. Validation happens before this call; a store error here
// leaves no rows behind.
func CreateSession(db *sql.DB, session SessionInput, setLogs []SetLogInput) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("models: begin session tx: %w", err)
	}
	defer tx.Rollback()

	var templateID sql.NullInt64
	if session.TemplateID != nil {
		templateID = sql.NullInt64{Int64: *session.TemplateID, Valid: true}
	}
	result, err := tx.Exec(
		`INSERT INTO workout_sessions
		   (user_id, template_id, performed_at, duration_minutes, notes, completion_status, manual_audit_flag)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.UserID, templateID, session.PerformedAt, intToNull(session.DurationMinutes),
		stringToNull(session.Notes), session.CompletionStatus, session.ManualAuditFlag,
	)
	if err != nil {
		return 0, fmt.Errorf("models: insert session for user %d: %w", session.UserID, err)
	}
	sessionID, _ := result.LastInsertId()

	if session.PlanID != nil && session.PlanDayIndex != nil {
		if _, err := tx.Exec(
			`INSERT INTO workout_session_plans (session_id, plan_id, day_index) VALUES (?, ?, ?)`,
			sessionID, *session.PlanID, *session.PlanDayIndex,
		); err != nil {
			return 0, fmt.Errorf("models: link session %d to plan %d: %w", sessionID, *session.PlanID, err)
		}
	}

	for _, sl := range setLogs {
		if _, err := tx.Exec(
			`INSERT INTO set_logs
			   (session_id, exercise_id, set_number, reps, weight, rpe, rest_seconds, is_initial_load)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionID, sl.ExerciseID, sl.SetNumber, sl.Reps, sl.Weight,
			floatToNull(sl.RPE), intToNull(sl.RestSeconds), sl.IsInitialLoad,
		); err != nil {
			return 0, fmt.Errorf("models: insert set log %d for session %d: %w", sl.SetNumber, sessionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("models: commit session: %w", err)
	}
	return sessionID, nil
}

// SessionPayload is the client-facing view of a logged session.
type SessionPayload struct {
	ID               int64           `json:"id"`
	PerformedAt      string          `json:"performed_at"`
	DurationMinutes  *int            `json:"duration_minutes"`
	Notes            *string         `json:"notes"`
	CompletionStatus string          `json:"completion_status"`
	ManualAuditFlag  bool            `json:"manual_audit_flag"`
	SetLogs          []SetLogPayload `json:"set_logs"`
}

// SetLogPayload is one set within a session payload, with the exercise name
// joined in for display.
type SetLogPayload struct {
	ExerciseID    int64    `json:"exercise_id"`
	ExerciseName  string   `json:"exercise_name"`
	SetNumber     int      `json:"set_number"`
	Reps          int      `json:"reps"`
	Weight        *float64 `json:"weight"`
	RPE           *float64 `json:"rpe"`
	RestSeconds   *int     `json:"rest_seconds"`
	IsInitialLoad bool     `json:"is_initial_load"`
}

// ListSessionsWithSets returns a user's sessions newest first, each with its
// set logs in set_number order.
func ListSessionsWithSets(db *sql.DB, userID int64) ([]SessionPayload, error) {
	rows, err := db.Query(
		`SELECT id, performed_at, duration_minutes, notes, completion_status, manual_audit_flag
		 FROM workout_sessions
		 WHERE user_id = ?
		 ORDER BY performed_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("models: list sessions for user %d: %w", userID, err)
	}
	defer rows.Close()

	sessions := []SessionPayload{}
	index := make(map[int64]int)
	var ids []any
	for rows.Next() {
		var (
			s        SessionPayload
			duration sql.NullInt64
			notes    sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.PerformedAt, &duration, &notes, &s.CompletionStatus, &s.ManualAuditFlag); err != nil {
			return nil, fmt.Errorf("models: scan session: %w", err)
		}
		s.DurationMinutes = nullIntPtr(duration)
		s.Notes = nullStringPtr(notes)
		s.SetLogs = []SetLogPayload{}
		index[s.ID] = len(sessions)
		sessions = append(sessions, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return sessions, nil
	}

	setRows, err := db.Query(
		`SELECT sl.session_id, sl.exercise_id, ex.name, sl.set_number, sl.reps,
		        sl.weight, sl.rpe, sl.rest_seconds, sl.is_initial_load
		 FROM set_logs sl
		 JOIN exercises ex ON ex.id = sl.exercise_id
		 WHERE sl.session_id IN (`+placeholders(len(ids))+`)
		 ORDER BY sl.session_id DESC, sl.set_number ASC`, ids...,
	)
	if err != nil {
		return nil, fmt.Errorf("models: list set logs: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var (
			sessionID int64
			sl        SetLogPayload
			weight    sql.NullFloat64
			rpe       sql.NullFloat64
			rest      sql.NullInt64
		)
		if err := setRows.Scan(&sessionID, &sl.ExerciseID, &sl.ExerciseName, &sl.SetNumber, &sl.Reps,
			&weight, &rpe, &rest, &sl.IsInitialLoad); err != nil {
			return nil, fmt.Errorf("models: scan set log: %w", err)
		}
		sl.Weight = nullFloatPtr(weight)
		sl.RPE = nullFloatPtr(rpe)
		sl.RestSeconds = nullIntPtr(rest)
		if i, ok := index[sessionID]; ok {
			sessions[i].SetLogs = append(sessions[i].SetLogs, sl)
		}
	}
	return sessions, setRows.Err()
}

// LatestPerformance returns the weight of the most recent non-skipped,
// weight-recorded set for a (user, exercise) pair, or nil if none exists.
// Plan generation uses this to decide between carry-over and initial loads.
func LatestPerformance(db *sql.DB, userID, exerciseID int64) (*float64, error) {
	var weight float64
	err := db.QueryRow(
		`SELECT sl.weight
		 FROM set_logs sl
		 JOIN workout_sessions ws ON ws.id = sl.session_id
		 WHERE ws.user_id = ? AND sl.exercise_id = ?
		   AND ws.completion_status != 'skipped'
		   AND sl.weight IS NOT NULL
		 ORDER BY ws.performed_at DESC, sl.set_number ASC
		 LIMIT 1`, userID, exerciseID,
	).Scan(&weight)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("models: latest performance user %d exercise %d: %w", userID, exerciseID, err)
	}
	return &weight, nil
}

// LatestSessionSets returns the set logs of the most recent non-skipped
// session in which the exercise appears, ordered by set_number.
func LatestSessionSets(db *sql.DB, userID, exerciseID int64) ([]SetLogInput, error) {
	var sessionID int64
	err := db.QueryRow(
		`SELECT ws.id
		 FROM workout_sessions ws
		 JOIN set_logs sl ON sl.session_id = ws.id
		 WHERE ws.user_id = ? AND sl.exercise_id = ?
		   AND ws.completion_status != 'skipped'
		 ORDER BY ws.performed_at DESC
		 LIMIT 1`, userID, exerciseID,
	).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return []SetLogInput{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("models: latest session user %d exercise %d: %w", userID, exerciseID, err)
	}

	rows, err := db.Query(
		`SELECT exercise_id, set_number, reps, weight, rpe, rest_seconds, is_initial_load
		 FROM set_logs
		 WHERE session_id = ? AND exercise_id = ?
		 ORDER BY set_number ASC`, sessionID, exerciseID,
	)
	if err != nil {
		return nil, fmt.Errorf("models: set logs for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	sets := []SetLogInput{}
	for rows.Next() {
		var (
			sl     SetLogInput
			weight sql.NullFloat64
			rpe    sql.NullFloat64
			rest   sql.NullInt64
		)
		if err := rows.Scan(&sl.ExerciseID, &sl.SetNumber, &sl.Reps, &weight, &rpe, &rest, &sl.IsInitialLoad); err != nil {
			return nil, fmt.Errorf("models: scan latest set: %w", err)
		}
		if weight.Valid {
			sl.Weight = weight.Float64
		}
		sl.RPE = nullFloatPtr(rpe)
		sl.RestSeconds = nullIntPtr(rest)
		sets = append(sets, sl)
	}
	return sets, rows.Err()
}

// PruneSkippedSessions deletes skipped sessions performed before the cutoff
// (an ISO-8601 timestamp). Skipped sessions carry no set logs and never feed
// progression, so removing old ones is safe.
func PruneSkippedSessions(db *sql.DB, cutoff string) (int64, error) {
	result, err := db.Exec(
		`DELETE FROM workout_sessions WHERE completion_status = 'skipped' AND performed_at < ?`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("models: prune skipped sessions: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
