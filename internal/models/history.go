package models

import (
	"database/sql"
	"fmt"
)

// HistorySet is one set log inside an exercise history payload.
type HistorySet struct {
	SessionID     int64    `json:"session_id"`
	ExerciseID    int64    `json:"exercise_id"`
	SetNumber     int      `json:"set_number"`
	Reps          int      `json:"reps"`
	Weight        *float64 `json:"weight"`
	RPE           *float64 `json:"rpe"`
	RestSeconds   *int     `json:"rest_seconds"`
	IsInitialLoad bool     `json:"is_initial_load"`
}

// HistorySession is one recent session for a (user, exercise) pair.
type HistorySession struct {
	SessionID        int64        `json:"session_id"`
	PerformedAt      string       `json:"performed_at"`
	DurationMinutes  *int         `json:"duration_minutes"`
	Notes            *string      `json:"notes"`
	CompletionStatus string       `json:"completion_status"`
	ManualAuditFlag  bool         `json:"manual_audit_flag"`
	Sets             []HistorySet `json:"sets"`
}

// BestSet is a top recorded set, ranked by weight, then reps, then RPE.
type BestSet struct {
	SessionID   int64    `json:"session_id"`
	PerformedAt string   `json:"performed_at"`
	SetNumber   int      `json:"set_number"`
	Reps        int      `json:"reps"`
	Weight      *float64 `json:"weight"`
	RPE         *float64 `json:"rpe"`
	RestSeconds *int     `json:"rest_seconds"`
}

// History is the full history payload for a (user, exercise) pair.
type History struct {
	RecentSessions      []HistorySession `json:"recent_sessions"`
	BestSets            []BestSet        `json:"best_sets"`
	BaselineEstablished bool             `json:"baseline_established"`
	BaselineStatus      string           `json:"baseline_status"`
}

const bestSetLimit = 3

// GetExerciseHistory reconstructs the last limitSessions sessions (newest
// first) in which the exercise was logged, the top sets across all time, and
// whether a baseline initial-load set exists.
func GetExerciseHistory(db *sql.DB, userID, exerciseID int64, limitSessions int) (*History, error) {
	history := &History{
		RecentSessions: []HistorySession{},
		BestSets:       []BestSet{},
	}

	rows, err := db.Query(
		`SELECT ws.id, ws.performed_at, ws.duration_minutes, ws.notes, ws.completion_status, ws.manual_audit_flag
		 FROM workout_sessions ws
		 JOIN set_logs sl ON sl.session_id = ws.id
		 WHERE ws.user_id = ? AND sl.exercise_id = ?
		 GROUP BY ws.id
		 ORDER BY ws.performed_at DESC
		 LIMIT ?`, userID, exerciseID, limitSessions,
	)
	if err != nil {
		return nil, fmt.Errorf("models: recent sessions user %d exercise %d: %w", userID, exerciseID, err)
	}
	defer rows.Close()

	index := make(map[int64]int)
	var ids []any
	for rows.Next() {
		var (
			s        HistorySession
			duration sql.NullInt64
			notes    sql.NullString
		)
		if err := rows.Scan(&s.SessionID, &s.PerformedAt, &duration, &notes, &s.CompletionStatus, &s.ManualAuditFlag); err != nil {
			return nil, fmt.Errorf("models: scan history session: %w", err)
		}
		s.DurationMinutes = nullIntPtr(duration)
		s.Notes = nullStringPtr(notes)
		s.Sets = []HistorySet{}
		index[s.SessionID] = len(history.RecentSessions)
		history.RecentSessions = append(history.RecentSessions, s)
		ids = append(ids, s.SessionID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		args := append([]any{exerciseID}, ids...)
		setRows, err := db.Query(
			`SELECT session_id, exercise_id, set_number, reps, weight, rpe, rest_seconds, is_initial_load
			 FROM set_logs
			 WHERE exercise_id = ? AND session_id IN (`+placeholders(len(ids))+`)
			 ORDER BY session_id DESC, set_number ASC`, args...,
		)
		if err != nil {
			return nil, fmt.Errorf("models: history set logs: %w", err)
		}
		defer setRows.Close()

		for setRows.Next() {
			var (
				hs     HistorySet
				weight sql.NullFloat64
				rpe    sql.NullFloat64
				rest   sql.NullInt64
			)
			if err := setRows.Scan(&hs.SessionID, &hs.ExerciseID, &hs.SetNumber, &hs.Reps,
				&weight, &rpe, &rest, &hs.IsInitialLoad); err != nil {
				return nil, fmt.Errorf("models: scan history set: %w", err)
			}
			hs.Weight = nullFloatPtr(weight)
			hs.RPE = nullFloatPtr(rpe)
			hs.RestSeconds = nullIntPtr(rest)
			if i, ok := index[hs.SessionID]; ok {
				history.RecentSessions[i].Sets = append(history.RecentSessions[i].Sets, hs)
			}
		}
		if err := setRows.Err(); err != nil {
			return nil, err
		}
	}

	bestRows, err := db.Query(
		`SELECT ws.id, ws.performed_at, sl.set_number, sl.reps, sl.weight, sl.rpe, sl.rest_seconds
		 FROM set_logs sl
		 JOIN workout_sessions ws ON ws.id = sl.session_id
		 WHERE ws.user_id = ? AND sl.exercise_id = ?
		 ORDER BY sl.weight DESC, sl.reps DESC, sl.rpe DESC
		 LIMIT ?`, userID, exerciseID, bestSetLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("models: best sets user %d exercise %d: %w", userID, exerciseID, err)
	}
	defer bestRows.Close()

	for bestRows.Next() {
		var (
			bs     BestSet
			weight sql.NullFloat64
			rpe    sql.NullFloat64
			rest   sql.NullInt64
		)
		if err := bestRows.Scan(&bs.SessionID, &bs.PerformedAt, &bs.SetNumber, &bs.Reps, &weight, &rpe, &rest); err != nil {
			return nil, fmt.Errorf("models: scan best set: %w", err)
		}
		bs.Weight = nullFloatPtr(weight)
		bs.RPE = nullFloatPtr(rpe)
		bs.RestSeconds = nullIntPtr(rest)
		history.BestSets = append(history.BestSets, bs)
	}
	if err := bestRows.Err(); err != nil {
		return nil, err
	}

	var one int
	err = db.QueryRow(
		`SELECT 1
		 FROM set_logs sl
		 JOIN workout_sessions ws ON ws.id = sl.session_id
		 WHERE ws.user_id = ? AND sl.exercise_id = ? AND sl.is_initial_load = 1
		 LIMIT 1`, userID, exerciseID,
	).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("models: baseline check user %d exercise %d: %w", userID, exerciseID, err)
	}
	history.BaselineEstablished = err == nil
	if history.BaselineEstablished {
		history.BaselineStatus = "established"
	} else {
		history.BaselineStatus = "pending"
	}

	return history, nil
}
