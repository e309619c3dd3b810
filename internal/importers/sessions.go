// Package importers parses workout session exports into loggable sessions.
package importers

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carpenike/liftplan/internal/models"
	"github.com/carpenike/liftplan/internal/workouts"
)

// Session CSV columns.
const (
	colPerformedAt = "performed_at"
	colExercise    = "exercise"
	colSetNumber   = "set_number"
	colReps        = "reps"
	colWeight      = "weight"
	colRPE         = "rpe"
	colRestSeconds = "rest_seconds"
)

// ParsedSession is one workout grouped out of an import file, with exercise
// names still unresolved.
type ParsedSession struct {
	PerformedAt string
	Sets        []ParsedSet
}

// ParsedSet is a single set row from an import file.
type ParsedSet struct {
	Exercise    string
	SetNumber   int
	Reps        int
	Weight      float64
	RPE         *float64
	RestSeconds *int
}

// ParseSessionCSV parses a session export. Rows sharing a performed_at
// timestamp form one session, in first-appearance order.
func ParseSessionCSV(r io.Reader) ([]ParsedSession, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importers: read session csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("importers: session csv has no data rows")
	}

	header := records[0]
	idx := make(map[string]int)
	for i, col := range header {
		idx[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, required := range []string{colPerformedAt, colExercise, colSetNumber, colReps, colWeight} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("importers: session csv missing required column %q", required)
		}
	}

	sessionMap := make(map[string]*ParsedSession)
	order := []string{}

	for _, row := range records[1:] {
		performedAt := colVal(row, idx, colPerformedAt)
		exercise := colVal(row, idx, colExercise)
		if performedAt == "" || exercise == "" {
			continue
		}

		ps, exists := sessionMap[performedAt]
		if !exists {
			ps = &ParsedSession{PerformedAt: performedAt}
			sessionMap[performedAt] = ps
			order = append(order, performedAt)
		}

		set := ParsedSet{Exercise: exercise}
		if v := colVal(row, idx, colSetNumber); v != "" {
			set.SetNumber, _ = strconv.Atoi(v)
		} else {
			set.SetNumber = len(ps.Sets) + 1
		}
		if v := colVal(row, idx, colReps); v != "" {
			set.Reps, _ = strconv.Atoi(v)
		}
		if v := colVal(row, idx, colWeight); v != "" {
			set.Weight, _ = strconv.ParseFloat(v, 64)
		}
		if v := colVal(row, idx, colRPE); v != "" {
			if rpe, err := strconv.ParseFloat(v, 64); err == nil {
				set.RPE = &rpe
			}
		}
		if v := colVal(row, idx, colRestSeconds); v != "" {
			if rest, err := strconv.Atoi(v); err == nil {
				set.RestSeconds = &rest
			}
		}
		ps.Sets = append(ps.Sets, set)
	}

	sessions := make([]ParsedSession, 0, len(order))
	for _, key := range order {
		sessions = append(sessions, *sessionMap[key])
	}
	return sessions, nil
}

// ImportSessions resolves exercise names and logs each parsed session through
// the standard validation path. Every session is inserted atomically; the
// first failure aborts the import, leaving earlier sessions in place.
func ImportSessions(db *sql.DB, userID int64, sessions []ParsedSession) ([]int64, error) {
	var names []string
	for _, ps := range sessions {
		for _, set := range ps.Sets {
			names = append(names, set.Exercise)
		}
	}
	idsByName, err := models.ExerciseIDsByName(db, names)
	if err != nil {
		return nil, err
	}

	var sessionIDs []int64
	for _, ps := range sessions {
		setLogs := make([]models.SetLogInput, 0, len(ps.Sets))
		for _, set := range ps.Sets {
			exerciseID, ok := idsByName[strings.ToLower(strings.TrimSpace(set.Exercise))]
			if !ok {
				return sessionIDs, models.ErrExerciseNotFound
			}
			setLogs = append(setLogs, models.SetLogInput{
				ExerciseID:  exerciseID,
				SetNumber:   set.SetNumber,
				Reps:        set.Reps,
				Weight:      set.Weight,
				RPE:         set.RPE,
				RestSeconds: set.RestSeconds,
			})
		}
		sessionID, err := workouts.Log(db, models.SessionInput{
			UserID:           userID,
			PerformedAt:      ps.PerformedAt,
			CompletionStatus: "completed",
		}, setLogs)
		if err != nil {
			return sessionIDs, err
		}
		sessionIDs = append(sessionIDs, sessionID)
	}
	return sessionIDs, nil
}

func colVal(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
