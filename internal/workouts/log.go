package workouts

import (
	"database/sql"

	"github.com/carpenike/liftplan/internal/models"
)

// Log validates a session and persists it atomically. Exercise ids are
// resolved up front so a bad id fails the whole request before any write.
func Log(db *sql.DB, session models.SessionInput, setLogs []models.SetLogInput) (int64, error) {
	ids := make([]int64, 0, len(setLogs))
	for _, sl := range setLogs {
		ids = append(ids, sl.ExerciseID)
	}
	existing, err := models.ExistingExerciseIDs(db, ids)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if !existing[id] {
			return 0, models.ErrExerciseNotFound
		}
	}

	bodyweight, err := models.BodyweightExerciseIDs(db)
	if err != nil {
		return 0, err
	}
	if err := ValidateSession(session, setLogs, bodyweight); err != nil {
		return 0, err
	}
	return models.CreateSession(db, session, setLogs)
}

// AutoFill proposes set logs for an exercise by echoing the user's most
// recent non-skipped session for it. The initial-load marker is cleared:
// a prefilled set is a repeat, not a baseline.
func AutoFill(db *sql.DB, userID, exerciseID int64) ([]models.SetLogInput, error) {
	if _, err := models.GetExerciseByID(db, exerciseID); err != nil {
		return nil, err
	}
	sets, err := models.LatestSessionSets(db, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		sets[i].IsInitialLoad = false
	}
	return sets, nil
}
