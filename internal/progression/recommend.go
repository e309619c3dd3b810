package progression

import (
	"database/sql"

	"github.com/carpenike/liftplan/internal/models"
)

// RecommendNextLoad loads the recent history, the user's smallest increment,
// and the exercise metadata, then runs the decision table.
func RecommendNextLoad(db *sql.DB, userID, exerciseID int64) (*Recommendation, error) {
	history, err := models.GetExerciseHistory(db, userID, exerciseID, HistoryLimit)
	if err != nil {
		return nil, err
	}
	smallestIncrement, err := models.GetUserSmallestIncrement(db, userID)
	if err != nil {
		return nil, err
	}
	exercise, err := models.GetExerciseByID(db, exerciseID)
	if err != nil {
		return nil, err
	}
	return Recommend(history.RecentSessions, smallestIncrement, exercise)
}
