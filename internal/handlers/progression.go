package handlers

import (
	"database/sql"
	"net/http"

	"github.com/carpenike/liftplan/internal/progression"
)

// Progression holds dependencies for recommendation handlers.
type Progression struct {
	DB *sql.DB
}

// Recommendations returns the next-load recommendation for a (user, exercise)
// pair based on recent logged history.
func (h *Progression) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := queryInt64(r, "user_id", 0)
	exerciseID := queryInt64(r, "exercise_id", 0)
	if userID <= 0 || exerciseID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id and exercise_id are required")
		return
	}

	recommendation, err := progression.RecommendNextLoad(h.DB, userID, exerciseID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendation)
}
