package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carpenike/liftplan/internal/models"
)

// Exercises holds dependencies for exercise library handlers.
type Exercises struct {
	DB *sql.DB
}

type exercisePayload struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	PrimaryMuscle   string `json:"primary_muscle"`
	Equipment       string `json:"equipment"`
	MovementPattern string `json:"movement_pattern"`
	Category        string `json:"category"`
	EquipmentID     string `json:"equipment_id"`
}

// List returns the whole exercise library, name ascending.
func (h *Exercises) List(w http.ResponseWriter, r *http.Request) {
	exercises, err := models.ListExercises(h.DB)
	if err != nil {
		handleError(w, err)
		return
	}

	payload := make([]exercisePayload, 0, len(exercises))
	for _, e := range exercises {
		payload = append(payload, exercisePayload{
			ID:              e.ID,
			Name:            e.Name,
			PrimaryMuscle:   e.PrimaryMuscle,
			Equipment:       e.Equipment,
			MovementPattern: e.MovementPattern,
			Category:        e.Category,
			EquipmentID:     e.EquipmentID,
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

const defaultHistorySessions = 5

// History returns the recent sessions, best sets, and baseline status for a
// (user, exercise) pair.
func (h *Exercises) History(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := strconv.ParseInt(chi.URLParam(r, "exerciseID"), 10, 64)
	if err != nil || exerciseID <= 0 {
		writeError(w, http.StatusBadRequest, "exercise_id must be positive")
		return
	}
	userID := queryInt64(r, "user_id", 1)

	limit := int(queryInt64(r, "limit", defaultHistorySessions))
	if limit <= 0 {
		limit = defaultHistorySessions
	}

	history, err := models.GetExerciseHistory(h.DB, userID, exerciseID, limit)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
