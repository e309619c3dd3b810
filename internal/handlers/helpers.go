// Package handlers implements the JSON HTTP API.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/carpenike/liftplan/internal/models"
	"github.com/carpenike/liftplan/internal/planner"
	"github.com/carpenike/liftplan/internal/units"
	"github.com/carpenike/liftplan/internal/workouts"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handlers: encode response: %v", err)
	}
}

// writeError writes the {"error": message} envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

var notFoundErrors = []error{
	models.ErrPlanNotFound,
	models.ErrPlannedExerciseNotFound,
	models.ErrQuestionnaireNotFound,
}

// handleError maps a domain or store error onto the wire: 404 for missing
// resources, 400 for validation and domain failures, 500 for store faults.
// Domain sentinels carry their stable code (or pinned message) as Error().
func handleError(w http.ResponseWriter, err error) {
	for _, notFound := range notFoundErrors {
		if errors.Is(err, notFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
	}
	if planner.IsDomainError(err) || workouts.IsValidationError(err) ||
		errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrExerciseNotFound) ||
		errors.Is(err, units.ErrInvalidIncrement) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("handlers: %v", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON decodes the request body into v. A malformed body is a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
