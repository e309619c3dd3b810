package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carpenike/liftplan/internal/export"
	"github.com/carpenike/liftplan/internal/models"
	"github.com/carpenike/liftplan/internal/notify"
	"github.com/carpenike/liftplan/internal/planner"
)

// Plans holds dependencies for plan handlers.
type Plans struct {
	DB       *sql.DB
	Notifier *notify.Notifier
}

type generateRequest struct {
	QuestionnaireID *int64  `json:"questionnaire_id"`
	Weeks           *int    `json:"weeks"`
	StartDate       *string `json:"start_date"`
	Name            *string `json:"name"`
}

// Generate runs the full plan-generation pipeline for a questionnaire.
func (h *Plans) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuestionnaireID == nil {
		writeError(w, http.StatusBadRequest, "questionnaire_id is required")
		return
	}
	if *req.QuestionnaireID <= 0 {
		writeError(w, http.StatusBadRequest, "questionnaire_id must be positive")
		return
	}

	weeks := 4
	if req.Weeks != nil {
		weeks = *req.Weeks
	}
	if weeks <= 0 {
		writeError(w, http.StatusBadRequest, "weeks must be positive")
		return
	}

	startDate := time.Now()
	if req.StartDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be an ISO date")
			return
		}
		startDate = parsed
	}

	name := "Generated Plan"
	if req.Name != nil {
		name = *req.Name
	}

	planID, err := planner.Generate(h.DB, planner.Request{
		QuestionnaireID: *req.QuestionnaireID,
		Weeks:           weeks,
		StartDate:       startDate,
		Name:            name,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	h.Notifier.PlanGenerated(name, weeks)
	writeJSON(w, http.StatusOK, map[string]int64{"plan_id": planID})
}

// Show returns the full plan payload grouped by training day.
func (h *Plans) Show(w http.ResponseWriter, r *http.Request) {
	planID, ok := planIDParam(w, r)
	if !ok {
		return
	}

	plan, err := models.GetPlanPayload(h.DB, planID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// ExportPDF renders the plan as a printable PDF sheet.
func (h *Plans) ExportPDF(w http.ResponseWriter, r *http.Request) {
	planID, ok := planIDParam(w, r)
	if !ok {
		return
	}

	plan, err := models.GetPlanPayload(h.DB, planID)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=plan-%d.pdf", planID))
	if err := export.PlanPDF(w, plan); err != nil {
		handleError(w, err)
	}
}

// SwapOptions lists the conforming replacements for one plan slot.
func (h *Plans) SwapOptions(w http.ResponseWriter, r *http.Request) {
	planID, ok := planIDParam(w, r)
	if !ok {
		return
	}

	dayIndexStr := r.URL.Query().Get("day_index")
	sequenceStr := r.URL.Query().Get("sequence")
	if dayIndexStr == "" || sequenceStr == "" {
		writeError(w, http.StatusBadRequest, "day_index and sequence are required")
		return
	}
	dayIndex, err := strconv.Atoi(dayIndexStr)
	if err != nil || dayIndex < 0 {
		writeError(w, http.StatusBadRequest, "day_index must be non-negative")
		return
	}
	sequence, err := strconv.Atoi(sequenceStr)
	if err != nil || sequence <= 0 {
		writeError(w, http.StatusBadRequest, "sequence must be positive")
		return
	}

	options, err := planner.ListSwapOptions(h.DB, planID, dayIndex, sequence)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

type swapRequest struct {
	DayIndex   *int   `json:"day_index"`
	Sequence   *int   `json:"sequence"`
	ExerciseID *int64 `json:"exercise_id"`
}

// Swap replaces a plan slot's exercise with a validated alternative.
func (h *Plans) Swap(w http.ResponseWriter, r *http.Request) {
	planID, ok := planIDParam(w, r)
	if !ok {
		return
	}

	var req swapRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var missing []string
	if req.DayIndex == nil {
		missing = append(missing, "day_index")
	}
	if req.Sequence == nil {
		missing = append(missing, "sequence")
	}
	if req.ExerciseID == nil {
		missing = append(missing, "exercise_id")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		writeError(w, http.StatusBadRequest, "missing fields: "+strings.Join(missing, ", "))
		return
	}
	if *req.DayIndex < 0 {
		writeError(w, http.StatusBadRequest, "day_index must be non-negative")
		return
	}
	if *req.Sequence <= 0 {
		writeError(w, http.StatusBadRequest, "sequence must be positive")
		return
	}
	if *req.ExerciseID <= 0 {
		writeError(w, http.StatusBadRequest, "exercise_id must be positive")
		return
	}

	if err := planner.ApplySwap(h.DB, planID, *req.DayIndex, *req.Sequence, *req.ExerciseID); err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// planIDParam parses the {planID} route parameter. Writes a 400 on failure.
func planIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	planID, err := strconv.ParseInt(chi.URLParam(r, "planID"), 10, 64)
	if err != nil || planID <= 0 {
		writeError(w, http.StatusBadRequest, "plan_id must be positive")
		return 0, false
	}
	return planID, true
}
