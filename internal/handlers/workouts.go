package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/carpenike/liftplan/internal/importers"
	"github.com/carpenike/liftplan/internal/models"
	"github.com/carpenike/liftplan/internal/notify"
	"github.com/carpenike/liftplan/internal/workouts"
)

// Workouts holds dependencies for session logging handlers.
type Workouts struct {
	DB       *sql.DB
	Notifier *notify.Notifier
}

type sessionRequest struct {
	UserID           int64           `json:"user_id"`
	TemplateID       *int64          `json:"template_id"`
	PerformedAt      string          `json:"performed_at"`
	DurationMinutes  *int            `json:"duration_minutes"`
	Notes            string          `json:"notes"`
	CompletionStatus string          `json:"completion_status"`
	ManualAuditFlag  bool            `json:"manual_audit_flag"`
	PlanID           *int64          `json:"plan_id"`
	PlanDayIndex     *int            `json:"plan_day_index"`
	SetLogs          []setLogRequest `json:"set_logs"`
}

type setLogRequest struct {
	ExerciseID    int64    `json:"exercise_id"`
	SetNumber     int      `json:"set_number"`
	Reps          int      `json:"reps"`
	Weight        float64  `json:"weight"`
	RPE           *float64 `json:"rpe"`
	RestSeconds   *int     `json:"rest_seconds"`
	IsInitialLoad bool     `json:"is_initial_load"`
}

func (req *sessionRequest) toInputs() (models.SessionInput, []models.SetLogInput) {
	session := models.SessionInput{
		UserID:           req.UserID,
		TemplateID:       req.TemplateID,
		PerformedAt:      req.PerformedAt,
		DurationMinutes:  req.DurationMinutes,
		Notes:            req.Notes,
		CompletionStatus: req.CompletionStatus,
		ManualAuditFlag:  req.ManualAuditFlag,
		PlanID:           req.PlanID,
		PlanDayIndex:     req.PlanDayIndex,
	}
	setLogs := make([]models.SetLogInput, 0, len(req.SetLogs))
	for _, sl := range req.SetLogs {
		setLogs = append(setLogs, models.SetLogInput{
			ExerciseID:    sl.ExerciseID,
			SetNumber:     sl.SetNumber,
			Reps:          sl.Reps,
			Weight:        sl.Weight,
			RPE:           sl.RPE,
			RestSeconds:   sl.RestSeconds,
			IsInitialLoad: sl.IsInitialLoad,
		})
	}
	return session, setLogs
}

// Create validates and logs a completed session.
func (h *Workouts) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.logSession(w, &req)
}

// StartSession logs a session when set logs are present; without them it
// echoes the draft payload back with an id so clients can build up a session
// before committing it.
func (h *Workouts) StartSession(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if setLogs, ok := raw["set_logs"]; ok && string(setLogs) != "null" && string(setLogs) != "[]" {
		var req sessionRequest
		if err := decodeRaw(raw, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		h.logSession(w, &req)
		return
	}

	draft := make(map[string]any, len(raw)+1)
	for key, value := range raw {
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		draft[key] = v
	}
	if _, ok := draft["id"]; !ok {
		draft["id"] = time.Now().Unix()
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *Workouts) logSession(w http.ResponseWriter, req *sessionRequest) {
	session, setLogs := req.toInputs()
	sessionID, err := workouts.Log(h.DB, session, setLogs)
	if err != nil {
		handleError(w, err)
		return
	}
	h.Notifier.SessionLogged(session.PerformedAt, session.CompletionStatus, len(setLogs))
	writeJSON(w, http.StatusOK, map[string]int64{"session_id": sessionID})
}

// List returns a user's sessions newest first, with set logs attached.
func (h *Workouts) List(w http.ResponseWriter, r *http.Request) {
	userID := queryInt64(r, "user_id", 1)
	sessions, err := models.ListSessionsWithSets(h.DB, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Autofill proposes set logs copied from the latest logged session for an
// exercise, with the initial-load marker cleared.
func (h *Workouts) Autofill(w http.ResponseWriter, r *http.Request) {
	userID := queryInt64(r, "user_id", 1)
	exerciseID := queryInt64(r, "exercise_id", 0)
	if exerciseID <= 0 {
		writeError(w, http.StatusBadRequest, "exercise_id is required")
		return
	}

	sets, err := workouts.AutoFill(h.DB, userID, exerciseID)
	if err != nil {
		handleError(w, err)
		return
	}

	payload := make([]setLogRequest, 0, len(sets))
	for _, sl := range sets {
		payload = append(payload, setLogRequest{
			ExerciseID:    sl.ExerciseID,
			SetNumber:     sl.SetNumber,
			Reps:          sl.Reps,
			Weight:        sl.Weight,
			RPE:           sl.RPE,
			RestSeconds:   sl.RestSeconds,
			IsInitialLoad: sl.IsInitialLoad,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"set_logs": payload})
}

// Import parses a CSV session export from the request body and logs each
// grouped session through the standard validation path.
func (h *Workouts) Import(w http.ResponseWriter, r *http.Request) {
	userID := queryInt64(r, "user_id", 1)

	parsed, err := importers.ParseSessionCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionIDs, err := importers.ImportSessions(h.DB, userID, parsed)
	if err != nil {
		handleError(w, err)
		return
	}
	if sessionIDs == nil {
		sessionIDs = []int64{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_ids": sessionIDs})
}

// decodeRaw re-marshals a decoded JSON object into a typed request.
func decodeRaw(raw map[string]json.RawMessage, v any) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, v)
}

// queryInt64 parses an integer query parameter, falling back to a default.
func queryInt64(r *http.Request, name string, fallback int64) int64 {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
