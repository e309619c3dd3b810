package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carpenike/liftplan/internal/database"
	"github.com/carpenike/liftplan/internal/models"
	"github.com/carpenike/liftplan/internal/notify"
)

// testDB creates a fresh in-memory SQLite database with migrations applied.
func testDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestRouter wires every handler the way the server does, minus the
// middleware stack.
func newTestRouter(db *sql.DB) http.Handler {
	notifier := notify.New("")

	questionnaires := &Questionnaires{DB: db, Notifier: notifier}
	plans := &Plans{DB: db, Notifier: notifier}
	workoutsH := &Workouts{DB: db, Notifier: notifier}
	exercises := &Exercises{DB: db}
	progressionH := &Progression{DB: db}
	backups := &Backups{DB: db}

	r := chi.NewRouter()
	r.Post("/questionnaire", questionnaires.Create)
	r.Post("/plans/generate", plans.Generate)
	r.Get("/plans/{planID}", plans.Show)
	r.Get("/plans/{planID}/export.pdf", plans.ExportPDF)
	r.Get("/plans/{planID}/swap-options", plans.SwapOptions)
	r.Patch("/plans/{planID}/swap", plans.Swap)
	r.Post("/workouts", workoutsH.Create)
	r.Post("/workouts/sessions", workoutsH.StartSession)
	r.Get("/workouts/sessions", workoutsH.List)
	r.Post("/workouts/sessions/import", workoutsH.Import)
	r.Get("/workouts/autofill", workoutsH.Autofill)
	r.Get("/exercises", exercises.List)
	r.Get("/exercises/{exerciseID}/history", exercises.History)
	r.Get("/progression/recommendations", progressionH.Recommendations)
	r.Get("/backup", backups.Dump)
	return r
}

// doRequest runs one request through the router and returns the recorder.
func doRequest(t testing.TB, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into v.
func decodeBody(t testing.TB, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// wantError asserts the status code and {"error": message} envelope.
func wantError(t testing.TB, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Errorf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] != message {
		t.Errorf("error = %q, want %q", body["error"], message)
	}
}

func seedHandlerUser(t testing.TB, db *sql.DB) int64 {
	t.Helper()
	u, err := models.CreateUser(db, "lifter@local", 2.5)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

// seedHandlerLibrary loads the embedded exercise library.
func seedHandlerLibrary(t testing.TB, db *sql.DB) {
	t.Helper()
	if err := database.SeedExercises(db); err != nil {
		t.Fatalf("seed library: %v", err)
	}
}

// generatePlan runs the intake flow and returns (questionnaireID, planID).
func generatePlan(t testing.TB, db *sql.DB, h http.Handler, userID int64) (int64, int64) {
	t.Helper()
	body := `{"user_id": ` + jsonInt(userID) + `, "goals": "muscle_gain", "experience_level": "beginner",
		"schedule_days": 3, "equipment_available": "full_gym", "smallest_increment": 2.5}`
	w := doRequest(t, h, http.MethodPost, "/questionnaire", body)
	if w.Code != http.StatusOK {
		t.Fatalf("intake failed: %d %s", w.Code, w.Body.String())
	}
	var resp map[string]int64
	decodeBody(t, w, &resp)
	return resp["questionnaire_id"], resp["plan_id"]
}

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
