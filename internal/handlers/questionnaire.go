package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/carpenike/liftplan/internal/models"
	"github.com/carpenike/liftplan/internal/notify"
	"github.com/carpenike/liftplan/internal/planner"
)

var snakeCasePattern = regexp.MustCompile(`^[a-z]+(_[a-z]+)*$`)

var splitVariants = map[string]bool{
	"ppl_upper_lower": true,
	"ppl_push_pull":   true,
}

// Questionnaires holds dependencies for questionnaire handlers.
type Questionnaires struct {
	DB       *sql.DB
	Notifier *notify.Notifier
}

// questionnaireRequest uses pointers for the required fields so missing keys
// can be told apart from zero values.
type questionnaireRequest struct {
	UserID                 *int64   `json:"user_id"`
	Goals                  *string  `json:"goals"`
	ExperienceLevel        *string  `json:"experience_level"`
	EquipmentAvailable     *string  `json:"equipment_available"`
	SmallestIncrement      *float64 `json:"smallest_increment"`
	ScheduleDays           *int     `json:"schedule_days"`
	SessionDurationMinutes *int     `json:"session_duration_minutes"`
	TrainingDaysOfWeek     []int    `json:"training_days_of_week"`
	FocusAreas             []string `json:"focus_areas"`
	InjuriesConstraints    *string  `json:"injuries_constraints"`
	ExcludedPatterns       []string `json:"excluded_patterns"`
	SplitVariant           *string  `json:"split_variant"`
}

// Create validates the intake payload, persists the response, and generates
// a plan from it in one request.
func (h *Questionnaires) Create(w http.ResponseWriter, r *http.Request) {
	var req questionnaireRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q, increment, err := normalizeQuestionnaire(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	questionnaireID, err := models.CreateQuestionnaire(h.DB, q, increment)
	if err != nil {
		handleError(w, err)
		return
	}

	planID, err := planner.Generate(h.DB, planner.Request{
		QuestionnaireID: questionnaireID,
		Weeks:           4,
		StartDate:       time.Now(),
		Name:            "Generated Plan",
	})
	if err != nil {
		handleError(w, err)
		return
	}

	h.Notifier.PlanGenerated("Generated Plan", 4)
	writeJSON(w, http.StatusOK, map[string]int64{
		"questionnaire_id": questionnaireID,
		"plan_id":          planID,
	})
}

// normalizeQuestionnaire applies the intake validation rules and returns the
// model to persist plus the user's new smallest increment.
func normalizeQuestionnaire(req *questionnaireRequest) (*models.Questionnaire, float64, error) {
	var missing []string
	if req.UserID == nil {
		missing = append(missing, "user_id")
	}
	if req.Goals == nil {
		missing = append(missing, "goals")
	}
	if req.ExperienceLevel == nil {
		missing = append(missing, "experience_level")
	}
	if req.SmallestIncrement == nil {
		missing = append(missing, "smallest_increment")
	}
	if req.EquipmentAvailable == nil {
		return nil, 0, fmt.Errorf("EQUIPMENT_REQUIRED")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, 0, fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	if err := ensureSnakeCase(*req.Goals, "goals"); err != nil {
		return nil, 0, err
	}
	if err := ensureSnakeCase(*req.ExperienceLevel, "experience_level"); err != nil {
		return nil, 0, err
	}
	if err := ensureSnakeCase(*req.EquipmentAvailable, "equipment_available"); err != nil {
		return nil, 0, err
	}
	if *req.UserID <= 0 {
		return nil, 0, fmt.Errorf("user_id must be positive")
	}
	if req.ScheduleDays != nil && *req.ScheduleDays <= 0 {
		return nil, 0, fmt.Errorf("schedule_days must be positive")
	}
	if req.ScheduleDays != nil && *req.ScheduleDays > 7 {
		return nil, 0, fmt.Errorf("schedule_days must be 7 or fewer")
	}
	if *req.SmallestIncrement <= 0 {
		return nil, 0, fmt.Errorf("smallest_increment must be positive")
	}

	trainingDays, err := normalizeTrainingDays(req.TrainingDaysOfWeek, req.ScheduleDays)
	if err != nil {
		return nil, 0, err
	}
	scheduleDays := 0
	if req.ScheduleDays != nil {
		scheduleDays = *req.ScheduleDays
	} else {
		if trainingDays == nil {
			return nil, 0, fmt.Errorf("schedule_days is required when training_days_of_week is missing")
		}
		scheduleDays = len(trainingDays)
	}

	var splitVariant sql.NullString
	if req.SplitVariant != nil {
		if err := ensureSnakeCase(*req.SplitVariant, "split_variant"); err != nil {
			return nil, 0, err
		}
		if !splitVariants[*req.SplitVariant] {
			return nil, 0, fmt.Errorf("split_variant must be ppl_upper_lower or ppl_push_pull")
		}
		splitVariant = sql.NullString{String: *req.SplitVariant, Valid: true}
	}

	q := &models.Questionnaire{
		UserID:             *req.UserID,
		Goals:              *req.Goals,
		ExperienceLevel:    *req.ExperienceLevel,
		ScheduleDays:       scheduleDays,
		EquipmentAvailable: *req.EquipmentAvailable,
		TrainingDaysOfWeek: trainingDays,
		FocusAreas:         req.FocusAreas,
		ExcludedPatterns:   req.ExcludedPatterns,
		SplitVariant:       splitVariant,
	}
	if req.SessionDurationMinutes != nil {
		q.SessionDurationMinutes = sql.NullInt64{Int64: int64(*req.SessionDurationMinutes), Valid: true}
	}
	if req.InjuriesConstraints != nil {
		q.InjuriesConstraints = sql.NullString{String: *req.InjuriesConstraints, Valid: true}
	}
	return q, *req.SmallestIncrement, nil
}

func ensureSnakeCase(value, field string) error {
	if !snakeCasePattern.MatchString(value) {
		return fmt.Errorf("%s must be snake_case", field)
	}
	return nil
}

// normalizeTrainingDays validates and sorts an explicit training-day list.
// A nil list stays nil; the schedule is derived elsewhere.
func normalizeTrainingDays(trainingDays []int, scheduleDays *int) ([]int, error) {
	if trainingDays == nil {
		return nil, nil
	}
	if len(trainingDays) == 0 {
		return nil, fmt.Errorf("training_days_of_week must be a non-empty list")
	}
	seen := make(map[int]bool, len(trainingDays))
	normalized := make([]int, 0, len(trainingDays))
	for _, day := range trainingDays {
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("training_days_of_week must be between 0 and 6")
		}
		if seen[day] {
			return nil, fmt.Errorf("training_days_of_week must be unique")
		}
		seen[day] = true
		normalized = append(normalized, day)
	}
	if scheduleDays != nil && *scheduleDays != len(normalized) {
		return nil, fmt.Errorf("training_days_of_week must match schedule_days")
	}
	sort.Ints(normalized)
	return normalized, nil
}
