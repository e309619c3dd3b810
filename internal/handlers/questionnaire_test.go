package handlers

import (
	"net/http"
	"testing"
)

func TestQuestionnaireCreateGeneratesPlan(t *testing.T) {
	db := testDB(t)
	seedHandlerLibrary(t, db)
	userID := seedHandlerUser(t, db)
	h := newTestRouter(db)

	qID, planID := generatePlan(t, db, h, userID)
	if qID == 0 || planID == 0 {
		t.Fatalf("ids = (%d, %d)", qID, planID)
	}

	// The plan is immediately fetchable.
	w := doRequest(t, h, http.MethodGet, "/plans/"+jsonInt(planID), "")
	if w.Code != http.StatusOK {
		t.Errorf("show plan status = %d: %s", w.Code, w.Body.String())
	}
}

func TestQuestionnaireCreateValidation(t *testing.T) {
	db := testDB(t)
	seedHandlerLibrary(t, db)
	seedHandlerUser(t, db)
	h := newTestRouter(db)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			"missing equipment",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "smallest_increment": 2.5, "schedule_days": 3}`,
			"EQUIPMENT_REQUIRED",
		},
		{
			"missing fields sorted",
			`{"equipment_available": "full_gym", "schedule_days": 3}`,
			"missing fields: experience_level, goals, smallest_increment, user_id",
		},
		{
			"not snake case",
			`{"user_id": 1, "goals": "Muscle Gain", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "schedule_days": 3}`,
			"goals must be snake_case",
		},
		{
			"zero user id",
			`{"user_id": 0, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "schedule_days": 3}`,
			"user_id must be positive",
		},
		{
			"schedule days zero",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "schedule_days": 0}`,
			"schedule_days must be positive",
		},
		{
			"schedule days over seven",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "schedule_days": 8}`,
			"schedule_days must be 7 or fewer",
		},
		{
			"bad increment",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 0, "schedule_days": 3}`,
			"smallest_increment must be positive",
		},
		{
			"schedule required without days",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5}`,
			"schedule_days is required when training_days_of_week is missing",
		},
		{
			"training days out of range",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "training_days_of_week": [0, 7]}`,
			"training_days_of_week must be between 0 and 6",
		},
		{
			"training days duplicate",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "training_days_of_week": [2, 2]}`,
			"training_days_of_week must be unique",
		},
		{
			"training days count mismatch",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "schedule_days": 3, "training_days_of_week": [0, 3]}`,
			"training_days_of_week must match schedule_days",
		},
		{
			"bad split variant",
			`{"user_id": 1, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "schedule_days": 5, "split_variant": "bro_split"}`,
			"split_variant must be ppl_upper_lower or ppl_push_pull",
		},
		{
			"unknown goal",
			`{"user_id": 1, "goals": "crossfit", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "schedule_days": 3}`,
			"UNKNOWN_GOAL",
		},
		{
			"unknown user",
			`{"user_id": 99, "goals": "strength", "experience_level": "beginner", "equipment_available": "full_gym", "smallest_increment": 2.5, "schedule_days": 3}`,
			"INVALID_USER_ID",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodPost, "/questionnaire", tt.body)
			wantError(t, w, http.StatusBadRequest, tt.wantMsg)
		})
	}
}

func TestQuestionnaireCreateExplicitDaysDeriveSchedule(t *testing.T) {
	db := testDB(t)
	seedHandlerLibrary(t, db)
	userID := seedHandlerUser(t, db)
	h := newTestRouter(db)

	body := `{"user_id": ` + jsonInt(userID) + `, "goals": "strength", "experience_level": "intermediate",
		"equipment_available": "full_gym", "smallest_increment": 2.5, "training_days_of_week": [4, 0, 2]}`
	w := doRequest(t, h, http.MethodPost, "/questionnaire", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]int64
	decodeBody(t, w, &resp)
	plan := doRequest(t, h, http.MethodGet, "/plans/"+jsonInt(resp["plan_id"]), "")

	var payload struct {
		ScheduleDays       int   `json:"schedule_days"`
		TrainingDaysOfWeek []int `json:"training_days_of_week"`
	}
	decodeBody(t, plan, &payload)
	if payload.ScheduleDays != 3 {
		t.Errorf("schedule_days = %d, want 3 derived from day list", payload.ScheduleDays)
	}
	if len(payload.TrainingDaysOfWeek) != 3 || payload.TrainingDaysOfWeek[0] != 0 {
		t.Errorf("training days = %v, want sorted [0 2 4]", payload.TrainingDaysOfWeek)
	}
}
