package models

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
)

// Sentinel errors for lookups by ID. Their messages double as the stable
// error codes the HTTP API returns, so they must not change.
var (
	ErrUserNotFound            = errors.New("INVALID_USER_ID")
	ErrExerciseNotFound        = errors.New("INVALID_EXERCISE_ID")
	ErrQuestionnaireNotFound   = errors.New("QUESTIONNAIRE_NOT_FOUND")
	ErrPlanNotFound            = errors.New("PLAN_NOT_FOUND")
	ErrPlannedExerciseNotFound = errors.New("PLANNED_EXERCISE_NOT_FOUND")
)

// ErrDuplicateEmail is returned when a user email already exists.
var ErrDuplicateEmail = errors.New("duplicate email")

// isUniqueViolation checks if a SQLite error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (errContains(err, "UNIQUE constraint failed") || errContains(err, "constraint failed: UNIQUE"))
}

// errContains checks whether an error's message contains the given substring.
func errContains(err error, substr string) bool {
	return err != nil && strings.Contains(err.Error(), substr)
}

// placeholders returns n comma-separated "?" markers for an IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// dedupe removes duplicate strings while preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// joinInts renders a slice of ints as a comma-separated string.
func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// splitInts parses a comma-separated string into ints. Empty input yields nil.
func splitInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// splitCSV parses a comma-separated string into trimmed non-empty parts.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// nullStringPtr converts a sql.NullString to *string for JSON payloads.
func nullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

// nullFloatPtr converts a sql.NullFloat64 to *float64 for JSON payloads.
func nullFloatPtr(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		return &nf.Float64
	}
	return nil
}

// nullIntPtr converts a sql.NullInt64 to *int for JSON payloads.
func nullIntPtr(ni sql.NullInt64) *int {
	if ni.Valid {
		n := int(ni.Int64)
		return &n
	}
	return nil
}

// floatToNull converts an optional float to its SQL representation.
func floatToNull(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// intToNull converts an optional int to its SQL representation.
func intToNull(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// stringToNull converts an optional string to its SQL representation.
// Empty strings are stored as NULL.
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
