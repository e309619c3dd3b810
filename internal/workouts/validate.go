// Package workouts validates and persists logged training sessions.
package workouts

import (
	"errors"

	"github.com/carpenike/liftplan/internal/models"
)

const (
	repsMin = 6
	repsMax = 12
)

// Validation sentinels. Their messages are part of the API contract.
var (
	errInvalidStatus    = errors.New("completion_status must be completed, partial, or skipped")
	errInvalidUser      = errors.New("user_id must be positive")
	errMissingPerformed = errors.New("performed_at is required")
	errSetsNotEmpty     = errors.New("set_logs must be empty")
	errSetsEmpty        = errors.New("set_logs must not be empty")
	errSetNumber        = errors.New("set_number must be positive")
	errRepsPositive     = errors.New("reps must be positive")
	errWeightPositive   = errors.New("weight must be positive")
	errWeightNegative   = errors.New("weight cannot be negative")
	errRepsRange        = errors.New("reps must be between 6 and 12")
	errRPERequired      = errors.New("rpe is required")
	errRestRequired     = errors.New("rest_seconds is required")
	errRestNegative     = errors.New("rest_seconds cannot be negative")
)

var validationErrors = []error{
	errInvalidStatus, errInvalidUser, errMissingPerformed,
	errSetsNotEmpty, errSetsEmpty,
	errSetNumber, errRepsPositive, errWeightPositive, errWeightNegative,
	errRepsRange, errRPERequired, errRestRequired, errRestNegative,
}

// IsValidationError reports whether err is a session validation failure, as
// opposed to a store fault.
func IsValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

var completionStatuses = map[string]bool{
	"completed": true,
	"partial":   true,
	"skipped":   true,
}

// ValidateSession checks a proposed session against the logging invariants.
// Skipped sessions must carry no sets; completed or partial sessions must
// carry at least one. Bodyweight exercises alone may log zero weight.
func ValidateSession(session models.SessionInput, setLogs []models.SetLogInput, bodyweightIDs map[int64]bool) error {
	if !completionStatuses[session.CompletionStatus] {
		return errInvalidStatus
	}
	if session.UserID <= 0 {
		return errInvalidUser
	}
	if session.PerformedAt == "" {
		return errMissingPerformed
	}
	if session.CompletionStatus == "skipped" {
		if len(setLogs) > 0 {
			return errSetsNotEmpty
		}
		return nil
	}
	if len(setLogs) == 0 {
		return errSetsEmpty
	}
	for _, setLog := range setLogs {
		if err := validateSetLog(setLog, bodyweightIDs[setLog.ExerciseID]); err != nil {
			return err
		}
	}
	return nil
}

func validateSetLog(setLog models.SetLogInput, bodyweight bool) error {
	if setLog.SetNumber <= 0 {
		return errSetNumber
	}
	if setLog.Reps <= 0 {
		return errRepsPositive
	}
	if bodyweight {
		if setLog.Weight < 0 {
			return errWeightNegative
		}
	} else if setLog.Weight <= 0 {
		return errWeightPositive
	}
	if setLog.Reps < repsMin || setLog.Reps > repsMax {
		return errRepsRange
	}
	if setLog.RPE == nil {
		return errRPERequired
	}
	if setLog.RestSeconds == nil {
		return errRestRequired
	}
	if *setLog.RestSeconds < 0 {
		return errRestNegative
	}
	return nil
}
