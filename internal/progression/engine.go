// Package progression decides how a lifter should load an exercise next:
// start conservatively, increase, hold, or deload, based on the most recent
// completed sessions. The decision itself is a pure function; only the
// Recommend entry point touches the store.
package progression

import (
	"sort"
	"strings"

	"github.com/carpenike/liftplan/internal/models"
	"github.com/carpenike/liftplan/internal/units"
)

const (
	repsMin        = 6
	firstSetTarget = 12
	lastSetTarget  = 10

	// Up to this many recent sessions feed a recommendation.
	HistoryLimit = 3
)

// Rep ranges prescribed with each action. After an increase the range
// tightens so the lifter rebuilds volume at the new weight.
var (
	DefaultRepRange      = [2]int{6, 12}
	PostIncreaseRepRange = [2]int{6, 8}
)

// EquipmentDefaults are conservative first-session loads per equipment type.
var EquipmentDefaults = map[string]float64{
	"barbell":       45.0,
	"dumbbell":      10.0,
	"kettlebell":    8.0,
	"machine":       10.0,
	"cable":         10.0,
	"band":          5.0,
	"bodyweight":    0.0,
	"weighted vest": 10.0,
}

var lowerBodyPatterns = map[string]bool{
	"squat":      true,
	"hinge":      true,
	"single-leg": true,
	"carry":      true,
}

var lowerBodyMuscles = map[string]bool{
	"quadriceps":  true,
	"glutes":      true,
	"hamstrings":  true,
	"calves":      true,
	"adductors":   true,
	"abductors":   true,
	"hip flexors": true,
}

// Recommendation is the engine's verdict for the next attempt.
type Recommendation struct {
	Action           string   `json:"action"`
	NextWeight       *float64 `json:"next_weight"`
	RepRange         [2]int   `json:"rep_range"`
	Reason           string   `json:"reason"`
	IncreaseAmount   *float64 `json:"increase_amount,omitempty"`
	DeloadPercentage *float64 `json:"deload_percentage,omitempty"`
}

// sessionPerformance summarises one logged session for the decision table.
type sessionPerformance struct {
	allSetsCompleted bool
	minReps          int
	firstSetReps     int
	lastSetReps      int
	weight           *float64
	eligible         bool
	increaseAchieved bool
	missedMinimum    bool
	manualAuditFlag  bool
}

type progressionState struct {
	lastSession       *sessionPerformance
	consecutiveMisses int
	hasPriorSession   bool
}

func summarize(session models.HistorySession) sessionPerformance {
	sets := make([]models.HistorySet, len(session.Sets))
	copy(sets, session.Sets)
	sort.Slice(sets, func(i, j int) bool { return sets[i].SetNumber < sets[j].SetNumber })

	var (
		minReps, firstSetReps, lastSetReps int
		weight                             *float64
		maxWeight                          *float64
	)
	if len(sets) > 0 {
		minReps = sets[0].Reps
		firstSetReps = sets[0].Reps
		lastSetReps = sets[len(sets)-1].Reps
		for _, s := range sets {
			if s.Reps < minReps {
				minReps = s.Reps
			}
			if s.Weight != nil && (maxWeight == nil || *s.Weight > *maxWeight) {
				maxWeight = s.Weight
			}
			if s.SetNumber == 1 && weight == nil {
				weight = s.Weight
			}
		}
	}
	if weight == nil {
		weight = maxWeight
	}

	allSetsCompleted := session.CompletionStatus == "completed" && len(sets) > 0
	eligible := allSetsCompleted && minReps >= repsMin
	return sessionPerformance{
		allSetsCompleted: allSetsCompleted,
		minReps:          minReps,
		firstSetReps:     firstSetReps,
		lastSetReps:      lastSetReps,
		weight:           weight,
		eligible:         eligible,
		increaseAchieved: eligible && firstSetReps >= firstSetTarget && lastSetReps >= lastSetTarget,
		missedMinimum:    !allSetsCompleted || minReps < repsMin,
		manualAuditFlag:  session.ManualAuditFlag,
	}
}

func hasInitialLoad(session models.HistorySession) bool {
	for _, s := range session.Sets {
		if s.IsInitialLoad {
			return true
		}
	}
	return false
}

// truncateAtInitialLoad keeps sessions through the first (newest) one that
// contains an initial-load set; anything older predates the current baseline.
func truncateAtInitialLoad(sessions []models.HistorySession) []models.HistorySession {
	for i, session := range sessions {
		if hasInitialLoad(session) {
			return sessions[:i+1]
		}
	}
	return sessions
}

// evaluateState reduces the recent sessions (newest first) to the three
// signals the decision table needs.
func evaluateState(sessions []models.HistorySession) progressionState {
	if len(sessions) == 0 {
		return progressionState{}
	}

	kept := truncateAtInitialLoad(sessions)
	performances := make([]sessionPerformance, len(kept))
	for i, session := range kept {
		performances[i] = summarize(session)
	}

	hasStandardSession := false
	for _, session := range kept {
		for _, s := range session.Sets {
			if !s.IsInitialLoad {
				hasStandardSession = true
				break
			}
		}
		if hasStandardSession {
			break
		}
	}

	// Count misses newest to oldest, stopping before any initial-load
	// session: the baseline session never counts against the lifter.
	consecutiveMisses := 0
	for i, session := range kept {
		if hasInitialLoad(session) {
			break
		}
		if !performances[i].missedMinimum {
			break
		}
		consecutiveMisses++
	}

	return progressionState{
		lastSession:       &performances[0],
		consecutiveMisses: consecutiveMisses,
		hasPriorSession:   len(performances) >= 2 && hasStandardSession,
	}
}

func isLowerBody(exercise *models.Exercise) bool {
	if lowerBodyPatterns[strings.ToLower(strings.TrimSpace(exercise.MovementPattern))] {
		return true
	}
	for _, muscle := range strings.Split(exercise.PrimaryMuscle, ",") {
		if lowerBodyMuscles[strings.ToLower(strings.TrimSpace(muscle))] {
			return true
		}
	}
	return false
}

// rawIncrease picks the jump size before rounding. Increments of 1.25 or
// smaller indicate metric plates, which halve the standard jumps.
func rawIncrease(exercise *models.Exercise, smallestIncrement float64) float64 {
	metric := smallestIncrement <= 1.25
	if strings.ToLower(strings.TrimSpace(exercise.Category)) == "accessory" {
		if metric {
			return 1.25
		}
		return 2.5
	}
	if isLowerBody(exercise) {
		if metric {
			return 2.5
		}
		return 5.0
	}
	if metric {
		return 1.25
	}
	return 2.5
}

// DefaultStartingWeight is the conservative first-time load for an exercise:
// the equipment default (or one increment when unknown) rounded down to the
// user's smallest increment.
func DefaultStartingWeight(exercise *models.Exercise, smallestIncrement float64) (float64, error) {
	base, ok := EquipmentDefaults[strings.ToLower(strings.TrimSpace(exercise.EquipmentID))]
	if !ok {
		base = smallestIncrement
	}
	return units.RoundDown(base, smallestIncrement)
}

func deload(weight *float64, percentage, smallestIncrement float64, reason string) (*Recommendation, error) {
	var next *float64
	if weight != nil {
		rounded, err := units.RoundDown(*weight*(1-percentage), smallestIncrement)
		if err != nil {
			return nil, err
		}
		next = &rounded
	}
	return &Recommendation{
		Action:           "deload",
		NextWeight:       next,
		RepRange:         DefaultRepRange,
		Reason:           reason,
		DeloadPercentage: &percentage,
	}, nil
}

// Recommend applies the decision table to the recent sessions (newest first).
// It is deterministic: the same inputs always produce the same verdict.
func Recommend(sessions []models.HistorySession, smallestIncrement float64, exercise *models.Exercise) (*Recommendation, error) {
	state := evaluateState(sessions)
	last := state.lastSession

	if last == nil {
		start, err := DefaultStartingWeight(exercise, smallestIncrement)
		if err != nil {
			return nil, err
		}
		return &Recommendation{
			Action:     "start",
			NextWeight: &start,
			RepRange:   DefaultRepRange,
			Reason:     "No prior sessions for this lift; provide a conservative starting load.",
		}, nil
	}

	if last.manualAuditFlag {
		return deload(last.weight, 0.10, smallestIncrement,
			"Manual form audit flagged; trigger a one-time 10% deload.")
	}
	if state.consecutiveMisses >= 3 {
		return deload(last.weight, 0.10, smallestIncrement,
			"Three consecutive missed minimums; trigger a 10% deload.")
	}
	if state.consecutiveMisses >= 2 {
		return deload(last.weight, 0.05, smallestIncrement,
			"Two consecutive missed minimums; trigger a 5% deload.")
	}

	if last.eligible && last.increaseAchieved && state.hasPriorSession {
		raw := rawIncrease(exercise, smallestIncrement)
		var next *float64
		if last.weight != nil {
			rounded, err := units.RoundDown(*last.weight+raw, smallestIncrement)
			if err != nil {
				return nil, err
			}
			if rounded <= *last.weight {
				return &Recommendation{
					Action:     "hold",
					NextWeight: last.weight,
					RepRange:   DefaultRepRange,
					Reason:     "Increase does not exceed equipment increment; hold current weight.",
				}, nil
			}
			next = &rounded
		}
		return &Recommendation{
			Action:         "increase",
			NextWeight:     next,
			RepRange:       PostIncreaseRepRange,
			Reason:         "Targets met on first and last sets; increase weight.",
			IncreaseAmount: &raw,
		}, nil
	}

	reason := "Hold weight until targets are met or minimum reps recover."
	if last.eligible && !last.increaseAchieved {
		reason = "Reps missed but minimum threshold met; repeat current weight."
	}
	if !state.hasPriorSession {
		reason = "Baseline session required before increasing weight."
	}
	return &Recommendation{
		Action:     "hold",
		NextWeight: last.weight,
		RepRange:   DefaultRepRange,
		Reason:     reason,
	}, nil
}
