// Package planner composes multi-week training plans from questionnaire
// answers and the seeded exercise library: split selection, pattern-to-day
// assignment, experience-aware exercise selection, starting loads, and a
// final audit before anything is persisted.
package planner

import (
	"errors"
	"sort"
	"strings"

	"github.com/carpenike/liftplan/internal/models"
)

const (
	targetSets    = 3
	targetRepsMin = 6
	targetRepsMax = 12

	maxBeginnerAccessoryPerMuscle = 2
)

// Coded errors. Their messages are the stable codes the API surfaces, so
// they must not change.
var (
	ErrUnknownGoal                = errors.New("UNKNOWN_GOAL")
	ErrUnknownEquipment           = errors.New("UNKNOWN_EQUIPMENT")
	ErrUnknownExperienceLevel     = errors.New("UNKNOWN_EXPERIENCE_LEVEL")
	ErrInvalidSplitVariant        = errors.New("INVALID_SPLIT_VARIANT")
	ErrInsufficientLibrary        = errors.New("MINIMUM_LIBRARY_REQUIREMENTS")
	ErrSelectionMismatch          = errors.New("PLAN_SELECTION_MISMATCH")
	ErrEquipmentMismatch          = errors.New("PLAN_EQUIPMENT_MISMATCH")
	ErrPatternMismatch            = errors.New("PLAN_PATTERN_MISMATCH")
	ErrAccessoryLimit             = errors.New("PLAN_ACCESSORY_LIMIT")
	ErrAccessoryMismatch          = errors.New("PLAN_ACCESSORY_MISMATCH")
	ErrExcludedPattern            = errors.New("EXCLUDED_PATTERN")
	ErrInvalidSwapExercise        = errors.New("INVALID_SWAP_EXERCISE")
	ErrTrainingDayCountMismatch   = errors.New("TRAINING_DAY_COUNT_MISMATCH")
	ErrTrainingDaysTooConsecutive = errors.New("TRAINING_DAYS_TOO_CONSECUTIVE")
	ErrTrainingDaysOutOfRange     = errors.New("TRAINING_DAYS_OUT_OF_RANGE")
	ErrTrainingDaysDuplicate      = errors.New("TRAINING_DAYS_DUPLICATE")
	ErrTrainingDaysRequired       = errors.New("TRAINING_DAYS_REQUIRED")
	ErrWeeklyFrequencyTooHigh     = errors.New("WEEKLY_FREQUENCY_TOO_HIGH")
)

var domainErrors = []error{
	ErrUnknownGoal, ErrUnknownEquipment, ErrUnknownExperienceLevel,
	ErrInvalidSplitVariant, ErrInsufficientLibrary,
	ErrSelectionMismatch, ErrEquipmentMismatch, ErrPatternMismatch,
	ErrAccessoryLimit, ErrAccessoryMismatch,
	ErrExcludedPattern, ErrInvalidSwapExercise,
	ErrTrainingDayCountMismatch, ErrTrainingDaysTooConsecutive,
	ErrTrainingDaysOutOfRange, ErrTrainingDaysDuplicate,
	ErrTrainingDaysRequired, ErrWeeklyFrequencyTooHigh,
}

// IsDomainError reports whether err is one of the planner's coded errors,
// as opposed to a wrapped store fault.
func IsDomainError(err error) bool {
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}

// equipmentAllowed maps the questionnaire's equipment tier to the equipment
// ids a plan may draw from.
var equipmentAllowed = map[string][]string{
	"none":           {"bodyweight", "band"},
	"dumbbells_only": {"bodyweight", "band", "dumbbell"},
	"home_gym":       {"bodyweight", "band", "dumbbell", "barbell"},
	"full_gym":       {"bodyweight", "band", "dumbbell", "barbell", "cable", "machine"},
}

// sessionPatterns is the ordered movement-pattern list per session type,
// truncated to the session budget at composition time.
var sessionPatterns = map[string][]string{
	"full_body": {
		"horizontal pull",
		"horizontal push",
		"squat",
		"hinge",
		"vertical push",
		"vertical pull",
		"core",
	},
	"upper": {
		"horizontal push",
		"horizontal pull",
		"vertical push",
		"vertical pull",
		"core",
	},
	"lower": {"squat", "hinge", "single-leg", "core"},
	"push":  {"horizontal push", "vertical push", "core"},
	"pull":  {"horizontal pull", "vertical pull", "core"},
	"legs":  {"squat", "hinge", "single-leg", "core"},
}

// accessoryMusclesBySession is the muscle set accessory slots target when the
// questionnaire names no focus areas.
var accessoryMusclesBySession = map[string][]string{
	"push":  {"chest", "shoulders", "triceps"},
	"pull":  {"back", "lats", "biceps", "grip"},
	"legs":  {"quadriceps", "hamstrings", "glutes", "calves", "adductors", "hip flexors"},
	"upper": {"chest", "shoulders", "triceps", "back", "lats", "biceps"},
	"lower": {"quadriceps", "hamstrings", "glutes", "calves", "adductors", "hip flexors"},
	"full_body": {
		"chest", "shoulders", "triceps",
		"back", "lats", "biceps",
		"quadriceps", "hamstrings", "glutes", "calves", "adductors", "hip flexors",
		"core", "abs", "obliques",
	},
}

var focusAreaMuscles = map[string][]string{
	"arms":      {"biceps", "triceps"},
	"shoulders": {"shoulders"},
	"chest":     {"chest"},
	"back":      {"back", "lats"},
	"legs":      {"quadriceps", "hamstrings", "glutes", "calves", "adductors", "hip flexors"},
	"core":      {"core", "abs", "obliques"},
}

// PlanDay is one composed training day before persistence.
type PlanDay struct {
	DayIndex    int
	SessionType string
	Patterns    []string
	Exercises   []*models.Exercise
}

// AllowedEquipment resolves the questionnaire's equipment tier to the
// concrete equipment ids a plan may use.
func AllowedEquipment(equipmentAvailable string) ([]string, error) {
	allowed, ok := equipmentAllowed[equipmentAvailable]
	if !ok {
		return nil, ErrUnknownEquipment
	}
	return allowed, nil
}

// SelectSplit picks the weekly split for a goal and training frequency.
// Every goal trains full-body through three days; four days goes
// upper/lower; five or more goes push/pull/legs.
func SelectSplit(goal string, weeklyFrequency int) (string, error) {
	switch goal {
	case "general_fitness", "muscle_gain", "strength", "weight_loss":
	default:
		return "", ErrUnknownGoal
	}
	switch {
	case weeklyFrequency <= 3:
		return "full_body", nil
	case weeklyFrequency == 4:
		return "upper_lower", nil
	default:
		return "push_pull_legs", nil
	}
}

// BuildWeekStructure expands a split into the ordered session types of one
// training week. At five days the variant selects between a PPL+upper/lower
// week (the default) and a doubled push/pull week.
func BuildWeekStructure(split string, weeklyFrequency int, splitVariant string) ([]string, error) {
	switch weeklyFrequency {
	case 1:
		return []string{"full_body"}, nil
	case 2:
		return []string{"full_body", "full_body"}, nil
	case 3:
		return []string{"full_body", "full_body", "full_body"}, nil
	case 4:
		return []string{"upper", "lower", "upper", "lower"}, nil
	case 5:
		switch splitVariant {
		case "", "ppl_upper_lower":
			return []string{"push", "pull", "legs", "upper", "lower"}, nil
		case "ppl_push_pull":
			return []string{"push", "pull", "legs", "push", "pull"}, nil
		default:
			return nil, ErrInvalidSplitVariant
		}
	case 6:
		return []string{"push", "pull", "legs", "push", "pull", "legs"}, nil
	default:
		return []string{"push", "pull", "legs", "push", "pull", "legs", "full_body"}, nil
	}
}

var defaultTrainingDays = map[int][]int{
	1: {0},
	2: {0, 3},
	3: {0, 2, 4},
	4: {0, 2, 4, 6},
	5: {0, 2, 3, 5, 6},
	6: {0, 1, 2, 4, 5, 6},
	7: {0, 1, 2, 3, 4, 5, 6},
}

// ResolveTrainingDays picks the calendar weekdays (0..6) the plan trains on:
// the user's own choice when given, otherwise a spaced default for the
// frequency. The spacing rule rejects three consecutive training days for
// anyone training fewer than six days a week.
func ResolveTrainingDays(weeklyFrequency int, trainingDaysOfWeek []int) ([]int, error) {
	if weeklyFrequency > 7 {
		return nil, ErrWeeklyFrequencyTooHigh
	}
	var days []int
	if trainingDaysOfWeek == nil {
		days = append(days, defaultTrainingDays[weeklyFrequency]...)
	} else {
		days = append(days, trainingDaysOfWeek...)
		sort.Ints(days)
		if len(days) != weeklyFrequency {
			return nil, ErrTrainingDayCountMismatch
		}
	}
	if err := validateTrainingDaySpacing(days, weeklyFrequency); err != nil {
		return nil, err
	}
	return days, nil
}

func validateTrainingDaySpacing(days []int, weeklyFrequency int) error {
	if len(days) == 0 {
		return ErrTrainingDaysRequired
	}
	seen := make(map[int]bool, len(days))
	for _, day := range days {
		if day < 0 || day > 6 {
			return ErrTrainingDaysOutOfRange
		}
		if seen[day] {
			return ErrTrainingDaysDuplicate
		}
		seen[day] = true
	}
	if weeklyFrequency >= 6 {
		return nil
	}
	if maxConsecutiveTrainingDays(seen) > 2 {
		return ErrTrainingDaysTooConsecutive
	}
	return nil
}

// maxConsecutiveTrainingDays walks two wrapped weeks so runs that cross the
// Sunday/Monday boundary are counted.
func maxConsecutiveTrainingDays(trainingSet map[int]bool) int {
	consecutive, longest := 0, 0
	for day := 0; day < 14; day++ {
		if trainingSet[day%7] {
			consecutive++
			if consecutive > longest {
				longest = consecutive
			}
		} else {
			consecutive = 0
		}
	}
	return longest
}

// UniquePatterns collects every pattern the week structure needs, in first
// appearance order, always adding the accessory pool at the end.
func UniquePatterns(weekStructure []string) []string {
	var patterns []string
	seen := make(map[string]bool)
	for _, sessionType := range weekStructure {
		for _, pattern := range sessionPatterns[sessionType] {
			if !seen[pattern] {
				seen[pattern] = true
				patterns = append(patterns, pattern)
			}
		}
	}
	if !seen["accessory"] {
		patterns = append(patterns, "accessory")
	}
	return patterns
}

// GroupByPattern buckets the pool by lowercased trimmed movement pattern,
// each bucket ordered by exercise name.
func GroupByPattern(pool []*models.Exercise) map[string][]*models.Exercise {
	grouped := make(map[string][]*models.Exercise)
	for _, exercise := range pool {
		key := strings.ToLower(strings.TrimSpace(exercise.MovementPattern))
		grouped[key] = append(grouped[key], exercise)
	}
	for _, bucket := range grouped {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Name < bucket[j].Name })
	}
	return grouped
}

// sessionBudget caps how many exercises one session holds. Without a stated
// duration the cap follows experience; with one it follows available time.
func sessionBudget(sessionDurationMinutes *int, experienceLevel string) int {
	if sessionDurationMinutes == nil {
		switch experienceLevel {
		case "beginner":
			return 4
		case "intermediate":
			return 5
		default:
			return 6
		}
	}
	switch minutes := *sessionDurationMinutes; {
	case minutes <= 30:
		return 3
	case minutes <= 45:
		return 4
	case minutes <= 60:
		return 5
	case minutes <= 75:
		return 6
	default:
		return 7
	}
}

func patternsForSession(sessionType string, sessionDurationMinutes *int, experienceLevel string) []string {
	patterns := sessionPatterns[sessionType]
	budget := sessionBudget(sessionDurationMinutes, experienceLevel)
	if budget >= len(patterns) {
		return append([]string(nil), patterns...)
	}
	return append([]string(nil), patterns[:budget]...)
}

// eligibleByExperience filters a pattern pool: beginners take compounds when
// any exist, otherwise accessories; everyone else takes compounds followed
// by accessories when any compound exists.
func eligibleByExperience(pool []*models.Exercise, experienceLevel string) ([]*models.Exercise, error) {
	var compound, accessory []*models.Exercise
	for _, exercise := range pool {
		switch strings.ToLower(strings.TrimSpace(exercise.Category)) {
		case "compound":
			compound = append(compound, exercise)
		case "accessory":
			accessory = append(accessory, exercise)
		}
	}
	switch experienceLevel {
	case "beginner":
		if len(compound) > 0 {
			return compound, nil
		}
		return accessory, nil
	case "intermediate", "advanced":
		if len(compound) > 0 {
			return append(compound, accessory...), nil
		}
		return accessory, nil
	default:
		return nil, ErrUnknownExperienceLevel
	}
}

func selectExerciseForPattern(pool []*models.Exercise, experienceLevel string) (*models.Exercise, error) {
	candidates, err := eligibleByExperience(pool, experienceLevel)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrInsufficientLibrary
	}
	return candidates[0], nil
}

// applyBeginnerAccessoryLimit enforces the two-accessories-per-muscle cap for
// beginners: once a muscle is saturated the slot re-selects from the
// compound-only sub-pool.
func applyBeginnerAccessoryLimit(selected *models.Exercise, pool []*models.Exercise, accessoryCount map[string]int, experienceLevel string) (*models.Exercise, error) {
	if strings.ToLower(strings.TrimSpace(selected.Category)) != "accessory" {
		return selected, nil
	}
	muscles := normalizeMuscles(selected.PrimaryMuscle)
	if len(muscles) == 0 {
		return selected, nil
	}
	for _, muscle := range muscles {
		if accessoryCount[muscle] >= maxBeginnerAccessoryPerMuscle {
			var compoundPool []*models.Exercise
			for _, exercise := range pool {
				if strings.ToLower(strings.TrimSpace(exercise.Category)) == "compound" {
					compoundPool = append(compoundPool, exercise)
				}
			}
			if len(compoundPool) == 0 {
				return nil, ErrInsufficientLibrary
			}
			return selectExerciseForPattern(compoundPool, experienceLevel)
		}
	}
	for _, muscle := range muscles {
		accessoryCount[muscle]++
	}
	return selected, nil
}

// selectAccessories fills the remaining session budget with accessory-pool
// exercises targeting the focus-area muscles when given, otherwise the
// session's own muscle set; focus candidates are backfilled from the session
// set, the merged list name-ordered and truncated to the slot count.
func selectAccessories(selected []*models.Exercise, accessoryPool []*models.Exercise, sessionType string, sessionDurationMinutes *int, experienceLevel string, focusAreas []string) []*models.Exercise {
	if len(accessoryPool) == 0 {
		return nil
	}
	slots := sessionBudget(sessionDurationMinutes, experienceLevel) - len(selected)
	if slots <= 0 {
		return nil
	}
	switch experienceLevel {
	case "beginner":
		if slots > 1 {
			slots = 1
		}
	case "intermediate":
		if slots > 2 {
			slots = 2
		}
	default:
		if slots > 3 {
			slots = 3
		}
	}

	selectedIDs := make(map[int64]bool, len(selected))
	for _, exercise := range selected {
		selectedIDs[exercise.ID] = true
	}
	focusMuscles := focusMuscleSet(focusAreas)
	sessionMuscles := muscleSet(accessoryMusclesBySession[sessionType])
	primaryTargets := focusMuscles
	if len(primaryTargets) == 0 {
		primaryTargets = sessionMuscles
	}

	var candidates []*models.Exercise
	candidateIDs := make(map[int64]bool)
	for _, exercise := range accessoryPool {
		if selectedIDs[exercise.ID] || !targetsMuscles(exercise, primaryTargets) {
			continue
		}
		candidates = append(candidates, exercise)
		candidateIDs[exercise.ID] = true
	}
	if len(focusMuscles) > 0 {
		for _, exercise := range accessoryPool {
			if selectedIDs[exercise.ID] || candidateIDs[exercise.ID] {
				continue
			}
			if targetsMuscles(exercise, sessionMuscles) {
				candidates = append(candidates, exercise)
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	if len(candidates) > slots {
		candidates = candidates[:slots]
	}
	return candidates
}

// BuildPlanDays runs the per-day selection pipeline across the week.
func BuildPlanDays(trainingDays []int, weekStructure []string, byPattern map[string][]*models.Exercise, experienceLevel string, sessionDurationMinutes *int, focusAreas []string) ([]PlanDay, error) {
	days := make([]PlanDay, 0, len(trainingDays))
	for i, dayIndex := range trainingDays {
		sessionType := weekStructure[i]
		patterns := patternsForSession(sessionType, sessionDurationMinutes, experienceLevel)

		accessoryCount := make(map[string]int)
		var selected []*models.Exercise
		for _, pattern := range patterns {
			pool := byPattern[pattern]
			if len(pool) == 0 {
				return nil, ErrInsufficientLibrary
			}
			exercise, err := selectExerciseForPattern(pool, experienceLevel)
			if err != nil {
				return nil, err
			}
			if experienceLevel == "beginner" && pattern != "core" {
				exercise, err = applyBeginnerAccessoryLimit(exercise, pool, accessoryCount, experienceLevel)
				if err != nil {
					return nil, err
				}
			}
			selected = append(selected, exercise)
		}

		selected = append(selected, selectAccessories(
			selected, byPattern["accessory"], sessionType,
			sessionDurationMinutes, experienceLevel, focusAreas,
		)...)

		days = append(days, PlanDay{
			DayIndex:    dayIndex,
			SessionType: sessionType,
			Patterns:    patterns,
			Exercises:   selected,
		})
	}
	return days, nil
}

func focusMuscleSet(focusAreas []string) map[string]bool {
	muscles := make(map[string]bool)
	for _, area := range focusAreas {
		for _, muscle := range focusAreaMuscles[area] {
			muscles[muscle] = true
		}
	}
	return muscles
}

func muscleSet(muscles []string) map[string]bool {
	set := make(map[string]bool, len(muscles))
	for _, muscle := range muscles {
		set[muscle] = true
	}
	return set
}

func targetsMuscles(exercise *models.Exercise, muscles map[string]bool) bool {
	if len(muscles) == 0 {
		return false
	}
	for _, muscle := range normalizeMuscles(exercise.PrimaryMuscle) {
		if muscles[muscle] {
			return true
		}
	}
	return false
}

func normalizeMuscles(primaryMuscle string) []string {
	var muscles []string
	for _, muscle := range strings.Split(primaryMuscle, ",") {
		muscle = strings.ToLower(strings.TrimSpace(muscle))
		if muscle != "" {
			muscles = append(muscles, muscle)
		}
	}
	return muscles
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
