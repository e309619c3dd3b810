package planner

import (
	"strings"
)

// AuditPlan re-checks a composed plan against the questionnaire's
// constraints before anything is written. A failure here is a composer bug;
// the caller must abort without side effects.
func AuditPlan(days []PlanDay, allowedEquipment []string, experienceLevel string) error {
	for _, day := range days {
		if len(day.Patterns) > len(day.Exercises) {
			return ErrSelectionMismatch
		}

		accessoryCount := make(map[string]int)
		for i, pattern := range day.Patterns {
			exercise := day.Exercises[i]
			if !containsString(allowedEquipment, exercise.EquipmentID) {
				return ErrEquipmentMismatch
			}
			if strings.ToLower(strings.TrimSpace(exercise.MovementPattern)) != pattern {
				return ErrPatternMismatch
			}
			if experienceLevel == "beginner" && pattern != "core" &&
				strings.ToLower(strings.TrimSpace(exercise.Category)) == "accessory" {
				for _, muscle := range normalizeMuscles(exercise.PrimaryMuscle) {
					accessoryCount[muscle]++
				}
			}
		}
		if experienceLevel == "beginner" {
			for _, count := range accessoryCount {
				if count > maxBeginnerAccessoryPerMuscle {
					return ErrAccessoryLimit
				}
			}
		}

		// Trailing slots beyond the pattern list are accessory fillers.
		for _, exercise := range day.Exercises[len(day.Patterns):] {
			if !containsString(allowedEquipment, exercise.EquipmentID) {
				return ErrEquipmentMismatch
			}
			if strings.ToLower(strings.TrimSpace(exercise.Category)) != "accessory" {
				return ErrAccessoryMismatch
			}
		}
	}
	return nil
}
