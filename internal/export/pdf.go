// Package export renders generated plans into printable documents.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/carpenike/liftplan/internal/models"
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// PlanPDF writes a printable one-sheet-per-day view of a plan. Day indexes
// are Monday-based, matching the plan's day_index convention.
func PlanPDF(w io.Writer, plan *models.PlanPayload) error {
	titleCaser := cases.Title(language.English)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(plan.Name, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, plan.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	subtitle := fmt.Sprintf("%s / %s / %d weeks / %d days per week",
		titleCaser.String(plan.Goals),
		titleCaser.String(plan.ExperienceLevel),
		plan.Weeks, plan.ScheduleDays)
	if plan.StartDate != nil {
		subtitle += " / starts " + *plan.StartDate
	}
	pdf.CellFormat(0, 6, subtitle, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, workout := range plan.Workouts {
		dayName := fmt.Sprintf("Day %d", workout.DayIndex+1)
		if workout.DayIndex >= 0 && workout.DayIndex < len(dayNames) {
			dayName = dayNames[workout.DayIndex]
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s - %s", dayName, titleCaser.String(workout.SessionType)), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(10, 6, "#", "1", 0, "C", true, 0, "")
		pdf.CellFormat(75, 6, "Exercise", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 6, "Category", "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 6, "Sets x Reps", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 6, "Starting Load", "1", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, exercise := range workout.Exercises {
			load := "-"
			if exercise.StartingWeight != nil {
				load = fmt.Sprintf("%.1f", *exercise.StartingWeight)
				if exercise.IsInitialLoad {
					load += " (initial)"
				}
			}
			pdf.CellFormat(10, 6, fmt.Sprintf("%d", exercise.Sequence), "1", 0, "C", false, 0, "")
			pdf.CellFormat(75, 6, exercise.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, titleCaser.String(exercise.Category), "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%d x %d-%d", exercise.TargetSets, exercise.TargetRepsMin, exercise.TargetRepsMax), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, load, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: render plan pdf: %w", err)
	}
	return nil
}
