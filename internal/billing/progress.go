package billing

import (
	"github.com/sjperalta/cobuy-api/internal/models"
)

// Progress is the payment progress of a project across all its plans.
type Progress struct {
	Paid       int64 `json:"paid"`
	Total      int64 `json:"total"`
	Percentage int   `json:"percentage"`
}

// Aggregate sums payment progress over the project's installment plans.
// Down payments count as paid. A project without plans has nothing left to
// pay and reports 100 percent.
func Aggregate(project *models.Project) Progress {
	if len(project.InstallmentPlans) == 0 {
		return Progress{Percentage: 100}
	}
	var out Progress
	for i := range project.InstallmentPlans {
		plan := &project.InstallmentPlans[i]
		out.Total += plan.TotalAmount
		out.Paid += plan.DownPayment + TotalPaid(plan)
	}
	out.Percentage = percentage(out.Paid, out.Total)
	return out
}

// OverallProgress is the rounded mean of the four purchase stages.
func OverallProgress(stages models.ProgressStages) int {
	return stages.Overall()
}
