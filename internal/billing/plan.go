package billing

import (
	"math"
	"time"

	"github.com/sjperalta/cobuy-api/internal/format"
	"github.com/sjperalta/cobuy-api/internal/models"
)

// PlanSummary is a snapshot of every derived value of a plan at one instant.
type PlanSummary struct {
	PlanID            string            `json:"plan_id"`
	Status            models.PlanStatus `json:"status"`
	AsOf              time.Time         `json:"as_of"`
	TotalAmount       int64             `json:"total_amount"`
	DownPayment       int64             `json:"down_payment"`
	TotalPaid         int64             `json:"total_paid"`
	Remaining         int64             `json:"remaining"`
	PaidPercentage    int               `json:"paid_percentage"`
	PaidCount         int               `json:"paid_installments"`
	PendingCount      int               `json:"pending_installments"`
	TotalInstallments int               `json:"total_installments"`
	Overdue           []PaymentView     `json:"overdue"`
	NextDue           *PaymentView      `json:"next_due,omitempty"`
	NextDueDate       time.Time         `json:"next_due_date"`
	CurrentMonth      *PaymentView      `json:"current_month,omitempty"`
	Payments          []PaymentView     `json:"payments"`
	Formatted         map[string]string `json:"formatted"`
}

// PaymentView is a payment together with its classification at AsOf.
type PaymentView struct {
	models.MonthlyPayment
	DisplayStatus Status `json:"display_status"`
	DaysUntilDue  int    `json:"days_until_due"`
	PeriodLabel   string `json:"period_label"`
}

// View classifies a payment for display.
func View(p *models.MonthlyPayment, now time.Time) PaymentView {
	return PaymentView{
		MonthlyPayment: *p,
		DisplayStatus:  Classify(p, now),
		DaysUntilDue:   DaysUntilDue(p, now),
		PeriodLabel:    format.FormatPeriod(p.Period),
	}
}

// TotalPaid sums the amounts of payments recorded as paid.
func TotalPaid(plan *models.InstallmentPlan) int64 {
	var total int64
	for i := range plan.Payments {
		if plan.Payments[i].IsPaid() {
			total += plan.Payments[i].Amount
		}
	}
	return total
}

// Remaining is the financed amount still owed, never negative.
func Remaining(plan *models.InstallmentPlan) int64 {
	return max(0, plan.Financed()-TotalPaid(plan))
}

// PaidPercentage is the rounded share of the financed amount already paid.
// A plan fully covered by its down payment is 100.
func PaidPercentage(plan *models.InstallmentPlan) int {
	financed := plan.Financed()
	if financed <= 0 {
		return 100
	}
	return percentage(TotalPaid(plan), financed)
}

// PaidInstallmentsCount counts payments recorded as paid.
func PaidInstallmentsCount(plan *models.InstallmentPlan) int {
	n := 0
	for i := range plan.Payments {
		if plan.Payments[i].IsPaid() {
			n++
		}
	}
	return n
}

// PendingInstallmentsCount counts every payment not recorded as paid,
// overdue ones included.
func PendingInstallmentsCount(plan *models.InstallmentPlan) int {
	return len(plan.Payments) - PaidInstallmentsCount(plan)
}

// OverduePayments returns unpaid payments past their due date, in list order.
func OverduePayments(plan *models.InstallmentPlan, now time.Time) []*models.MonthlyPayment {
	var out []*models.MonthlyPayment
	for i := range plan.Payments {
		if IsOverdue(&plan.Payments[i], now) {
			out = append(out, &plan.Payments[i])
		}
	}
	return out
}

// NextDuePayment returns the unpaid payment with the earliest due date.
// Ties keep list order.
func NextDuePayment(plan *models.InstallmentPlan, now time.Time) (*models.MonthlyPayment, bool) {
	var next *models.MonthlyPayment
	for i := range plan.Payments {
		p := &plan.Payments[i]
		if p.IsPaid() {
			continue
		}
		if next == nil || p.DueDate.Before(next.DueDate) {
			next = p
		}
	}
	return next, next != nil
}

// NextDueDate projects when the next installment is expected: the next
// unpaid payment's due date, the plan start when nothing is recorded, or one
// month after the latest paid due date.
func NextDueDate(plan *models.InstallmentPlan, now time.Time) time.Time {
	if p, ok := NextDuePayment(plan, now); ok {
		return p.DueDate
	}
	return ProjectedDueDate(plan)
}

// ProjectedDueDate is the due date of the installment after the last
// recorded one: the plan start when nothing is recorded, else one calendar
// month after the latest due date.
func ProjectedDueDate(plan *models.InstallmentPlan) time.Time {
	if len(plan.Payments) == 0 {
		return plan.StartDate
	}
	latest := plan.Payments[0].DueDate
	for _, p := range plan.Payments[1:] {
		if p.DueDate.After(latest) {
			latest = p.DueDate
		}
	}
	return latest.AddDate(0, 1, 0)
}

// OpenAmount is the sum of unpaid recorded installments.
func OpenAmount(plan *models.InstallmentPlan) int64 {
	var total int64
	for i := range plan.Payments {
		if !plan.Payments[i].IsPaid() {
			total += plan.Payments[i].Amount
		}
	}
	return total
}

// CurrentMonthPayment returns the payment whose period is now's month.
func CurrentMonthPayment(plan *models.InstallmentPlan, now time.Time) (*models.MonthlyPayment, bool) {
	key := format.PeriodOf(now)
	for i := range plan.Payments {
		if plan.Payments[i].Period == key {
			return &plan.Payments[i], true
		}
	}
	return nil, false
}

// Summarize computes every derived value of the plan at now.
func Summarize(plan *models.InstallmentPlan, now time.Time) PlanSummary {
	s := PlanSummary{
		PlanID:            plan.ID,
		Status:            plan.Status,
		AsOf:              now,
		TotalAmount:       plan.TotalAmount,
		DownPayment:       plan.DownPayment,
		TotalPaid:         TotalPaid(plan),
		Remaining:         Remaining(plan),
		PaidPercentage:    PaidPercentage(plan),
		PaidCount:         PaidInstallmentsCount(plan),
		PendingCount:      PendingInstallmentsCount(plan),
		TotalInstallments: plan.TotalInstallments,
		Overdue:           []PaymentView{},
		NextDueDate:       NextDueDate(plan, now),
		Payments:          make([]PaymentView, 0, len(plan.Payments)),
	}
	for _, p := range OverduePayments(plan, now) {
		s.Overdue = append(s.Overdue, View(p, now))
	}
	if p, ok := NextDuePayment(plan, now); ok {
		v := View(p, now)
		s.NextDue = &v
	}
	if p, ok := CurrentMonthPayment(plan, now); ok {
		v := View(p, now)
		s.CurrentMonth = &v
	}
	for i := range plan.Payments {
		s.Payments = append(s.Payments, View(&plan.Payments[i], now))
	}
	s.Formatted = map[string]string{
		"total_amount":  format.FormatCurrency(s.TotalAmount),
		"down_payment":  format.FormatCurrency(s.DownPayment),
		"total_paid":    format.FormatCurrency(s.TotalPaid),
		"remaining":     format.FormatCurrency(s.Remaining),
		"next_due_date": format.FormatDate(s.NextDueDate),
	}
	return s
}

func percentage(part, whole int64) int {
	if whole <= 0 {
		return 100
	}
	pct := int(math.Round(100 * float64(part) / float64(whole)))
	return min(100, max(0, pct))
}
