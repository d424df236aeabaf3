package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/sjperalta/cobuy-api/internal/models"
)

// Status is the display state of a payment at a given instant.
type Status string

// Display status constants
const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
)

const dateLayout = "2006-01-02"

// Classify returns the display status of a payment at now. A stored paid
// payment stays paid regardless of its due date.
func Classify(p *models.MonthlyPayment, now time.Time) Status {
	if p.IsPaid() {
		return StatusPaid
	}
	if now.After(p.DueDate) {
		return StatusOverdue
	}
	return StatusPending
}

// IsOverdue reports whether an unpaid payment is past its due date at now.
func IsOverdue(p *models.MonthlyPayment, now time.Time) bool {
	return Classify(p, now) == StatusOverdue
}

// DaysUntilDue returns the number of calendar days from now to the payment's
// due date, negative once the due date has passed.
func DaysUntilDue(p *models.MonthlyPayment, now time.Time) int {
	return DaysBetween(now, p.DueDate)
}

// DaysBetween counts calendar days from `from` to `to`. Both instants are
// read as dates in from's location.
func DaysBetween(from, to time.Time) int {
	loc := from.Location()
	return int(dateOnly(to.In(loc)).Sub(dateOnly(from)).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses either a YYYY-MM-DD date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
