package format

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// ErrFormat is returned when a period key is not a strict "YYYY-MM" string.
var ErrFormat = errors.New("invalid period format")

const periodLayout = "2006-01"

var periodPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// ParsePeriod parses a strict "YYYY-MM" key into the first day of that month (UTC).
func ParsePeriod(period string) (time.Time, error) {
	m := periodPattern.FindStringSubmatch(period)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFormat, period)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month out of range in %q", ErrFormat, period)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// FormatPeriod turns "2024-03" into "Maret 2024". Malformed keys are returned unchanged.
func FormatPeriod(period string) string {
	t, err := ParsePeriod(period)
	if err != nil {
		return period
	}
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// PeriodOf encodes t as a "YYYY-MM" period key in t's own location.
func PeriodOf(t time.Time) string {
	return t.Format(periodLayout)
}

// FormatDate renders a date as "15 Maret 2024".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// AvailablePeriods returns the distinct well-formed keys, newest first.
// Malformed entries are skipped.
func AvailablePeriods(periods []string) []string {
	seen := make(map[string]struct{}, len(periods))
	out := make([]string, 0, len(periods))
	for _, p := range periods {
		if _, err := ParsePeriod(p); err != nil {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	// Zero-padded keys sort lexically in calendar order.
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
