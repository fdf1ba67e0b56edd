package util

import (
	"regexp"
	"time"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsMonthFormat reports whether s matches the YYYY-MM wire format and
// names a real calendar month.
func IsMonthFormat(s string) bool {
	if !monthPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// MonthRange parses a YYYY-MM string into the half-open interval
// [first day of month, first day of next month).
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

// MonthsUntil returns the number of whole calendar months from now to
// due, ignoring the day of month. Never negative.
func MonthsUntil(now, due time.Time) int {
	months := (due.Year()-now.Year())*12 + int(due.Month()) - int(now.Month())
	if months < 0 {
		return 0
	}
	return months
}
