package busreport

import "time"

// DateYearMonthDay formats t as 2024-03-05, the form the report API expects.
func DateYearMonthDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// DateMonthDayYear formats t as 3/5/2024, without zero padding.
func DateMonthDayYear(t time.Time) string {
	return t.Format("1/2/2006")
}
