package domain

import "time"

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// WorkPeriodRecord is one employee's assignment to one project.
// A nil DateTo means the assignment is still active.
type WorkPeriodRecord struct {
	EmployeeID int
	ProjectID  int
	DateFrom   time.Time
	DateTo     *time.Time
}

// IsOpenEnded reports whether the record has no end date.
func (r WorkPeriodRecord) IsOpenEnded() bool {
	return r.DateTo == nil
}

// EffectiveEnd resolves the end of the period, using today for open-ended records.
func (r WorkPeriodRecord) EffectiveEnd(today time.Time) time.Time {
	if r.DateTo == nil {
		return DateOf(today)
	}
	return *r.DateTo
}

// DateOf truncates t to its calendar date, expressed as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole calendar days from start to end.
// It works on Unix seconds so spans beyond the range of time.Duration stay exact.
func DaysBetween(start, end time.Time) int {
	return int((DateOf(end).Unix() - DateOf(start).Unix()) / secondsPerDay)
}
