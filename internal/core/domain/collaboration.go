package domain

import "time"

// EmployeePair is an unordered pair of distinct employees.
// The smaller id is always stored first so the pair can be used as a map key.
type EmployeePair struct {
	FirstID  int
	SecondID int
}

// NewEmployeePair builds the normalized pair for two employee ids.
func NewEmployeePair(a, b int) EmployeePair {
	if b < a {
		a, b = b, a
	}
	return EmployeePair{FirstID: a, SecondID: b}
}

// Less orders pairs by FirstID, then SecondID.
func (p EmployeePair) Less(other EmployeePair) bool {
	if p.FirstID != other.FirstID {
		return p.FirstID < other.FirstID
	}
	return p.SecondID < other.SecondID
}

// ProjectOverlap is the stretch of days two employees shared on one project.
type ProjectOverlap struct {
	ProjectID      int
	DaysOverlapped int
	OverlapStart   time.Time
	OverlapEnd     time.Time
}

// CollaborationResult is the pair that worked together the longest.
type CollaborationResult struct {
	Pair              EmployeePair
	TotalDaysTogether int
	Projects          []ProjectOverlap
}

// Overlap intersects the periods of two records on the same project.
// Open-ended records run through today. Days are counted inclusively, so a
// period that starts the day the other ends still yields one day.
// The second return value is false when the periods do not intersect.
func Overlap(a, b WorkPeriodRecord, today time.Time) (ProjectOverlap, bool) {
	start := a.DateFrom
	if b.DateFrom.After(start) {
		start = b.DateFrom
	}

	end := a.EffectiveEnd(today)
	if endB := b.EffectiveEnd(today); endB.Before(end) {
		end = endB
	}

	if start.After(end) {
		return ProjectOverlap{}, false
	}

	return ProjectOverlap{
		ProjectID:      a.ProjectID,
		DaysOverlapped: DaysBetween(start, end) + 1,
		OverlapStart:   start,
		OverlapEnd:     end,
	}, true
}
