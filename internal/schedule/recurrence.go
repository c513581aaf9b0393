package schedule

import (
	"time"

	"github.com/gymops/gym-ops-api/internal/models"
)

// Rule is a weekday recurrence: one fixed time-of-day range on one or more
// weekdays, active between two calendar dates inclusive.
type Rule struct {
	Weekdays   []time.Weekday
	Start      models.TimeOfDay
	End        models.TimeOfDay
	ActiveFrom time.Time
	ActiveTo   time.Time
}

// Occurrence is one concrete calendar-dated realization of a rule.
type Occurrence struct {
	Date  time.Time
	Start models.TimeOfDay
	End   models.TimeOfDay
}

// AppliesOn reports whether the rule produces an occurrence on the given
// date: the weekday must be in the set and the date inside the active window.
func (r Rule) AppliesOn(date time.Time) bool {
	if !WithinDateRange(date, r.ActiveFrom, r.ActiveTo) {
		return false
	}
	wd := models.DateOnly(date).Weekday()
	for _, d := range r.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// WeekOccurrences expands the rule over the 7-day window starting at
// weekStart, producing one occurrence per matching weekday. The expansion is
// recomputed per call so it always reflects the current rule.
func (r Rule) WeekOccurrences(weekStart time.Time) []Occurrence {
	start := models.DateOnly(weekStart)
	var out []Occurrence
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		if r.AppliesOn(day) {
			out = append(out, Occurrence{Date: day, Start: r.Start, End: r.End})
		}
	}
	return out
}

// Intersects reports whether two rules can ever collide: they share a
// weekday, their time ranges overlap, and their active windows intersect.
func (r Rule) Intersects(other Rule) bool {
	if !OverlapsDateRange(r.ActiveFrom, r.ActiveTo, other.ActiveFrom, other.ActiveTo) {
		return false
	}
	if !OverlapsTime(r.Start, r.End, other.Start, other.End) {
		return false
	}
	for _, a := range r.Weekdays {
		for _, b := range other.Weekdays {
			if a == b {
				return true
			}
		}
	}
	return false
}
