package schedule

import (
	"time"

	"github.com/gymops/gym-ops-api/internal/models"
)

// OverlapsTime reports whether two half-open [start, end) time-of-day ranges
// overlap. Touching intervals (aEnd == bStart) do not overlap; this is the
// tie-break used everywhere times are compared.
func OverlapsTime(aStart, aEnd, bStart, bEnd models.TimeOfDay) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapsDateRange reports whether two closed calendar-date ranges
// intersect. Both boundary days count as active.
func OverlapsDateRange(aFrom, aTo, bFrom, bTo time.Time) bool {
	aFrom, aTo = models.DateOnly(aFrom), models.DateOnly(aTo)
	bFrom, bTo = models.DateOnly(bFrom), models.DateOnly(bTo)
	return !aFrom.After(bTo) && !bFrom.After(aTo)
}

// WithinDateRange reports whether a date falls inside a closed range.
func WithinDateRange(date, from, to time.Time) bool {
	d := models.DateOnly(date)
	return !d.Before(models.DateOnly(from)) && !d.After(models.DateOnly(to))
}
