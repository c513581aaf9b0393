package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gymops/gym-ops-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapsTime(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     models.TimeOfDay
		want                           bool
	}{
		{"identical", "08:00", "09:00", "08:00", "09:00", true},
		{"contained", "08:00", "10:00", "08:30", "09:00", true},
		{"partial", "08:00", "09:00", "08:30", "09:30", true},
		{"touching is not overlap", "08:00", "09:00", "09:00", "10:00", false},
		{"touching reversed", "09:00", "10:00", "08:00", "09:00", false},
		{"disjoint", "06:00", "07:00", "08:00", "09:00", false},
		{"one minute overlap", "08:00", "09:01", "09:00", "10:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OverlapsTime(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
		})
	}
}

func TestOverlapsTimeSymmetry(t *testing.T) {
	pairs := [][4]models.TimeOfDay{
		{"08:00", "09:00", "08:30", "09:30"},
		{"08:00", "09:00", "09:00", "10:00"},
		{"06:00", "22:00", "12:00", "12:30"},
		{"10:00", "11:00", "07:00", "08:00"},
	}
	for _, p := range pairs {
		assert.Equal(t,
			OverlapsTime(p[0], p[1], p[2], p[3]),
			OverlapsTime(p[2], p[3], p[0], p[1]),
			"overlap must be symmetric for %v", p)
	}
}

func TestOverlapsDateRange(t *testing.T) {
	jan1 := date(2025, time.January, 1)
	jun1 := date(2025, time.June, 1)
	mar1 := date(2025, time.March, 1)
	dec1 := date(2025, time.December, 1)

	assert.True(t, OverlapsDateRange(jan1, jun1, mar1, dec1))
	// Shared boundary day counts: date ranges are closed on both ends.
	assert.True(t, OverlapsDateRange(jan1, mar1, mar1, dec1))
	assert.False(t, OverlapsDateRange(jan1, mar1, jun1, dec1))
	assert.True(t, OverlapsDateRange(mar1, mar1, jan1, jun1))
}

func TestWithinDateRange(t *testing.T) {
	from := date(2025, time.January, 1)
	to := date(2025, time.June, 1)

	assert.True(t, WithinDateRange(date(2025, time.March, 15), from, to))
	assert.True(t, WithinDateRange(from, from, to))
	assert.True(t, WithinDateRange(to, from, to))
	assert.False(t, WithinDateRange(date(2025, time.June, 2), from, to))
	assert.False(t, WithinDateRange(date(2024, time.December, 31), from, to))
}

func TestTimeOfDayHelpers(t *testing.T) {
	assert.True(t, models.TimeOfDay("08:00").Valid())
	assert.False(t, models.TimeOfDay("8:00").Valid())
	assert.False(t, models.TimeOfDay("24:00").Valid())
	assert.Equal(t, 510, models.TimeOfDay("08:30").Minutes())
	assert.Equal(t, -1, models.TimeOfDay("garbage").Minutes())
}
