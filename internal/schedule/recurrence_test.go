package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayFridayRule() Rule {
	return Rule{
		Weekdays:   []time.Weekday{time.Monday, time.Friday},
		Start:      "08:00",
		End:        "09:00",
		ActiveFrom: date(2025, time.January, 1),
		ActiveTo:   date(2025, time.June, 1),
	}
}

func TestRuleAppliesOn(t *testing.T) {
	r := mondayFridayRule()

	// 2025-01-06 is a Monday inside the window.
	assert.True(t, r.AppliesOn(date(2025, time.January, 6)))
	// 2025-01-10 is a Friday inside the window.
	assert.True(t, r.AppliesOn(date(2025, time.January, 10)))
	// Tuesday inside the window but not in the weekday set.
	assert.False(t, r.AppliesOn(date(2025, time.January, 7)))
	// Monday outside the active window.
	assert.False(t, r.AppliesOn(date(2025, time.June, 2)))
	// Window boundaries are inclusive: 2025-01-03 is the first Friday.
	assert.True(t, r.AppliesOn(date(2025, time.January, 3)))
}

func TestRuleWeekOccurrences(t *testing.T) {
	r := mondayFridayRule()

	// Week of Monday 2025-01-06.
	occs := r.WeekOccurrences(date(2025, time.January, 6))
	require.Len(t, occs, 2)
	assert.Equal(t, date(2025, time.January, 6), occs[0].Date)
	assert.Equal(t, date(2025, time.January, 10), occs[1].Date)
	assert.Equal(t, r.Start, occs[0].Start)
	assert.Equal(t, r.End, occs[0].End)

	// A week entirely past the active window yields nothing.
	assert.Empty(t, r.WeekOccurrences(date(2025, time.June, 2)))

	// Expansion is deterministic across calls.
	assert.Equal(t, occs, r.WeekOccurrences(date(2025, time.January, 6)))
}

func TestRuleWeekOccurrencesPartialWindow(t *testing.T) {
	r := mondayFridayRule()

	// Week of Monday 2025-05-26: Monday applies, but Friday 2025-05-30 does
	// too since the window runs to June 1.
	occs := r.WeekOccurrences(date(2025, time.May, 26))
	require.Len(t, occs, 2)

	// Week containing the window end: only dates inside the window remain.
	r.ActiveTo = date(2025, time.May, 28)
	occs = r.WeekOccurrences(date(2025, time.May, 26))
	require.Len(t, occs, 1)
	assert.Equal(t, date(2025, time.May, 26), occs[0].Date)
}

func TestRuleIntersects(t *testing.T) {
	base := mondayFridayRule()

	overlapping := Rule{
		Weekdays:   []time.Weekday{time.Monday},
		Start:      "08:30",
		End:        "09:30",
		ActiveFrom: date(2025, time.February, 1),
		ActiveTo:   date(2025, time.March, 1),
	}
	assert.True(t, base.Intersects(overlapping))
	assert.True(t, overlapping.Intersects(base))

	differentDay := overlapping
	differentDay.Weekdays = []time.Weekday{time.Wednesday}
	assert.False(t, base.Intersects(differentDay))

	touchingTime := overlapping
	touchingTime.Start, touchingTime.End = "09:00", "10:00"
	assert.False(t, base.Intersects(touchingTime))

	disjointWindow := overlapping
	disjointWindow.ActiveFrom = date(2025, time.July, 1)
	disjointWindow.ActiveTo = date(2025, time.August, 1)
	assert.False(t, base.Intersects(disjointWindow))
}
