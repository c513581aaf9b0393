package models

import (
	"fmt"
	"time"
)

// Pagination describes standard list metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// TimeOfDay is a wall-clock time in zero-padded "HH:MM" form. Lexical
// ordering of valid values matches temporal ordering, which keeps the
// interval comparisons free of time zone concerns.
type TimeOfDay string

// Valid reports whether the value parses as a 24h HH:MM timestamp.
func (t TimeOfDay) Valid() bool {
	_, err := time.Parse("15:04", string(t))
	return err == nil
}

// Minutes returns minutes since midnight. Invalid values return -1.
func (t TimeOfDay) Minutes() int {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// Before reports strict ordering between two times of day.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return string(t) < string(other)
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseWeekday converts the integer day stored in the database (0=Sunday,
// matching time.Weekday) into a time.Weekday, rejecting out-of-range input.
func ParseWeekday(day int) (time.Weekday, error) {
	if day < 0 || day > 6 {
		return 0, fmt.Errorf("weekday out of range: %d", day)
	}
	return time.Weekday(day), nil
}
