package utils

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Today returns the calendar date of now in loc
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// DayBounds parses a YYYY-MM-DD date in loc and returns [start of day, start of next day)
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	return start, start.AddDate(0, 0, 1), nil
}

// StartOfDay truncates t to midnight in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth returns the first instant of t's month in loc
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// ResolveDate defaults an empty date to today and validates the rest
func ResolveDate(date string, now time.Time, loc *time.Location) (string, error) {
	if date == "" {
		return Today(now, loc), nil
	}
	if _, _, err := DayBounds(date, loc); err != nil {
		return "", err
	}
	return date, nil
}
