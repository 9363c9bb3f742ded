// Package dateutil resolves user-typed dates into planner-day anchors.
package dateutil

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/timetable/internal/grid"
)

// ErrInvalidDateFormat is returned for input ParsePlannerDate does not understand.
var ErrInvalidDateFormat = errors.New("date must be YYYY-MM-DD, today, yesterday, tomorrow or a weekday")

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Today returns the anchor of the planner day now belongs to. At 01:30 that
// is still yesterday's date.
func Today(now time.Time) time.Time {
	return grid.AnchorDate(now)
}

// ParsePlannerDate parses a date string that can be:
//   - Empty string or "today": the planner day now belongs to
//   - "yesterday", "tomorrow"
//   - Weekday names: "monday" through "sunday" (next occurrence)
//   - "last-monday" through "last-sunday" (previous occurrence)
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//
// Relative inputs count from Today(now). The result is midnight in now's
// location. All inputs are case-insensitive.
func ParsePlannerDate(s string, now time.Time) (time.Time, error) {
	today := Today(now)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if strings.HasPrefix(input, "last-") {
		if target, ok := weekdayMap[strings.TrimPrefix(input, "last-")]; ok {
			return previousWeekday(today, target), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if target, ok := weekdayMap[input]; ok {
		return nextWeekday(today, target), nil
	}

	result, err := time.ParseInLocation("2006-01-02", input, now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

// previousWeekday returns the last occurrence of the given weekday before today.
func previousWeekday(today time.Time, target time.Weekday) time.Time {
	daysSince := int(today.Weekday()) - int(target)
	if daysSince <= 0 {
		daysSince += 7
	}
	return today.AddDate(0, 0, -daysSince)
}

// FormatDay renders an anchor the way headers show it, e.g. "Wed Jan 15".
func FormatDay(t time.Time) string {
	return t.Format("Mon Jan 2")
}
