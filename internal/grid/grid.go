// Package grid models the planner-day time grid: 10-minute slots from 06:00
// to 02:00 of the following calendar date.
package grid

import (
	"errors"
	"fmt"
	"time"
)

// Grid errors.
var (
	ErrInvalidSlot       = errors.New("slot must be HH:MM on a 10 minute boundary")
	ErrOutsidePlannerDay = errors.New("slot is outside the planner day (06:00-02:00)")
)

const (
	// SlotMinutes is the width of one slot.
	SlotMinutes = 10
	// SlotsPerDay is the number of selectable slots in a planner day (20h).
	SlotsPerDay = 120
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440
	// DayStartMinutes is 06:00, the first slot of the planner day.
	DayStartMinutes = 6 * 60
	// DayEndMinutes is 02:00 of the next calendar date in planner-day space.
	DayEndMinutes = DayStartMinutes + SlotsPerDay*SlotMinutes

	// FirstSlot and Boundary are the two edges of the planner day.
	FirstSlot = "06:00"
	Boundary  = "02:00"
)

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	m, err := parseClock(t)
	if err != nil {
		return 0
	}
	return m
}

// MinutesToTime converts minutes to "HH:MM", wrapping past midnight.
// Planner-day minutes (up to 1560) come back as next-day clock times.
func MinutesToTime(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AdjustMinutesForPlannerDay moves anything earlier than 06:00 onto the
// next calendar date, so "01:30" sorts after "23:50".
func AdjustMinutesForPlannerDay(m int) int {
	if m < DayStartMinutes {
		return m + MinutesPerDay
	}
	return m
}

// PlannerMinutes parses a slot identifier straight into planner-day minutes.
func PlannerMinutes(slotID string) int {
	return AdjustMinutesForPlannerDay(TimeToMinutes(slotID))
}

// SlotIndex returns the column position (0..119) of a selectable slot.
func SlotIndex(slotID string) (int, error) {
	m, err := parseClock(slotID)
	if err != nil {
		return 0, err
	}
	if m%SlotMinutes != 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, slotID)
	}
	adj := AdjustMinutesForPlannerDay(m)
	if adj >= DayEndMinutes {
		return 0, fmt.Errorf("%w: %q", ErrOutsidePlannerDay, slotID)
	}
	return (adj - DayStartMinutes) / SlotMinutes, nil
}

// SlotID returns the identifier of the slot at index (0..119).
// Index 120 is the exclusive 02:00 boundary.
func SlotID(index int) string {
	return MinutesToTime(DayStartMinutes + index*SlotMinutes)
}

// Slots returns every selectable slot of the planner day in order.
func Slots() []string {
	result := make([]string, SlotsPerDay)
	for i := range result {
		result[i] = SlotID(i)
	}
	return result
}

// IsSelectable reports whether slotID is one of the 120 grid cells.
func IsSelectable(slotID string) bool {
	_, err := SlotIndex(slotID)
	return err == nil
}

// IsBoundary reports whether slotID is a valid interval edge: any
// selectable slot plus the closing 02:00 boundary.
func IsBoundary(slotID string) bool {
	if IsSelectable(slotID) {
		return true
	}
	m, err := parseClock(slotID)
	return err == nil && AdjustMinutesForPlannerDay(m) == DayEndMinutes
}

// NextSlot returns the slot one width after slotID. The slot after 01:50 is
// the 02:00 boundary.
func NextSlot(slotID string) string {
	return MinutesToTime(TimeToMinutes(slotID) + SlotMinutes)
}

// DateToGridTime converts a timestamp into its slot identifier, flooring to
// the slot that contains it.
func DateToGridTime(ts time.Time) string {
	m := ts.Hour()*60 + ts.Minute()
	return MinutesToTime(m - m%SlotMinutes)
}

// PlannerTime builds the absolute timestamp for slotID on the planner day
// anchored at anchor's calendar date, in anchor's location.
func PlannerTime(slotID string, anchor time.Time) (time.Time, error) {
	if !IsBoundary(slotID) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrOutsidePlannerDay, slotID)
	}
	adj := PlannerMinutes(slotID)
	return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, adj, 0, 0, anchor.Location()), nil
}

// DayWindow returns [anchor 06:00, anchor+1 02:00).
func DayWindow(anchor time.Time) (start, end time.Time) {
	start = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, DayStartMinutes, 0, 0, anchor.Location())
	end = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, DayEndMinutes, 0, 0, anchor.Location())
	return start, end
}

// AnchorDate returns the calendar date of the planner day ts belongs to.
// Anything before 06:00 belongs to the previous date's planner day.
func AnchorDate(ts time.Time) time.Time {
	d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	if ts.Hour()*60+ts.Minute() < DayStartMinutes {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// InDay reports whether ts falls within the planner day anchored at anchor.
func InDay(ts, anchor time.Time) bool {
	start, end := DayWindow(anchor)
	return !ts.Before(start) && ts.Before(end)
}

func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return hours*60 + mins, nil
}
