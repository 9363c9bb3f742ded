package session

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/timetable/internal/grid"
)

// RejectionError is returned when a candidate interval cannot be committed.
// Reason is ErrEndBeforeStart or ErrOverlap; Conflict is set for overlaps.
type RejectionError struct {
	Reason   error
	Start    string
	End      string // exclusive boundary
	Conflict *Session
}

func (e *RejectionError) Error() string {
	if e.Conflict != nil {
		return fmt.Sprintf("%v: %s-%s conflicts with %q (%s-%s)",
			e.Reason, e.Start, e.End,
			e.Conflict.ContentLabel, e.Conflict.StartSlot, e.Conflict.EndSlot,
		)
	}
	return fmt.Sprintf("%v: %s-%s", e.Reason, e.Start, e.End)
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// IsRejection reports whether err is a local validation rejection.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// IsOverlapping reports whether the user selection startSlot..endSlot collides
// with any existing session. endSlot is the last tapped cell and is inclusive
// of its own width.
func IsOverlapping(startSlot, endSlot string, existing []Session) bool {
	start := grid.PlannerMinutes(startSlot)
	end := grid.PlannerMinutes(endSlot) + grid.SlotMinutes
	return FindOverlap(start, end, existing) != nil
}

// FindOverlap returns the first session whose interval intersects
// [start, end). Both bounds are planner-day minutes. Touching endpoints do
// not overlap.
func FindOverlap(start, end int, existing []Session) *Session {
	for i := range existing {
		s := &existing[i]
		exStart, exEnd := s.Bounds()
		if start < exEnd && end > exStart {
			return s
		}
	}
	return nil
}

// Candidate is a selection converted into an exclusive interval in slot space.
type Candidate struct {
	Start string
	End   string // exclusive
}

// Minutes returns the candidate's planner-day minute bounds.
func (c Candidate) Minutes() (start, end int) {
	return grid.PlannerMinutes(c.Start), grid.PlannerMinutes(c.End)
}

// CheckSelection turns a start tap and an inclusive end tap into a candidate
// and validates it against existing. It never touches the store.
func CheckSelection(startSlot, endSlot string, existing []Session) (Candidate, error) {
	if !grid.IsSelectable(startSlot) {
		return Candidate{}, fmt.Errorf("start %w", grid.ErrOutsidePlannerDay)
	}
	if !grid.IsSelectable(endSlot) {
		return Candidate{}, fmt.Errorf("end %w", grid.ErrOutsidePlannerDay)
	}

	start := grid.PlannerMinutes(startSlot)
	end := grid.PlannerMinutes(endSlot) + grid.SlotMinutes
	c := Candidate{Start: startSlot, End: grid.MinutesToTime(end)}

	return c, checkMinutes(c, start, end, existing)
}

// CheckCandidate validates an exclusive interval already in slot space.
func CheckCandidate(c Candidate, existing []Session) error {
	start, end := c.Minutes()
	return checkMinutes(c, start, end, existing)
}

func checkMinutes(c Candidate, start, end int, existing []Session) error {
	if end <= start {
		return &RejectionError{Reason: ErrEndBeforeStart, Start: c.Start, End: c.End}
	}
	if conflict := FindOverlap(start, end, existing); conflict != nil {
		cp := *conflict
		return &RejectionError{Reason: ErrOverlap, Start: c.Start, End: c.End, Conflict: &cp}
	}
	return nil
}
