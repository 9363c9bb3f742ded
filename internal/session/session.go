// Package session defines study sessions, the overlap rules between them and
// the synchronizer that keeps the planner-day list in step with the store.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/timetable/internal/grid"
)

// Validation errors.
var (
	ErrEndBeforeStart   = errors.New("end time must be after start time")
	ErrOverlap          = errors.New("study session overlaps with an existing session")
	ErrInvalidInterval  = errors.New("session must span whole 10 minute slots")
	ErrInvalidColor     = errors.New("unknown color")
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrOutsidePlanner   = errors.New("session does not fit inside one planner day")
	ErrMissingMenteeID  = errors.New("mentee id is required")
	ErrSessionNotCached = errors.New("session is not in the loaded planner day")
	ErrDayNotLoaded     = errors.New("planner day is not loaded")
)

// Store errors.
var (
	ErrSessionNotFound = errors.New("study session not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskOwnership   = errors.New("task belongs to another mentee")
)

// Task is the slice of a mentee's task the scheduler needs: something to
// label a session with.
type Task struct {
	ID       int64
	MenteeID int64
	Date     time.Time
	Title    string
	Subject  string // optional, used for grouping and default colors
}

// NewTask creates a Task with validation.
func NewTask(menteeID int64, date time.Time, title, subject string) (*Task, error) {
	if menteeID == 0 {
		return nil, ErrMissingMenteeID
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return &Task{
		MenteeID: menteeID,
		Date:     time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		Title:    title,
		Subject:  strings.TrimSpace(subject),
	}, nil
}

// Session is a committed study interval [StartTime, EndTime).
//
// ContentLabel and Subject are copies of the task's title and subject taken
// when the session was last written. They are allowed to go stale: a session
// whose task was renamed or deleted keeps the label it was saved with.
type Session struct {
	ID           int64
	MenteeID     int64
	TaskID       *int64
	ContentLabel string
	Subject      string
	StartTime    time.Time
	EndTime      time.Time
	Color        Color
	CreatedAt    time.Time

	// Slot-space view, filled in when the session is loaded into a planner day.
	StartSlot string // first occupied slot, "HH:MM"
	EndSlot   string // exclusive end boundary, "HH:MM"
}

// NewSession is the write model handed to Store.CreateSession.
type NewSession struct {
	MenteeID     int64
	TaskID       *int64
	ContentLabel string
	Subject      string
	StartTime    time.Time
	EndTime      time.Time
	Color        Color
}

// Patch is the write model handed to Store.UpdateSession. Interval bounds
// are deliberately absent: a session's interval never changes after creation.
type Patch struct {
	TaskID       *int64
	ContentLabel string
	Subject      string
	Color        Color
}

// Minutes returns the session duration in minutes.
func (s Session) Minutes() int {
	return int(s.EndTime.Sub(s.StartTime).Minutes())
}

// Slots returns the number of grid slots the session occupies.
func (s Session) Slots() int {
	return s.Minutes() / grid.SlotMinutes
}

// HasTask reports whether the session still references a task.
func (s Session) HasTask() bool {
	return s.TaskID != nil
}

// Bounds returns the session's planner-day minute bounds, end exclusive.
func (s Session) Bounds() (start, end int) {
	return grid.PlannerMinutes(s.StartSlot), grid.PlannerMinutes(s.EndSlot)
}

// ContainsSlot reports whether slotID is one of the slots the session occupies.
func (s Session) ContainsSlot(slotID string) bool {
	if !grid.IsSelectable(slotID) {
		return false
	}
	m := grid.PlannerMinutes(slotID)
	start, end := s.Bounds()
	return m >= start && m < end
}

// String renders the session the way the CLI lists it.
func (s Session) String() string {
	return fmt.Sprintf("#%d %s-%s %s", s.ID, s.StartSlot, s.EndSlot, s.ContentLabel)
}

// withSlots returns a copy of s expressed in the location of anchor with its
// slot identifiers derived from the absolute timestamps.
func (s Session) withSlots(anchor time.Time) Session {
	loc := anchor.Location()
	s.StartTime = s.StartTime.In(loc)
	s.EndTime = s.EndTime.In(loc)
	s.StartSlot = grid.DateToGridTime(s.StartTime)
	s.EndSlot = grid.DateToGridTime(s.EndTime)
	return s
}

// ValidateInterval checks the stored-interval invariants: start before end,
// whole slots only, and both edges inside one planner day.
func ValidateInterval(start, end time.Time) error {
	if !start.Before(end) {
		return ErrEndBeforeStart
	}
	d := end.Sub(start)
	if d%(grid.SlotMinutes*time.Minute) != 0 || start.Second() != 0 || start.Nanosecond() != 0 || start.Minute()%grid.SlotMinutes != 0 {
		return ErrInvalidInterval
	}
	anchor := grid.AnchorDate(start)
	if !grid.InDay(start, anchor) {
		return ErrOutsidePlanner
	}
	_, windowEnd := grid.DayWindow(anchor)
	if end.After(windowEnd) {
		return ErrOutsidePlanner
	}
	return nil
}
