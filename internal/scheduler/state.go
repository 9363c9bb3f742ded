// Package scheduler sequences the interactive flow for placing, editing and
// deleting study sessions on the planner-day grid.
package scheduler

import (
	"errors"
	"time"

	"github.com/javiermolinar/timetable/internal/session"
)

// Machine errors.
var (
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrBusy              = errors.New("a store call is still in flight")
	ErrNoTasks           = errors.New("no tasks to schedule for this day")
	ErrUnknownTask       = errors.New("task is not offered for this day")
	ErrNotLoaded         = errors.New("planner day is not loaded")
)

// State is the interaction state of the grid.
type State int

const (
	StateIdle State = iota
	StateOverlayOpen
	StateInputModal
	StateSelectStart
	StateSelectEnd
	StateEditModal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateOverlayOpen:
		return "OVERLAY_OPEN"
	case StateInputModal:
		return "INPUT_MODAL"
	case StateSelectStart:
		return "SELECT_START"
	case StateSelectEnd:
		return "SELECT_END"
	case StateEditModal:
		return "EDIT_MODAL"
	}
	return "UNKNOWN"
}

// OpKind identifies the store call behind an Op.
type OpKind int

const (
	OpLoad OpKind = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpLoad:
		return "load"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Result is what an Op hands back to Machine.Resolve.
type Result struct {
	Kind     OpKind
	Session  session.Session   // create and update
	Sessions []session.Session // load
	Tasks    []*session.Task   // load
	Err      error

	gen uint64
}

// Selection describes an in-progress create.
type Selection struct {
	Task  *session.Task
	Color session.Color
	Start string // empty until the first tap
}

// Edit describes the session open in the edit modal.
type Edit struct {
	Session session.Session
	TaskID  *int64 // nil keeps the session's current task
	Color   session.Color
}

// Config configures a Machine.
type Config struct {
	MenteeID     int64
	DefaultColor session.Color
	// Cooldown keeps slot taps ignored for a short while after a store call
	// resolves. Zero releases the guard as soon as the call resolves.
	Cooldown time.Duration
	Now      func() time.Time
}
