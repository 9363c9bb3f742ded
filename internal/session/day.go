package session

import (
	"slices"
	"time"

	"github.com/javiermolinar/timetable/internal/grid"
)

// Day holds the sessions of one mentee's planner day, in slot space.
// Only the Synchronizer mutates it.
type Day struct {
	MenteeID int64
	Anchor   time.Time
	sessions []Session // sorted by planner start, then ID
}

func newDay(menteeID int64, anchor time.Time) *Day {
	return &Day{
		MenteeID: menteeID,
		Anchor:   truncateToDay(anchor),
		sessions: make([]Session, 0),
	}
}

// Sessions returns a copy of the session slice.
func (d *Day) Sessions() []Session {
	if d == nil {
		return nil
	}
	result := make([]Session, len(d.sessions))
	copy(result, d.sessions)
	return result
}

// Len returns the number of sessions in the day.
func (d *Day) Len() int {
	if d == nil {
		return 0
	}
	return len(d.sessions)
}

// SessionAt returns the session occupying slotID.
func (d *Day) SessionAt(slotID string) (Session, bool) {
	if d == nil {
		return Session{}, false
	}
	for _, s := range d.sessions {
		if s.ContainsSlot(slotID) {
			return s, true
		}
	}
	return Session{}, false
}

// Find returns the session with the given ID.
func (d *Day) Find(id int64) (Session, bool) {
	if i := d.index(id); i >= 0 {
		return d.sessions[i], true
	}
	return Session{}, false
}

// Covers reports whether the day is the planner day for menteeID at anchor.
func (d *Day) Covers(menteeID int64, anchor time.Time) bool {
	return d != nil && d.MenteeID == menteeID && d.Anchor.Equal(truncateToDay(anchor))
}

func (d *Day) index(id int64) int {
	if d == nil {
		return -1
	}
	for i, s := range d.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (d *Day) insert(s Session) {
	d.sessions = append(d.sessions, s)
	d.sort()
}

func (d *Day) replace(s Session) bool {
	i := d.index(s.ID)
	if i < 0 {
		return false
	}
	d.sessions[i] = s
	return true
}

func (d *Day) remove(id int64) bool {
	i := d.index(id)
	if i < 0 {
		return false
	}
	d.sessions = append(d.sessions[:i], d.sessions[i+1:]...)
	return true
}

func (d *Day) sort() {
	slices.SortFunc(d.sessions, func(a, b Session) int {
		am, bm := grid.PlannerMinutes(a.StartSlot), grid.PlannerMinutes(b.StartSlot)
		if am != bm {
			return am - bm
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
