package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/javiermolinar/timetable/internal/grid"
)

// Synchronizer is the only writer of study sessions. It keeps an in-memory
// copy of the currently loaded planner day and patches it after each
// successful store call. A failed call leaves the cache untouched.
type Synchronizer struct {
	store Store

	mu  sync.RWMutex
	day *Day
}

// NewSynchronizer creates a Synchronizer over store.
func NewSynchronizer(store Store) *Synchronizer {
	return &Synchronizer{store: store}
}

// ListForPlannerDay fetches the planner day anchored at anchor and replaces
// the cache with it. Sessions come back in slot space, ordered by start.
func (s *Synchronizer) ListForPlannerDay(ctx context.Context, menteeID int64, anchor time.Time) ([]Session, error) {
	sessions, err := s.FetchPlannerDay(ctx, menteeID, anchor)
	if err != nil {
		return nil, err
	}
	s.Restore(menteeID, anchor, sessions)
	return sessions, nil
}

// FetchPlannerDay is ListForPlannerDay without the cache swap.
func (s *Synchronizer) FetchPlannerDay(ctx context.Context, menteeID int64, anchor time.Time) ([]Session, error) {
	anchor = truncateToDay(anchor)
	records, err := s.store.FetchSessions(ctx, menteeID, anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	day := newDay(menteeID, anchor)
	for _, r := range records {
		if r == nil {
			continue
		}
		day.sessions = append(day.sessions, r.withSlots(anchor))
	}
	day.sort()
	return day.Sessions(), nil
}

// Restore installs sessions fetched for anchor as the cached day.
func (s *Synchronizer) Restore(menteeID int64, anchor time.Time, sessions []Session) {
	day := newDay(menteeID, truncateToDay(anchor))
	day.sessions = append(day.sessions, sessions...)
	day.sort()

	s.mu.Lock()
	s.day = day
	s.mu.Unlock()
}

// TasksForDay returns the tasks offered by the task-selection step.
func (s *Synchronizer) TasksForDay(ctx context.Context, menteeID int64, anchor time.Time) ([]*Task, error) {
	tasks, err := s.store.FetchTasksForDay(ctx, menteeID, truncateToDay(anchor))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create looks up the task's current title and subject, then inserts the
// session. The interval is checked again against the loaded day so a stale
// caller cannot write an overlap; a session outside the loaded day is
// refused with ErrDayNotLoaded.
func (s *Synchronizer) Create(ctx context.Context, menteeID, taskID int64, start, end time.Time, color Color) (Session, error) {
	if menteeID == 0 {
		return Session{}, ErrMissingMenteeID
	}
	if !color.Valid() {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	s.mu.RLock()
	day := s.day
	existing := day.Sessions()
	s.mu.RUnlock()
	if day == nil {
		return Session{}, ErrDayNotLoaded
	}

	loc := day.Anchor.Location()
	start, end = start.In(loc), end.In(loc)
	if err := ValidateInterval(start, end); err != nil {
		if errors.Is(err, ErrEndBeforeStart) {
			return Session{}, &RejectionError{
				Reason: err,
				Start:  grid.DateToGridTime(start),
				End:    grid.DateToGridTime(end),
			}
		}
		return Session{}, err
	}
	if on := grid.AnchorDate(start); !day.Covers(menteeID, on) {
		return Session{}, fmt.Errorf("%w: %s", ErrDayNotLoaded, on.Format("2006-01-02"))
	}

	c := Candidate{Start: grid.DateToGridTime(start), End: grid.DateToGridTime(end)}
	if err := CheckCandidate(c, existing); err != nil {
		return Session{}, err
	}

	task, err := s.ownedTask(ctx, menteeID, taskID)
	if err != nil {
		return Session{}, err
	}

	id := task.ID
	created, err := s.store.CreateSession(ctx, NewSession{
		MenteeID:     menteeID,
		TaskID:       &id,
		ContentLabel: task.Title,
		Subject:      task.Subject,
		StartTime:    start,
		EndTime:      end,
		Color:        color,
	})
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := created.withSlots(start)
	if s.day != nil && s.day.Covers(menteeID, grid.AnchorDate(out.StartTime)) {
		s.day.insert(out)
	}
	return out, nil
}

// Update reassigns a session's task and color. A nil taskID keeps the
// current task reference, refreshing its title if the task still exists.
// StartTime and EndTime are never changed.
func (s *Synchronizer) Update(ctx context.Context, sessionID int64, taskID *int64, color Color) (Session, error) {
	if !color.Valid() {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	current, err := s.current(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}

	patch := Patch{
		TaskID:       current.TaskID,
		ContentLabel: current.ContentLabel,
		Subject:      current.Subject,
		Color:        color,
	}

	target := taskID
	if target == nil {
		target = current.TaskID
	}
	if target != nil {
		task, err := s.ownedTask(ctx, current.MenteeID, *target)
		switch {
		case err == nil:
			id := task.ID
			patch.TaskID = &id
			patch.ContentLabel = task.Title
			patch.Subject = task.Subject
		case taskID == nil && errors.Is(err, ErrTaskNotFound):
			// The old task is gone; keep the stored label.
		default:
			return Session{}, err
		}
	}

	updated, err := s.store.UpdateSession(ctx, sessionID, patch)
	if err != nil {
		return Session{}, fmt.Errorf("failed to update session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := updated.withSlots(current.StartTime)
	if s.day != nil {
		out = updated.withSlots(s.day.Anchor)
		s.day.replace(out)
	}
	return out, nil
}

// Delete removes a session from the store and then from the cache.
func (s *Synchronizer) Delete(ctx context.Context, sessionID int64) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.mu.Lock()
	if s.day != nil {
		s.day.remove(sessionID)
	}
	s.mu.Unlock()
	return nil
}

// Sessions returns the cached sessions of the loaded planner day.
func (s *Synchronizer) Sessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day.Sessions()
}

// SessionAt returns the cached session occupying slotID.
func (s *Synchronizer) SessionAt(slotID string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day.SessionAt(slotID)
}

// Anchor returns the calendar date of the loaded planner day, or the zero
// time if nothing has been loaded.
func (s *Synchronizer) Anchor() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.day == nil {
		return time.Time{}
	}
	return s.day.Anchor
}

func (s *Synchronizer) current(ctx context.Context, sessionID int64) (Session, error) {
	s.mu.RLock()
	cached, ok := s.day.Find(sessionID)
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	stored, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return *stored, nil
}

func (s *Synchronizer) ownedTask(ctx context.Context, menteeID, taskID int64) (*Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", taskID, err)
	}
	if task.MenteeID != menteeID {
		return nil, fmt.Errorf("%w: task %d", ErrTaskOwnership, taskID)
	}
	return task, nil
}
