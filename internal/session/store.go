package session

import (
	"context"
	"time"
)

// Store defines the persistence collaborator for study sessions.
type Store interface {
	// FetchSessions returns every session of menteeID whose start falls in
	// the planner day anchored at date.
	FetchSessions(ctx context.Context, menteeID int64, date time.Time) ([]*Session, error)

	// FetchTasksForDay returns the tasks a session on date can be tied to.
	FetchTasksForDay(ctx context.Context, menteeID int64, date time.Time) ([]*Task, error)

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if missing.
	GetTask(ctx context.Context, id int64) (*Task, error)

	// GetSession retrieves a session by ID. Returns ErrSessionNotFound if missing.
	GetSession(ctx context.Context, id int64) (*Session, error)

	// CreateSession inserts a session and returns it with its assigned ID.
	CreateSession(ctx context.Context, s NewSession) (*Session, error)

	// UpdateSession rewrites the task reference, denormalized fields and
	// color of a session. The interval is never touched.
	UpdateSession(ctx context.Context, id int64, p Patch) (*Session, error)

	// DeleteSession removes a session permanently.
	DeleteSession(ctx context.Context, id int64) error
}
