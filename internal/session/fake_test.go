package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/javiermolinar/timetable/internal/grid"
)

// memStore is an in-memory Store used by the package tests.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	tasks    map[int64]*Task
	sessions map[int64]*Session

	creates int
	updates int
	deletes int
	failing error // returned by every write when set
}

func newMemStore() *memStore {
	return &memStore{
		nextID:   1,
		tasks:    make(map[int64]*Task),
		sessions: make(map[int64]*Session),
	}
}

func (m *memStore) addTask(menteeID int64, title, subject string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.tasks[id] = &Task{ID: id, MenteeID: menteeID, Title: title, Subject: subject}
	return id
}

func (m *memStore) FetchSessions(_ context.Context, menteeID int64, date time.Time) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.MenteeID == menteeID && grid.InDay(s.StartTime.In(date.Location()), date) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) FetchTasksForDay(_ context.Context, menteeID int64, _ time.Time) ([]*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Task
	for _, t := range m.tasks {
		if t.MenteeID == menteeID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) GetTask(_ context.Context, id int64) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) GetSession(_ context.Context, id int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) CreateSession(_ context.Context, ns NewSession) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	m.creates++
	id := m.nextID
	m.nextID++
	s := &Session{
		ID:           id,
		MenteeID:     ns.MenteeID,
		TaskID:       ns.TaskID,
		ContentLabel: ns.ContentLabel,
		Subject:      ns.Subject,
		StartTime:    ns.StartTime.UTC(),
		EndTime:      ns.EndTime.UTC(),
		Color:        ns.Color,
	}
	m.sessions[id] = s
	cp := *s
	return &cp, nil
}

func (m *memStore) UpdateSession(_ context.Context, id int64, p Patch) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	m.updates++
	s.TaskID = p.TaskID
	s.ContentLabel = p.ContentLabel
	s.Subject = p.Subject
	s.Color = p.Color
	cp := *s
	return &cp, nil
}

func (m *memStore) DeleteSession(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	m.deletes++
	delete(m.sessions, id)
	return nil
}

var errStoreDown = errors.New("store unavailable")
