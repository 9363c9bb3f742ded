// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/session"
)

var _ session.Store = (*SQLite)(nil)

// SQLite implements session.Store using SQLite.
// Session timestamps are stored as UTC RFC3339 text so range queries on
// start_time compare lexically.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateTask adds a new task and sets its ID.
func (s *SQLite) CreateTask(ctx context.Context, t *session.Task) error {
	query := `
		INSERT INTO tasks (mentee_id, task_date, title, subject, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		t.MenteeID,
		t.Date.Format("2006-01-02"),
		t.Title,
		t.Subject,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	t.ID = id

	return nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id int64) (*session.Task, error) {
	query := `
		SELECT id, mentee_id, task_date, title, subject
		FROM tasks
		WHERE id = ?
	`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", session.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// FetchTasksForDay returns the mentee's tasks dated on the calendar date.
func (s *SQLite) FetchTasksForDay(ctx context.Context, menteeID int64, date time.Time) ([]*session.Task, error) {
	query := `
		SELECT id, mentee_id, task_date, title, subject
		FROM tasks
		WHERE mentee_id = ? AND task_date = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, menteeID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*session.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// RenameTask updates a task title in place. Sessions keep the label they
// were saved with until they are next written.
func (s *SQLite) RenameTask(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return session.ErrEmptyTitle
	}

	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("updating task title: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", session.ErrTaskNotFound, id)
	}
	return nil
}

// DeleteTask removes a task. Sessions that referenced it keep their stored
// label and lose the reference.
func (s *SQLite) DeleteTask(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE study_sessions SET task_id = NULL WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("detaching sessions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", session.ErrTaskNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FetchSessions returns sessions whose start falls in
// [date 06:00, date+1 02:00) in date's location.
func (s *SQLite) FetchSessions(ctx context.Context, menteeID int64, date time.Time) ([]*session.Session, error) {
	start, end := grid.DayWindow(date)

	query := `
		SELECT id, mentee_id, task_id, content_label, subject, start_time, end_time, color, created_at
		FROM study_sessions
		WHERE mentee_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time, id
	`

	rows, err := s.db.QueryContext(ctx, query, menteeID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*session.Session
	for rows.Next() {
		ss, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, ss)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// GetSession retrieves a session by ID.
func (s *SQLite) GetSession(ctx context.Context, id int64) (*session.Session, error) {
	query := `
		SELECT id, mentee_id, task_id, content_label, subject, start_time, end_time, color, created_at
		FROM study_sessions
		WHERE id = ?
	`

	ss, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", session.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return ss, nil
}

// CreateSession inserts a session row and reads it back.
func (s *SQLite) CreateSession(ctx context.Context, ns session.NewSession) (*session.Session, error) {
	query := `
		INSERT INTO study_sessions (
			mentee_id, task_id, content_label, subject, start_time, end_time, color, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		ns.MenteeID,
		ns.TaskID,
		ns.ContentLabel,
		ns.Subject,
		formatTime(ns.StartTime),
		formatTime(ns.EndTime),
		string(ns.Color),
		formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}

	return s.GetSession(ctx, id)
}

// UpdateSession rewrites task_id, content_label, subject and color.
func (s *SQLite) UpdateSession(ctx context.Context, id int64, p session.Patch) (*session.Session, error) {
	query := `
		UPDATE study_sessions
		SET task_id = ?, content_label = ?, subject = ?, color = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, p.TaskID, p.ContentLabel, p.Subject, string(p.Color), id)
	if err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("%w: %d", session.ErrSessionNotFound, id)
	}

	return s.GetSession(ctx, id)
}

// DeleteSession removes a session permanently.
func (s *SQLite) DeleteSession(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM study_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", session.ErrSessionNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*session.Task, error) {
	var (
		t        session.Task
		taskDate string
	)

	if err := row.Scan(&t.ID, &t.MenteeID, &taskDate, &t.Title, &t.Subject); err != nil {
		return nil, err
	}

	var err error
	t.Date, err = parseDate(taskDate)
	if err != nil {
		return nil, fmt.Errorf("parsing task date: %w", err)
	}
	return &t, nil
}

func scanSession(row scanner) (*session.Session, error) {
	var (
		ss        session.Session
		taskID    sql.NullInt64
		color     string
		startTime string
		endTime   string
		createdAt string
	)

	err := row.Scan(
		&ss.ID,
		&ss.MenteeID,
		&taskID,
		&ss.ContentLabel,
		&ss.Subject,
		&startTime,
		&endTime,
		&color,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if taskID.Valid {
		ss.TaskID = &taskID.Int64
	}
	ss.Color = session.Color(color)

	if ss.StartTime, err = time.Parse(time.RFC3339, startTime); err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	if ss.EndTime, err = time.Parse(time.RFC3339, endTime); err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	if ss.CreatedAt, err = parseDate(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &ss, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values (midnight) are parsed in local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	// SQLite returns DATE columns as "2006-01-02T00:00:00Z"; treat as local midnight.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' && s[11:19] == "00:00:00" {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
