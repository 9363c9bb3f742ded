package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			mentee_id  INTEGER NOT NULL,
			task_date  DATE NOT NULL,
			title      TEXT NOT NULL,
			subject    TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_mentee_date ON tasks(mentee_id, task_date);

		CREATE TABLE IF NOT EXISTS study_sessions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			mentee_id     INTEGER NOT NULL,
			task_id       INTEGER REFERENCES tasks(id),
			content_label TEXT NOT NULL,
			subject       TEXT NOT NULL DEFAULT '',
			start_time    TEXT NOT NULL,
			end_time      TEXT NOT NULL,
			color         TEXT NOT NULL,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK (start_time < end_time)
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_mentee_start ON study_sessions(mentee_id, start_time);
		CREATE INDEX IF NOT EXISTS idx_sessions_task ON study_sessions(task_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
