package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/db"
	"github.com/javiermolinar/timetable/internal/scheduler"
	"github.com/javiermolinar/timetable/internal/session"
)

// Wednesday, January 15, 2025 at 10:00
var testNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *db.SQLite {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "timetable.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// runCLI executes one command line on a fresh App so flag values never
// leak between runs.
func runCLI(t *testing.T, store Store, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Session.CommitCooldown = "0s"

	a := NewApp(store, cfg)
	a.now = func() time.Time { return testNow }

	var out bytes.Buffer
	a.SetOutput(&out)
	a.SetArgs(args)
	err := a.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, store Store, args ...string) string {
	t.Helper()
	out, err := runCLI(t, store, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out := mustRun(t, newTestStore(t), "version")
	assertContains(t, out, "timetable dev")
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)

	out := mustRun(t, store, "task", "add", "Fractions", "--subject=math")
	assertContains(t, out, "Created task #1: Fractions", "[math] 2025-01-15")
	mustRun(t, store, "task", "add", "Essay draft", "--subject=english")

	out = mustRun(t, store, "task", "list")
	assertContains(t, out, "Wednesday, January 15, 2025", "#1", "Fractions", "#2", "Essay draft", "[english]")

	out = mustRun(t, store, "session", "add", "--task=1", "--start=09:00", "--end=09:50")
	assertContains(t, out, "Added session #1: Fractions 09:00-10:00 (1h)")

	out = mustRun(t, store, "session", "add", "--task=1", "--start=23:50", "--end=00:20")
	assertContains(t, out, "Added session #2: Fractions 23:50-00:30 (40m)")

	// Touching the first session is fine.
	mustRun(t, store, "session", "add", "--task=2", "--start=10:00", "--end=10:20", "--color=purple")

	_, err := runCLI(t, store, "session", "add", "--task=2", "--start=09:30", "--end=10:10")
	if !errors.Is(err, session.ErrOverlap) {
		t.Fatalf("overlapping add error = %v, want ErrOverlap", err)
	}

	out = mustRun(t, store, "session", "list", "--no-grid")
	assertContains(t, out, "09:00-10:00", "10:00-10:30", "23:50-00:30", "[english]")

	out = mustRun(t, store, "summary")
	assertContains(t, out, "Sessions: 3", "Total: 2h10m", "09:00-00:30", "math", "english", "Longest: Fractions 09:00-10:00 (1h)")

	out = mustRun(t, store, "session", "edit", "1", "--color=green")
	assertContains(t, out, "Updated session #1: Fractions 09:00-10:00 green")

	out = mustRun(t, store, "session", "edit", "1", "--task=2")
	assertContains(t, out, "Updated session #1: Essay draft 09:00-10:00 green")

	// A renamed task relabels sessions only when they are next written.
	out = mustRun(t, store, "task", "rename", "1", "Fractions practice")
	assertContains(t, out, "Renamed task #1: Fractions -> Fractions practice")
	out = mustRun(t, store, "session", "list", "--no-grid")
	assertContains(t, out, "23:50-00:30")
	if strings.Contains(out, "Fractions practice") {
		t.Errorf("rename rewrote stored labels:\n%s", out)
	}
	out = mustRun(t, store, "session", "edit", "2", "--color=red")
	assertContains(t, out, "Updated session #2: Fractions practice 23:50-00:30 red")

	out = mustRun(t, store, "task", "delete", "2")
	assertContains(t, out, "Deleted task #2: Essay draft")

	// Orphaned sessions keep their label.
	out = mustRun(t, store, "session", "list", "--no-grid")
	assertContains(t, out, "Essay draft")

	out = mustRun(t, store, "session", "delete", "1")
	assertContains(t, out, "Deleted session #1: Essay draft")

	out = mustRun(t, store, "session", "list", "--no-grid")
	if strings.Contains(out, "09:00-10:00") {
		t.Errorf("deleted session still listed:\n%s", out)
	}
}

func TestSessionListGrid(t *testing.T) {
	store := newTestStore(t)
	mustRun(t, store, "task", "add", "Fractions", "--subject=math")
	mustRun(t, store, "session", "add", "--task=1", "--start=06:00", "--end=06:10")

	out := mustRun(t, store, "session", "list")
	assertContains(t, out, ":00", ":50", "06:00", "01:00", "Fracti")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if last := lines[len(lines)-1]; !strings.HasPrefix(last, "01:00") {
		t.Errorf("last grid row = %q, want the 01:00 row", last)
	}
}

func TestSessionListEmptyDay(t *testing.T) {
	out := mustRun(t, newTestStore(t), "session", "list", "--date=2025-02-01", "--no-grid")
	assertContains(t, out, "Saturday, February 1, 2025", "No study sessions.")
}

func TestSessionAddErrors(t *testing.T) {
	store := newTestStore(t)
	mustRun(t, store, "task", "add", "Fractions", "--subject=math")
	mustRun(t, store, "task", "add", "Reading log", "--date=tomorrow")

	tests := []struct {
		name   string
		args   []string
		errMsg string
		errIs  error
	}{
		{
			name:   "off grid start",
			args:   []string{"--task=1", "--start=09:05", "--end=10:00"},
			errMsg: "--start must be HH:MM",
		},
		{
			name:   "outside planner day",
			args:   []string{"--task=1", "--start=03:00", "--end=04:00"},
			errMsg: "--start must be HH:MM",
		},
		{
			name:   "boundary is not a cell",
			args:   []string{"--task=1", "--start=01:00", "--end=02:00"},
			errMsg: "--end must be HH:MM",
		},
		{
			name:   "unknown color",
			args:   []string{"--task=1", "--start=09:00", "--end=10:00", "--color=teal"},
			errMsg: "--color must be one of",
		},
		{
			name:  "end before start",
			args:  []string{"--task=1", "--start=10:00", "--end=09:00"},
			errIs: session.ErrEndBeforeStart,
		},
		{
			name:  "task from another day",
			args:  []string{"--task=1", "--start=09:00", "--end=10:00", "--date=tomorrow"},
			errIs: scheduler.ErrUnknownTask,
		},
		{
			name:  "no tasks that day",
			args:  []string{"--task=1", "--start=09:00", "--end=10:00", "--date=2025-03-01"},
			errIs: scheduler.ErrNoTasks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, store, append([]string{"session", "add"}, tt.args...)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q does not mention %q", err, tt.errMsg)
			}
			if tt.errIs != nil && !errors.Is(err, tt.errIs) {
				t.Errorf("error = %v, want %v", err, tt.errIs)
			}
		})
	}

	out := mustRun(t, store, "session", "list", "--no-grid")
	assertContains(t, out, "No study sessions.")
}

func TestSessionEditErrors(t *testing.T) {
	store := newTestStore(t)
	mustRun(t, store, "task", "add", "Fractions", "--subject=math")
	mustRun(t, store, "session", "add", "--task=1", "--start=09:00", "--end=09:50")

	if _, err := runCLI(t, store, "session", "edit", "1"); err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Errorf("edit without flags error = %v", err)
	}
	if _, err := runCLI(t, store, "session", "edit", "abc", "--color=red"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if _, err := runCLI(t, store, "session", "edit", "0", "--color=red"); err == nil || !strings.Contains(err.Error(), "session_id") {
		t.Errorf("edit with zero id error = %v, want it to name session_id", err)
	}
	if _, err := runCLI(t, store, "session", "edit", "42", "--color=red"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("edit missing session error = %v, want ErrSessionNotFound", err)
	}
	if _, err := runCLI(t, store, "session", "delete", "42"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("delete missing session error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionColorFlagIgnoresCase(t *testing.T) {
	store := newTestStore(t)
	mustRun(t, store, "task", "add", "Fractions", "--subject=math")

	out := mustRun(t, store, "session", "add", "--task=1", "--start=09:00", "--end=09:50", "--color=Blue")
	assertContains(t, out, "Added session #1: Fractions 09:00-10:00 (1h)")

	out = mustRun(t, store, "session", "list", "--no-grid")
	assertContains(t, out, "09:00-10:00")

	out = mustRun(t, store, "session", "edit", "1", "--color=GREEN")
	assertContains(t, out, "Updated session #1: Fractions 09:00-10:00 green")
}

func TestTaskAddBlankTitle(t *testing.T) {
	_, err := runCLI(t, newTestStore(t), "task", "add", "   ")
	if err == nil || !strings.Contains(err.Error(), "title cannot be blank") {
		t.Errorf("error = %v", err)
	}
}

func TestTaskRenameErrors(t *testing.T) {
	store := newTestStore(t)
	mustRun(t, store, "task", "add", "Fractions", "--subject=math")

	if _, err := runCLI(t, store, "task", "rename", "1", "  "); err == nil || !strings.Contains(err.Error(), "title cannot be blank") {
		t.Errorf("blank rename error = %v", err)
	}
	if _, err := runCLI(t, store, "task", "rename", "9", "Essay"); !errors.Is(err, session.ErrTaskNotFound) {
		t.Errorf("rename missing task error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskListEmpty(t *testing.T) {
	out := mustRun(t, newTestStore(t), "task", "list", "--date=yesterday")
	assertContains(t, out, "No tasks for 2025-01-14.")
}

func TestSummaryEmptyDay(t *testing.T) {
	out := mustRun(t, newTestStore(t), "summary", "--date=2025-01-10")
	assertContains(t, out, "Friday, January 10, 2025", "No study sessions.")
}

func TestEnsureStoreOpensConfiguredPath(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "nested", "timetable.db")

	a := NewApp(nil, cfg)
	if err := a.ensureStore(); err != nil {
		t.Fatalf("ensureStore: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	if _, err := os.Stat(cfg.Storage.DBPath); err != nil {
		t.Errorf("database not created: %v", err)
	}
}
