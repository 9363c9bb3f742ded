package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/db"
	"github.com/javiermolinar/timetable/internal/scheduler"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// Store is what the commands need from storage.
type Store interface {
	session.Store
	CreateTask(ctx context.Context, t *session.Task) error
	RenameTask(ctx context.Context, id int64, title string) error
	DeleteTask(ctx context.Context, id int64) error
	Close() error
}

// App holds the CLI application state.
type App struct {
	store  Store
	config *config.Config
	root   *cobra.Command
	debug  bool
	now    func() time.Time
}

// NewApp creates a new CLI application. A nil store is opened from the
// configured path the first time a command needs it.
func NewApp(store Store, cfg *config.Config) *App {
	a := &App{store: store, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "timetable",
		Short: "A study-session timetable for mentees",
		Long: `Timetable lets a mentee block out study sessions on a 10-minute grid
running from 06:00 to 02:00 the next morning.

Run without a subcommand to open the interactive grid.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// The TUI runs its own init flow when the database is missing.
			return tui.RunWithDebug(a.store, a.config, a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to "+tui.DebugLogPath)

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.sessionCmd())
	a.root.AddCommand(a.taskCmd())
	a.root.AddCommand(a.summaryCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timetable %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureStore opens the configured database if no store was injected.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	store, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = store
	return nil
}

// machine builds a state machine over a fresh synchronizer. Commands drive
// it the way the grid does, one tap at a time.
func (a *App) machine() *scheduler.Machine {
	return scheduler.NewMachine(session.NewSynchronizer(a.store), scheduler.Config{
		MenteeID:     a.config.Mentee.ID,
		DefaultColor: a.config.DefaultColor(),
		Cooldown:     a.config.Cooldown(),
		Now:          a.now,
	}, nil)
}

// SetArgs overrides the command line, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store if one was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
