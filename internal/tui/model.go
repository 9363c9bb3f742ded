// Package tui provides the terminal user interface for timetable: a
// planner-day grid of 10-minute cells driven by the scheduler state machine.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/dateutil"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/scheduler"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/summary"
	"github.com/javiermolinar/timetable/internal/tui/commands"
	"github.com/javiermolinar/timetable/internal/tui/theme"
)

// Store is what the TUI needs from persistence.
type Store interface {
	session.Store
	CreateTask(ctx context.Context, t *session.Task) error
	Close() error
}

// panel is a TUI-only screen layered over the machine state.
type panel int

const (
	panelNone panel = iota
	panelNewTask
	panelSummary
	panelInit
)

func (p panel) String() string {
	switch p {
	case panelNewTask:
		return "NEW_TASK"
	case panelSummary:
		return "SUMMARY"
	case panelInit:
		return "INIT"
	}
	return ""
}

const statusTTL = 4 * time.Second

// Model is the main TUI model.
type Model struct {
	store   Store
	config  *config.Config
	sync    *session.Synchronizer
	machine *scheduler.Machine

	theme   *theme.Theme
	styles  *Styles
	overlay Overlay

	cursor int // slot index, 0 is 06:00

	// Picker state shared by the input and edit modals.
	pickTask    int
	pickColor   int
	colorPicked bool

	panel     panel
	taskInput textinput.Model
	summary   *summary.DaySummary
	initState InitState

	width  int
	height int

	statusMsg  string
	statusWarn bool
	statusTime time.Time

	now func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithInitState sets the startup initialization state.
func WithInitState(state InitState) ModelOption {
	return func(m *Model) {
		m.initState = state
		if state.NeedsInit {
			m.panel = panelInit
		}
	}
}

// WithClock replaces time.Now for anchoring and the tap cooldown.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a new TUI model. store may be nil while initialization is
// pending.
func New(store Store, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Placeholder = "subject: title"
	ti.CharLimit = 120
	ti.Width = 36
	ti.TextStyle = styles.ModalInputTextStyle
	ti.PromptStyle = styles.ModalInputTextStyle
	ti.PlaceholderStyle = styles.ModalPlaceholderStyle

	m := &Model{
		config:    cfg,
		theme:     t,
		styles:    styles,
		overlay:   NewOverlay(styles.ModalBackdropColor),
		taskInput: ti,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if store != nil {
		m.attach(store)
	}
	m.cursor = m.nowSlot()

	return m
}

// attach wires the store into a fresh synchronizer and state machine.
func (m *Model) attach(store Store) {
	m.store = store
	m.sync = session.NewSynchronizer(store)
	m.machine = scheduler.NewMachine(m.sync, scheduler.Config{
		MenteeID:     m.config.Mentee.ID,
		DefaultColor: m.config.DefaultColor(),
		Cooldown:     m.config.Cooldown(),
		Now:          m.now,
	}, DebugLogger().With("component", "scheduler"))
}

// Init opens today's grid.
func (m Model) Init() tea.Cmd {
	if m.machine == nil {
		return nil
	}
	return m.open()
}

func (m Model) open() tea.Cmd {
	op, err := m.machine.Open(dateutil.Today(m.now()))
	if err != nil {
		LogError("open", err)
		return nil
	}
	return commands.RunOp(op)
}

// stateName is the machine state, or the panel covering it.
func (m Model) stateName() string {
	if m.panel != panelNone {
		return m.panel.String()
	}
	if m.machine == nil {
		return scheduler.StateIdle.String()
	}
	return m.machine.State().String()
}

// nowSlot is the grid cell holding the current time, or the first cell
// when now falls outside the planner day.
func (m Model) nowSlot() int {
	idx, err := grid.SlotIndex(grid.DateToGridTime(m.now()))
	if err != nil {
		return 0
	}
	return idx
}

func (m *Model) setStatus(msg string, warn bool) {
	m.statusMsg = msg
	m.statusWarn = warn
	m.statusTime = m.now().Add(statusTTL)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(store Store, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	ownStore := store == nil
	var initState InitState

	if store == nil {
		state, err := DetectInitState(cfg)
		if err != nil {
			return err
		}
		initState = state
		if !state.NeedsInit {
			store, err = openStore(state.DBPath)
			if err != nil {
				return err
			}
		}
	}

	model := New(store, cfg, WithInitState(initState))
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if ownStore {
		if m, ok := finalModel.(Model); ok && m.store != nil {
			_ = m.store.Close()
		}
	}
	return err
}
