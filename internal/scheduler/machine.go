package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/session"
)

// Synchronizer is the store boundary the machine drives.
type Synchronizer interface {
	FetchPlannerDay(ctx context.Context, menteeID int64, anchor time.Time) ([]session.Session, error)
	Restore(menteeID int64, anchor time.Time, sessions []session.Session)
	TasksForDay(ctx context.Context, menteeID int64, anchor time.Time) ([]*session.Task, error)
	Create(ctx context.Context, menteeID, taskID int64, start, end time.Time, color session.Color) (session.Session, error)
	Update(ctx context.Context, sessionID int64, taskID *int64, color session.Color) (session.Session, error)
	Delete(ctx context.Context, sessionID int64) error
	Sessions() []session.Session
	SessionAt(slotID string) (session.Session, bool)
}

// Op is a deferred store call. The caller runs it, possibly on another
// goroutine, and feeds the Result back through Machine.Resolve.
type Op func(ctx context.Context) Result

// Machine is the interaction state machine for one mentee's grid.
// It is not safe for concurrent use; only Ops may run off the caller's
// goroutine.
type Machine struct {
	sync   Synchronizer
	cfg    Config
	logger *slog.Logger

	state  State
	anchor time.Time
	tasks  []*session.Task

	// loaded is the anchor of the last successful load. Tasks and the
	// synchronizer's cache belong to it, not necessarily to anchor.
	loaded time.Time

	sel  Selection
	edit Edit

	// pending is set while an Op is in flight; gen ties Results to the
	// open grid so a Result arriving after Close is dropped.
	pending    bool
	pendingOp  OpKind
	gen        uint64
	guardUntil time.Time
}

// NewMachine creates a Machine in the IDLE state.
func NewMachine(sync Synchronizer, cfg Config, logger *slog.Logger) *Machine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !cfg.DefaultColor.Valid() {
		cfg.DefaultColor = session.ColorBlue
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		sync:   sync,
		cfg:    cfg,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Anchor returns the calendar date of the open planner day.
func (m *Machine) Anchor() time.Time { return m.anchor }

// MenteeID returns the mentee whose grid this is.
func (m *Machine) MenteeID() int64 { return m.cfg.MenteeID }

// Loaded reports whether the open day's sessions and tasks are in memory.
func (m *Machine) Loaded() bool {
	return !m.loaded.IsZero() && m.loaded.Equal(m.anchor)
}

// Tasks returns the tasks offered for the open day, or nil until it loads.
func (m *Machine) Tasks() []*session.Task {
	if !m.Loaded() {
		return nil
	}
	return m.tasks
}

// Sessions returns the sessions of the open day, or nil until it loads.
func (m *Machine) Sessions() []session.Session {
	if !m.Loaded() {
		return nil
	}
	return m.sync.Sessions()
}

// Selection returns the in-progress create.
func (m *Machine) Selection() Selection { return m.sel }

// Edit returns the session open in the edit modal.
func (m *Machine) Edit() Edit { return m.edit }

// Pending reports whether a store call is in flight.
func (m *Machine) Pending() bool { return m.pending }

// PendingOp returns the kind of the store call in flight.
func (m *Machine) PendingOp() OpKind { return m.pendingOp }

// Busy reports whether slot taps are currently ignored.
func (m *Machine) Busy() bool {
	return m.pending || m.cfg.Now().Before(m.guardUntil)
}

// Open shows the grid for the planner day anchored at anchor and loads it.
func (m *Machine) Open(anchor time.Time) (Op, error) {
	if m.state != StateIdle {
		return nil, m.reject("open")
	}
	m.gen++
	m.anchor = truncateToDay(anchor)
	m.transition(StateOverlayOpen, "open")
	return m.load(), nil
}

// Close abandons any in-progress selection and returns to IDLE. A store
// call still in flight completes, but its Result is ignored.
func (m *Machine) Close() {
	if m.state == StateIdle {
		return
	}
	m.gen++
	m.pending = false
	m.sel = Selection{}
	m.edit = Edit{}
	m.transition(StateIdle, "close")
}

// Refresh reloads the open day.
func (m *Machine) Refresh() (Op, error) {
	if m.state != StateOverlayOpen {
		return nil, m.reject("refresh")
	}
	if m.pending {
		return nil, ErrBusy
	}
	return m.load(), nil
}

// ShiftDay moves the grid by days planner days and loads the new day.
func (m *Machine) ShiftDay(days int) (Op, error) {
	if m.state != StateOverlayOpen {
		return nil, m.reject("shift day")
	}
	if m.pending {
		return nil, ErrBusy
	}
	m.anchor = m.anchor.AddDate(0, 0, days)
	m.logger.Debug("shift day", "anchor", m.anchor.Format("2006-01-02"), "days", days)
	return m.load(), nil
}

// BeginAdd opens the task and color picker.
func (m *Machine) BeginAdd() error {
	if m.state != StateOverlayOpen {
		return m.reject("add")
	}
	if m.pending {
		return ErrBusy
	}
	if !m.Loaded() {
		return ErrNotLoaded
	}
	m.sel = Selection{}
	m.transition(StateInputModal, "add")
	return nil
}

// ChooseTask picks the task and color for the new session and starts slot
// selection. An empty color falls back to the task subject's default.
func (m *Machine) ChooseTask(taskID int64, color session.Color) error {
	if m.state != StateInputModal {
		return m.reject("choose task")
	}
	if len(m.tasks) == 0 {
		return ErrNoTasks
	}
	task := m.findTask(taskID)
	if task == nil {
		return fmt.Errorf("%w: %d", ErrUnknownTask, taskID)
	}
	if color == "" {
		color = session.SubjectColor(task.Subject, m.cfg.DefaultColor)
	}
	if !color.Valid() {
		return fmt.Errorf("%w: %q", session.ErrInvalidColor, color)
	}

	m.sel = Selection{Task: task, Color: color}
	m.transition(StateSelectStart, "choose task")
	return nil
}

// CancelInput closes the picker without starting a selection.
func (m *Machine) CancelInput() error {
	if m.state != StateInputModal {
		return m.reject("cancel input")
	}
	m.sel = Selection{}
	m.transition(StateOverlayOpen, "cancel input")
	return nil
}

// TapSlot handles a tap on a grid cell. In OVERLAY_OPEN a tap on a session
// opens it for editing. In SELECT_START it records the start. In SELECT_END
// it validates the selection and returns the create Op.
func (m *Machine) TapSlot(slotID string) (Op, error) {
	if m.Busy() {
		m.logger.Debug("tap ignored", "slot", slotID, "state", m.state.String())
		return nil, ErrBusy
	}

	switch m.state {
	case StateOverlayOpen:
		if !m.Loaded() {
			return nil, ErrNotLoaded
		}
		s, ok := m.sync.SessionAt(slotID)
		if !ok {
			return nil, nil
		}
		m.edit = Edit{Session: s, Color: s.Color}
		m.transition(StateEditModal, "tap session")
		return nil, nil

	case StateSelectStart:
		if !grid.IsSelectable(slotID) {
			return nil, fmt.Errorf("%w: %q", grid.ErrOutsidePlannerDay, slotID)
		}
		m.sel.Start = slotID
		m.transition(StateSelectEnd, "tap start")
		return nil, nil

	case StateSelectEnd:
		return m.commitSelection(slotID)
	}

	return nil, m.reject("tap slot")
}

// CancelSelection drops the provisional start and returns to the grid.
func (m *Machine) CancelSelection() error {
	if m.state != StateSelectStart && m.state != StateSelectEnd {
		return m.reject("cancel selection")
	}
	if m.pending {
		return ErrBusy
	}
	m.sel = Selection{}
	m.transition(StateOverlayOpen, "cancel selection")
	return nil
}

// EditTask reassigns the session in the edit modal to another task.
// The chosen color is kept.
func (m *Machine) EditTask(taskID int64) error {
	if m.state != StateEditModal {
		return m.reject("edit task")
	}
	task := m.findTask(taskID)
	if task == nil {
		return fmt.Errorf("%w: %d", ErrUnknownTask, taskID)
	}
	id := task.ID
	m.edit.TaskID = &id
	return nil
}

// EditColor changes the color of the session in the edit modal.
func (m *Machine) EditColor(color session.Color) error {
	if m.state != StateEditModal {
		return m.reject("edit color")
	}
	if !color.Valid() {
		return fmt.Errorf("%w: %q", session.ErrInvalidColor, color)
	}
	m.edit.Color = color
	return nil
}

// ConfirmEdit returns the update Op for the session in the edit modal.
func (m *Machine) ConfirmEdit() (Op, error) {
	if m.state != StateEditModal {
		return nil, m.reject("confirm edit")
	}
	if m.Busy() {
		return nil, ErrBusy
	}

	id := m.edit.Session.ID
	taskID := m.edit.TaskID
	color := m.edit.Color
	return m.begin(OpUpdate, func(ctx context.Context) Result {
		s, err := m.sync.Update(ctx, id, taskID, color)
		return Result{Kind: OpUpdate, Session: s, Err: err}
	}), nil
}

// DeleteEdit returns the delete Op for the session in the edit modal.
func (m *Machine) DeleteEdit() (Op, error) {
	if m.state != StateEditModal {
		return nil, m.reject("delete")
	}
	if m.Busy() {
		return nil, ErrBusy
	}

	s := m.edit.Session
	return m.begin(OpDelete, func(ctx context.Context) Result {
		return Result{Kind: OpDelete, Session: s, Err: m.sync.Delete(ctx, s.ID)}
	}), nil
}

// CancelEdit closes the edit modal without a store call.
func (m *Machine) CancelEdit() error {
	if m.state != StateEditModal {
		return m.reject("cancel edit")
	}
	if m.pending {
		return ErrBusy
	}
	m.edit = Edit{}
	m.transition(StateOverlayOpen, "cancel edit")
	return nil
}

// Resolve applies the Result of an Op and returns its error, if any.
// Every write returns the machine to OVERLAY_OPEN, success or failure.
func (m *Machine) Resolve(res Result) error {
	if res.gen != m.gen || !m.pending {
		m.logger.Debug("stale result dropped", "op", res.Kind.String())
		return res.Err
	}

	m.pending = false
	if res.Kind != OpLoad {
		m.guardUntil = m.cfg.Now().Add(m.cfg.Cooldown)
	}

	if res.Err != nil {
		m.logger.Warn("store call failed", "op", res.Kind.String(), "error", res.Err)
	}

	switch res.Kind {
	case OpLoad:
		if res.Err == nil {
			m.tasks = res.Tasks
			m.loaded = m.anchor
			m.sync.Restore(m.cfg.MenteeID, m.anchor, res.Sessions)
		}
		return res.Err

	case OpCreate:
		m.sel = Selection{}
		m.transition(StateOverlayOpen, "create resolved")

	case OpUpdate, OpDelete:
		m.edit = Edit{}
		m.transition(StateOverlayOpen, res.Kind.String()+" resolved")
	}

	return res.Err
}

// Run executes op synchronously and resolves it. A nil op is a no-op.
func (m *Machine) Run(ctx context.Context, op Op) error {
	if op == nil {
		return nil
	}
	return m.Resolve(op(ctx))
}

func (m *Machine) commitSelection(endSlot string) (Op, error) {
	if !m.Loaded() {
		return nil, m.abandon(endSlot, ErrNotLoaded)
	}
	c, err := session.CheckSelection(m.sel.Start, endSlot, m.sync.Sessions())
	if err != nil {
		return nil, m.abandon(endSlot, err)
	}

	start, err := grid.PlannerTime(c.Start, m.anchor)
	if err != nil {
		return nil, m.abandon(endSlot, err)
	}
	end, err := grid.PlannerTime(c.End, m.anchor)
	if err != nil {
		return nil, m.abandon(endSlot, err)
	}

	menteeID := m.cfg.MenteeID
	taskID := m.sel.Task.ID
	color := m.sel.Color
	return m.begin(OpCreate, func(ctx context.Context) Result {
		s, err := m.sync.Create(ctx, menteeID, taskID, start, end, color)
		return Result{Kind: OpCreate, Session: s, Err: err}
	}), nil
}

// abandon discards the provisional start after a rejected end tap.
func (m *Machine) abandon(endSlot string, err error) error {
	m.logger.Info("selection rejected", "start", m.sel.Start, "end", endSlot, "error", err)
	m.sel = Selection{}
	m.transition(StateOverlayOpen, "reject")
	return err
}

func (m *Machine) load() Op {
	menteeID := m.cfg.MenteeID
	anchor := m.anchor
	return m.begin(OpLoad, func(ctx context.Context) Result {
		sessions, err := m.sync.FetchPlannerDay(ctx, menteeID, anchor)
		if err != nil {
			return Result{Kind: OpLoad, Err: err}
		}
		tasks, err := m.sync.TasksForDay(ctx, menteeID, anchor)
		if err != nil {
			return Result{Kind: OpLoad, Err: err}
		}
		return Result{Kind: OpLoad, Sessions: sessions, Tasks: tasks}
	})
}

// begin marks kind as in flight and stamps the Op's Result with the
// current generation.
func (m *Machine) begin(kind OpKind, fn Op) Op {
	m.pending = true
	m.pendingOp = kind
	gen := m.gen
	m.logger.Debug("op started", "op", kind.String(), "state", m.state.String())
	return func(ctx context.Context) Result {
		res := fn(ctx)
		res.Kind = kind
		res.gen = gen
		return res
	}
}

func (m *Machine) transition(to State, event string) {
	m.logger.Debug("transition", "from", m.state.String(), "to", to.String(), "event", event)
	m.state = to
}

func (m *Machine) reject(event string) error {
	m.logger.Debug("event rejected", "event", event, "state", m.state.String())
	return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, event, m.state)
}

func (m *Machine) findTask(id int64) *session.Task {
	for _, t := range m.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// IsRejection reports whether err is a local validation rejection rather
// than a store failure.
func IsRejection(err error) bool {
	return session.IsRejection(err) || errors.Is(err, grid.ErrOutsidePlannerDay) || errors.Is(err, grid.ErrInvalidSlot)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
