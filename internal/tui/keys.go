package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/dateutil"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/scheduler"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/tui/commands"
)

// cellsPerRow is the number of 10-minute cells in one hour row.
const cellsPerRow = 60 / grid.SlotMinutes

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	LogKeyPress(msg, m.stateName())

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.panel {
	case panelInit:
		return m.handleInitKeys(msg)
	case panelNewTask:
		return m.handleTaskInputKeys(msg)
	case panelSummary:
		return m.handleSummaryKeys(msg)
	}

	if m.machine == nil {
		return m, nil
	}

	switch m.machine.State() {
	case scheduler.StateIdle:
		return m.handleIdleKeys(msg)
	case scheduler.StateOverlayOpen:
		return m.handleGridKeys(msg)
	case scheduler.StateInputModal:
		return m.handlePickerKeys(msg)
	case scheduler.StateSelectStart, scheduler.StateSelectEnd:
		return m.handleSelectKeys(msg)
	case scheduler.StateEditModal:
		return m.handleEditKeys(msg)
	}
	return m, nil
}

func (m Model) handleIdleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "o", "enter":
		return m, m.open()
	}
	return m, nil
}

// handleGridKeys handles keys while the grid is open with nothing in
// progress.
func (m Model) handleGridKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.machine.Close()
		return m, nil
	case "enter", " ":
		return m.tap()
	case "a":
		if err := m.machine.BeginAdd(); err != nil {
			m.setStatus(describeError(err), true)
			return m, nil
		}
		m.pickTask = 0
		m.pickColor = m.defaultColorIndex()
		m.colorPicked = false
		return m, nil
	case "n":
		m.panel = panelNewTask
		m.taskInput.Reset()
		return m, m.taskInput.Focus()
	case "[":
		return m.shiftDay(-1)
	case "]":
		return m.shiftDay(1)
	case "t":
		days := int(math.Round(dateutil.Today(m.now()).Sub(m.machine.Anchor()).Hours() / 24))
		m.cursor = m.nowSlot()
		if days == 0 {
			return m, nil
		}
		return m.shiftDay(days)
	case "r":
		return m, m.refresh()
	case "s":
		return m, commands.DaySummary(m.config, m.sync, m.machine.Anchor(), false)
	case "S":
		m.setStatus("Asking the study coach...", false)
		return m, commands.DaySummary(m.config, m.sync, m.machine.Anchor(), true)
	}
	return m, nil
}

// handlePickerKeys drives the INPUT_MODAL task and color picker.
func (m Model) handlePickerKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	tasks := m.machine.Tasks()

	switch msg.String() {
	case "esc":
		_ = m.machine.CancelInput()
	case "up", "k":
		if m.pickTask > 0 {
			m.pickTask--
		}
		if !m.colorPicked {
			m.pickColor = m.defaultColorIndex()
		}
	case "down", "j":
		if m.pickTask < len(tasks)-1 {
			m.pickTask++
		}
		if !m.colorPicked {
			m.pickColor = m.defaultColorIndex()
		}
	case "left", "h":
		m.pickColor = cycle(m.pickColor, -1, len(session.Colors()))
		m.colorPicked = true
	case "right", "l":
		m.pickColor = cycle(m.pickColor, 1, len(session.Colors()))
		m.colorPicked = true
	case "enter":
		var taskID int64
		if m.pickTask < len(tasks) {
			taskID = tasks[m.pickTask].ID
		}
		var color session.Color
		if m.colorPicked {
			color = session.Colors()[m.pickColor]
		}
		if err := m.machine.ChooseTask(taskID, color); err != nil {
			m.setStatus(describeError(err), true)
			return m, nil
		}
		m.setStatus("Select the first cell", false)
	}
	return m, nil
}

// handleSelectKeys handles SELECT_START and SELECT_END.
func (m Model) handleSelectKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if err := m.machine.CancelSelection(); err != nil {
			m.setStatus(describeError(err), true)
		}
		return m, nil
	case "enter", " ":
		return m.tap()
	}
	return m, nil
}

// handleEditKeys drives the EDIT_MODAL.
func (m Model) handleEditKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	tasks := m.machine.Tasks()

	switch msg.String() {
	case "esc":
		if err := m.machine.CancelEdit(); err != nil {
			m.setStatus(describeError(err), true)
		}
	case "up", "k", "down", "j":
		if len(tasks) == 0 {
			return m, nil
		}
		delta := 1
		if msg.String() == "up" || msg.String() == "k" {
			delta = -1
		}
		m.pickTask = cycle(m.pickTask, delta, len(tasks))
		if err := m.machine.EditTask(tasks[m.pickTask].ID); err != nil {
			m.setStatus(describeError(err), true)
		}
	case "left", "h", "right", "l":
		delta := 1
		if msg.String() == "left" || msg.String() == "h" {
			delta = -1
		}
		m.pickColor = cycle(m.pickColor, delta, len(session.Colors()))
		if err := m.machine.EditColor(session.Colors()[m.pickColor]); err != nil {
			m.setStatus(describeError(err), true)
		}
	case "enter":
		op, err := m.machine.ConfirmEdit()
		if err != nil {
			m.setStatus(describeError(err), true)
			return m, nil
		}
		m.setStatus("Saving...", false)
		return m, commands.RunOp(op)
	case "d", "x":
		op, err := m.machine.DeleteEdit()
		if err != nil {
			m.setStatus(describeError(err), true)
			return m, nil
		}
		m.setStatus("Deleting...", false)
		return m, commands.RunOp(op)
	}
	return m, nil
}

// handleTaskInputKeys adds a task from "subject: title" input.
func (m Model) handleTaskInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.panel = panelNone
		m.taskInput.Blur()
		return m, nil
	case "enter":
		subject, title := parseTaskInput(m.taskInput.Value())
		t, err := session.NewTask(m.config.Mentee.ID, m.machine.Anchor(), title, subject)
		if err != nil {
			m.setStatus(describeError(err), true)
			return m, nil
		}
		m.panel = panelNone
		m.taskInput.Blur()
		return m, commands.CreateTask(m.store, t)
	}

	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)
	return m, cmd
}

func (m Model) handleSummaryKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "c", "y":
		if m.summary == nil {
			return m, nil
		}
		return m, commands.CopyToClipboard(m.summary.Text())
	case "esc", "q", "enter":
		m.panel = panelNone
		m.summary = nil
	}
	return m, nil
}

func (m Model) handleInitKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		updated, err := m.initializeStorage()
		if err != nil {
			LogError("init", err)
			updated.setStatus(fmt.Sprintf("Error: %v", err), true)
			return updated, nil
		}
		return updated, updated.open()
	}
	return m, nil
}

// tap sends the cell under the cursor to the machine.
func (m Model) tap() (Model, tea.Cmd) {
	op, err := m.machine.TapSlot(grid.SlotID(m.cursor))
	if err != nil {
		if !errors.Is(err, scheduler.ErrBusy) && !scheduler.IsRejection(err) {
			LogError("tap", err)
		}
		m.setStatus(describeError(err), true)
		return m, nil
	}

	switch m.machine.State() {
	case scheduler.StateOverlayOpen:
		if op == nil {
			m.setStatus("Empty cell, press a to add a session", false)
		}
	case scheduler.StateSelectEnd:
		m.setStatus(fmt.Sprintf("Start %s, select the last cell", m.machine.Selection().Start), false)
	case scheduler.StateEditModal:
		m.openEditPicker()
	}

	if op != nil {
		m.setStatus("Saving...", false)
	}
	return m, commands.RunOp(op)
}

// openEditPicker points the picker at the edited session's task and color.
// A session whose task is gone starts with no task highlighted.
func (m *Model) openEditPicker() {
	edit := m.machine.Edit()
	m.pickTask = -1
	for i, t := range m.machine.Tasks() {
		if edit.Session.TaskID != nil && t.ID == *edit.Session.TaskID {
			m.pickTask = i
		}
	}
	m.pickColor = session.ColorIndex(edit.Color)
}

func (m Model) shiftDay(days int) (Model, tea.Cmd) {
	op, err := m.machine.ShiftDay(days)
	if err != nil {
		m.setStatus(describeError(err), true)
		return m, nil
	}
	return m, commands.RunOp(op)
}

// moveCursor handles grid navigation keys. Rows are hours, columns are
// 10-minute cells.
func (m *Model) moveCursor(key string) bool {
	next := m.cursor
	switch key {
	case "left", "h":
		next--
	case "right", "l":
		next++
	case "up", "k":
		next -= cellsPerRow
	case "down", "j":
		next += cellsPerRow
	case "home", "g":
		next = 0
	case "end", "G":
		next = grid.SlotsPerDay - 1
	default:
		return false
	}
	m.cursor = min(max(next, 0), grid.SlotsPerDay-1)
	LogCursorMove(m.cursor, grid.SlotID(m.cursor))
	return true
}

// defaultColorIndex is the picker color for the highlighted task.
func (m Model) defaultColorIndex() int {
	tasks := m.machine.Tasks()
	fallback := m.config.DefaultColor()
	if m.pickTask >= len(tasks) {
		return session.ColorIndex(fallback)
	}
	return session.ColorIndex(session.SubjectColor(tasks[m.pickTask].Subject, fallback))
}

// parseTaskInput splits "subject: title". Input without a colon is a
// title with no subject.
func parseTaskInput(s string) (subject, title string) {
	before, after, ok := strings.Cut(s, ":")
	if !ok {
		return "", strings.TrimSpace(s)
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

func cycle(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}
