package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/scheduler"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.stateName()
	updated, cmd := m.update(msg)
	if after := updated.stateName(); after != before {
		LogTransition(before, after, fmt.Sprintf("%T", msg))
	}
	return updated, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case commands.OpResultMsg:
		return m.handleOpResult(msg.Result)

	case commands.TaskCreatedMsg:
		m.setStatus(fmt.Sprintf("Added task %q", msg.Task.Title), false)
		return m, m.refresh()

	case commands.DaySummaryMsg:
		m.summary = msg.Summary
		m.panel = panelSummary
		m.statusMsg = ""
		return m, nil

	case commands.ErrMsg:
		LogError("command", msg.Err)
		m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)
		return m, nil

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg, false)
		return m, nil
	}

	if m.panel == panelNewTask {
		var cmd tea.Cmd
		m.taskInput, cmd = m.taskInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleOpResult feeds a finished store call back into the machine.
func (m Model) handleOpResult(res scheduler.Result) (Model, tea.Cmd) {
	if m.machine == nil {
		return m, nil
	}
	if err := m.machine.Resolve(res); err != nil {
		LogError(res.Kind.String(), err)
		m.setStatus(describeError(err), true)
		return m, nil
	}

	switch res.Kind {
	case scheduler.OpLoad:
		m.statusMsg = ""
	case scheduler.OpCreate:
		m.setStatus(fmt.Sprintf("Saved %s %s-%s", res.Session.ContentLabel, res.Session.StartSlot, res.Session.EndSlot), false)
	case scheduler.OpUpdate:
		m.setStatus(fmt.Sprintf("Updated %s", res.Session.ContentLabel), false)
	case scheduler.OpDelete:
		m.setStatus(fmt.Sprintf("Deleted %s", res.Session.ContentLabel), false)
	}
	return m, nil
}

// refresh reloads the open day when the machine allows it.
func (m Model) refresh() tea.Cmd {
	if m.machine == nil {
		return nil
	}
	op, err := m.machine.Refresh()
	if err != nil {
		return nil
	}
	return commands.RunOp(op)
}

// describeError turns machine and store errors into status line text.
func describeError(err error) string {
	var rej *session.RejectionError
	switch {
	case errors.Is(err, scheduler.ErrBusy):
		return "Still saving, try again"
	case errors.As(err, &rej) && rej.Conflict != nil:
		return fmt.Sprintf("Overlaps %s (%s-%s)", rej.Conflict.ContentLabel, rej.Conflict.StartSlot, rej.Conflict.EndSlot)
	case errors.Is(err, session.ErrEndBeforeStart):
		return "End must come after start"
	case errors.Is(err, scheduler.ErrNotLoaded), errors.Is(err, session.ErrDayNotLoaded):
		return "Day not loaded, press r to retry"
	case errors.Is(err, scheduler.ErrNoTasks):
		return "No tasks for this day, press n to add one"
	case errors.Is(err, session.ErrOverlap):
		return "Overlaps another session"
	}
	return fmt.Sprintf("Error: %v", err)
}
