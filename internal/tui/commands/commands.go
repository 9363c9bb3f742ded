// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/scheduler"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/summary"
)

// OpResultMsg carries the Result of a scheduler Op back to the model.
type OpResultMsg struct {
	Result scheduler.Result
}

// TaskCreatedMsg is sent when a task was added from the TUI.
type TaskCreatedMsg struct {
	Task *session.Task
}

// DaySummaryMsg is sent when the day summary is ready.
type DaySummaryMsg struct {
	Summary *summary.DaySummary
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// TaskCreator persists tasks.
type TaskCreator interface {
	CreateTask(ctx context.Context, t *session.Task) error
}

// RunOp runs op off the update loop. A nil op yields a nil command.
func RunOp(op scheduler.Op) tea.Cmd {
	if op == nil {
		return nil
	}
	return func() tea.Msg {
		return OpResultMsg{Result: op(context.Background())}
	}
}

// CreateTask stores a new task for the open day.
func CreateTask(store TaskCreator, t *session.Task) tea.Cmd {
	return func() tea.Msg {
		if err := store.CreateTask(context.Background(), t); err != nil {
			return ErrMsg{Err: fmt.Errorf("creating task: %w", err)}
		}
		return TaskCreatedMsg{Task: t}
	}
}

// DaySummary builds the summary of the planner day anchored at anchor.
func DaySummary(cfg *config.Config, lister summary.Lister, anchor time.Time, insight bool) tea.Cmd {
	return func() tea.Msg {
		daySummary, err := summary.BuildDaySummary(context.Background(), lister, summary.BuildDaySummaryOptions{
			Anchor:         anchor,
			MenteeID:       cfg.Mentee.ID,
			IncludeInsight: insight,
			Provider:       cfg.LLM.Provider,
			Model:          cfg.LLM.Model,
			BaseURL:        cfg.LLM.BaseURL,
		})
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DaySummaryMsg{Summary: daySummary}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying summary: %w", err)}
		}
		return StatusMsgCmd{Msg: "Summary copied to clipboard"}
	}
}
