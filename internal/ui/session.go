package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/dateutil"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/scheduler"
	"github.com/javiermolinar/timetable/internal/session"
)

type sessionAddInput struct {
	TaskID int64  `flag:"task" validate:"required,gt=0"`
	Start  string `flag:"start" validate:"required,slot"`
	End    string `flag:"end" validate:"required,slot"`
	Color  string `flag:"color" validate:"omitempty,color"`
}

type sessionEditInput struct {
	ID     int64  `flag:"session_id" validate:"gt=0"`
	TaskID int64  `flag:"task" validate:"gte=0"`
	Color  string `flag:"color" validate:"omitempty,color"`
}

// colorFlag normalizes a --color value. Empty means "not given".
func colorFlag(s string) (session.Color, error) {
	if s == "" {
		return "", nil
	}
	return session.ParseColor(s)
}

func (a *App) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "List, add, edit or delete study sessions",
	}

	cmd.AddCommand(a.sessionListCmd())
	cmd.AddCommand(a.sessionAddCmd())
	cmd.AddCommand(a.sessionEditCmd())
	cmd.AddCommand(a.sessionDeleteCmd())
	return cmd
}

func (a *App) sessionListCmd() *cobra.Command {
	var (
		date    string
		noGrid  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the sessions of a planner day",
		Long: `Show the study sessions of one planner day (06:00 to 02:00 the next
morning) followed by a compact grid of the day.`,
		Example: `  timetable session list
  timetable session list --date=yesterday
  timetable session list --date=2025-01-15 --no-grid`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			anchor, err := dateutil.ParsePlannerDate(date, a.now())
			if err != nil {
				return err
			}

			sync := session.NewSynchronizer(a.store)
			sessions, err := sync.ListForPlannerDay(cmd.Context(), a.config.Mentee.ID, anchor)
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "=== %s ===\n", formatHeader(anchor.Format("Monday, January 2, 2006")))
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(out, "No study sessions.")
			}
			for _, s := range sessions {
				printSessionRow(out, s, 24)
			}

			if !noGrid {
				_, _ = fmt.Fprintln(out)
				printDayGrid(out, sessions, gridCellWidth(termWidth()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Planner day (YYYY-MM-DD, today, yesterday, tomorrow, weekday)")
	cmd.Flags().BoolVar(&noGrid, "no-grid", false, "Skip the grid")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) sessionAddCmd() *cobra.Command {
	var (
		in   sessionAddInput
		date string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a study session",
		Long: `Add a study session for one of the day's tasks.

--start and --end name grid cells, both included: --start=09:00 --end=09:50
books 09:00 to 10:00. Without --color the task subject's color is used.`,
		Example: `  timetable session add --task=3 --start=09:00 --end=09:50
  timetable session add --task=3 --start=23:30 --end=00:20 --color=purple`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateInput(in); err != nil {
				return err
			}
			color, err := colorFlag(in.Color)
			if err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			anchor, err := dateutil.ParsePlannerDate(date, a.now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			m, err := a.openDay(ctx, anchor)
			if err != nil {
				return err
			}

			if err := m.BeginAdd(); err != nil {
				return err
			}
			if err := m.ChooseTask(in.TaskID, color); err != nil {
				return fmt.Errorf("task #%d on %s: %w", in.TaskID, anchor.Format("2006-01-02"), err)
			}
			if _, err := m.TapSlot(in.Start); err != nil {
				return err
			}
			op, err := m.TapSlot(in.End)
			if err != nil {
				return err
			}

			s, err := resolve(ctx, m, op)
			if err != nil {
				return fmt.Errorf("adding session: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added session #%d: %s %s-%s (%s)\n",
				s.ID, s.ContentLabel, s.StartSlot, s.EndSlot, FormatDuration(s.Minutes()))
			return nil
		},
	}

	cmd.Flags().Int64Var(&in.TaskID, "task", 0, "Task ID (see 'timetable task list')")
	cmd.Flags().StringVar(&in.Start, "start", "", "First cell (HH:MM)")
	cmd.Flags().StringVar(&in.End, "end", "", "Last cell, included (HH:MM)")
	cmd.Flags().StringVar(&in.Color, "color", "", "Color token: "+colorList())
	cmd.Flags().StringVar(&date, "date", "", "Planner day (default: today)")

	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) sessionEditCmd() *cobra.Command {
	var in sessionEditInput

	cmd := &cobra.Command{
		Use:   "edit [session_id]",
		Short: "Change a session's task or color",
		Long: `Reassign a study session to another task of the same day, or change its
color. The session's times never change; delete and add it again instead.`,
		Example: `  timetable session edit 12 --task=4
  timetable session edit 12 --color=green`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session ID: %w", err)
			}
			in.ID = id
			if err := validateInput(in); err != nil {
				return err
			}
			if in.TaskID == 0 && in.Color == "" {
				return fmt.Errorf("nothing to change: pass --task or --color")
			}
			color, err := colorFlag(in.Color)
			if err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			ctx := cmd.Context()
			m, err := a.openSession(ctx, id)
			if err != nil {
				return err
			}

			if in.TaskID != 0 {
				if err := m.EditTask(in.TaskID); err != nil {
					return fmt.Errorf("task #%d: %w", in.TaskID, err)
				}
			}
			if color != "" {
				if err := m.EditColor(color); err != nil {
					return err
				}
			}

			op, err := m.ConfirmEdit()
			if err != nil {
				return err
			}
			s, err := resolve(ctx, m, op)
			if err != nil {
				return fmt.Errorf("updating session: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated session #%d: %s %s-%s %s\n",
				s.ID, s.ContentLabel, s.StartSlot, s.EndSlot, s.Color)
			return nil
		},
	}

	cmd.Flags().Int64Var(&in.TaskID, "task", 0, "New task ID")
	cmd.Flags().StringVar(&in.Color, "color", "", "New color token: "+colorList())
	return cmd
}

func (a *App) sessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [session_id]",
		Short: "Delete a study session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session ID: %w", err)
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			ctx := cmd.Context()
			m, err := a.openSession(ctx, id)
			if err != nil {
				return err
			}
			label := m.Edit().Session.ContentLabel

			op, err := m.DeleteEdit()
			if err != nil {
				return err
			}
			if _, err := resolve(ctx, m, op); err != nil {
				return fmt.Errorf("deleting session: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted session #%d: %s\n", id, label)
			return nil
		},
	}
}

// openDay opens the planner day anchored at anchor and loads it.
func (a *App) openDay(ctx context.Context, anchor time.Time) (*scheduler.Machine, error) {
	m := a.machine()
	op, err := m.Open(anchor)
	if err != nil {
		return nil, err
	}
	if err := m.Run(ctx, op); err != nil {
		return nil, fmt.Errorf("loading %s: %w", anchor.Format("2006-01-02"), err)
	}
	return m, nil
}

// openSession loads the planner day holding session id and taps it, which
// leaves the machine in the edit modal for that session.
func (a *App) openSession(ctx context.Context, id int64) (*scheduler.Machine, error) {
	stored, err := a.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.MenteeID != a.config.Mentee.ID {
		return nil, fmt.Errorf("%w: %d", session.ErrSessionNotFound, id)
	}

	start := stored.StartTime.In(a.now().Location())
	m, err := a.openDay(ctx, grid.AnchorDate(start))
	if err != nil {
		return nil, err
	}
	if _, err := m.TapSlot(grid.DateToGridTime(start)); err != nil {
		return nil, err
	}
	if m.State() != scheduler.StateEditModal {
		return nil, fmt.Errorf("%w: %d", session.ErrSessionNotFound, id)
	}
	return m, nil
}

// resolve runs op and returns the session it wrote.
func resolve(ctx context.Context, m *scheduler.Machine, op scheduler.Op) (session.Session, error) {
	if op == nil {
		return session.Session{}, fmt.Errorf("no change to save")
	}
	res := op(ctx)
	if err := m.Resolve(res); err != nil {
		return session.Session{}, err
	}
	return res.Session, nil
}
