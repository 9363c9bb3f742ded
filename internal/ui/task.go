package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/dateutil"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/summary"
)

type taskAddInput struct {
	Title   string `flag:"title" validate:"notblank,max=120"`
	Subject string `flag:"subject" validate:"max=40"`
}

func (a *App) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks sessions are booked for",
	}

	cmd.AddCommand(a.taskAddCmd())
	cmd.AddCommand(a.taskListCmd())
	cmd.AddCommand(a.taskRenameCmd())
	cmd.AddCommand(a.taskDeleteCmd())
	return cmd
}

func (a *App) taskAddCmd() *cobra.Command {
	var (
		in   taskAddInput
		date string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task for a day",
		Example: `  timetable task add "Fractions worksheet" --subject=math
  timetable task add "Essay draft" --subject=english --date=tomorrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			if err := validateInput(in); err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			anchor, err := dateutil.ParsePlannerDate(date, a.now())
			if err != nil {
				return err
			}

			t, err := session.NewTask(a.config.Mentee.ID, anchor, in.Title, in.Subject)
			if err != nil {
				return err
			}
			if err := a.store.CreateTask(cmd.Context(), t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d: %s %s\n",
				t.ID, t.Title, formatMuted(fmt.Sprintf("[%s] %s", subjectOrOther(t.Subject), t.Date.Format("2006-01-02"))))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Subject, "subject", "", "Subject, e.g. math (picks the default color)")
	cmd.Flags().StringVar(&date, "date", "", "Day the task belongs to (default: today)")
	return cmd
}

func (a *App) taskListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			anchor, err := dateutil.ParsePlannerDate(date, a.now())
			if err != nil {
				return err
			}

			tasks, err := a.store.FetchTasksForDay(cmd.Context(), a.config.Mentee.ID, anchor)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				_, _ = fmt.Fprintf(out, "No tasks for %s.\n", anchor.Format("2006-01-02"))
				return nil
			}

			_, _ = fmt.Fprintf(out, "=== %s ===\n", formatHeader(anchor.Format("Monday, January 2, 2006")))
			for _, t := range tasks {
				c := session.SubjectColor(t.Subject, a.config.DefaultColor())
				_, _ = fmt.Fprintf(out, "  #%-4d %s %s  %s\n",
					t.ID, formatToken(c, "●"), t.Title, formatMuted("["+subjectOrOther(t.Subject)+"]"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (default: today)")
	return cmd
}

func (a *App) taskRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [task_id] [title]",
		Short: "Rename a task",
		Long: `Rename a task. Sessions already booked keep the old label until they
are edited; new sessions use the new title.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}
			in := taskAddInput{Title: args[1]}
			if err := validateInput(in); err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			t, err := a.ownedTask(cmd, id)
			if err != nil {
				return err
			}
			if err := a.store.RenameTask(cmd.Context(), id, in.Title); err != nil {
				return fmt.Errorf("renaming task: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed task #%d: %s -> %s\n", id, t.Title, strings.TrimSpace(in.Title))
			return nil
		},
	}
}

func (a *App) taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task_id]",
		Short: "Delete a task",
		Long: `Delete a task. Sessions booked for it stay on the grid with the label
they were saved with, shown as orphaned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			t, err := a.ownedTask(cmd, id)
			if err != nil {
				return err
			}
			if err := a.store.DeleteTask(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d: %s\n", id, t.Title)
			return nil
		},
	}
}

// ownedTask loads task id, hiding tasks of other mentees.
func (a *App) ownedTask(cmd *cobra.Command, id int64) (*session.Task, error) {
	t, err := a.store.GetTask(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if t.MenteeID != a.config.Mentee.ID {
		return nil, fmt.Errorf("%w: %d", session.ErrTaskNotFound, id)
	}
	return t, nil
}

func subjectOrOther(subject string) string {
	if subject == "" {
		return summary.OtherSubject
	}
	return subject
}
