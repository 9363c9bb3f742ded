package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/dateutil"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var (
		date    string
		insight bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize a planner day of study",
		Long: `Show how much was studied on a planner day, split by subject.

With --insight the day is also sent to the configured LLM provider for a
short study coach review.`,
		Example: `  timetable summary
  timetable summary --date=yesterday --insight`,
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

			if insight {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), formatMuted("Asking the study coach..."))
			}

			ds, err := summary.BuildDaySummary(cmd.Context(), session.NewSynchronizer(a.store), summary.BuildDaySummaryOptions{
				Anchor:         anchor,
				MenteeID:       a.config.Mentee.ID,
				IncludeInsight: insight,
				Provider:       a.config.LLM.Provider,
				Model:          a.config.LLM.Model,
				BaseURL:        a.config.LLM.BaseURL,
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), ds)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Planner day (default: today)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Add an LLM study coach review")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
