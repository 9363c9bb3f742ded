// Package summary builds planner-day study reports.
package summary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/timetable/internal/dateutil"
	"github.com/javiermolinar/timetable/internal/llm"
	"github.com/javiermolinar/timetable/internal/session"
)

// OtherSubject groups sessions whose task had no subject.
const OtherSubject = "other"

// SubjectMinutes is the studied time for one subject.
type SubjectMinutes struct {
	Subject string
	Minutes int
}

// DaySummary holds aggregated planner-day data and optional insight.
type DaySummary struct {
	Anchor       time.Time
	Sessions     []session.Session
	Count        int
	TotalMinutes int
	BySubject    []SubjectMinutes
	Longest      *session.Session
	FirstSlot    string
	LastSlot     string
	Insight      string
}

// Lister loads the sessions of a planner day.
type Lister interface {
	FetchPlannerDay(ctx context.Context, menteeID int64, anchor time.Time) ([]session.Session, error)
}

// BuildDaySummaryOptions configures the synchronizer-backed summary builder.
type BuildDaySummaryOptions struct {
	Anchor         time.Time
	MenteeID       int64
	IncludeInsight bool
	Provider       string
	Model          string
	BaseURL        string
}

// SummarizeDay aggregates sessions that are already ordered by start.
func SummarizeDay(anchor time.Time, sessions []session.Session) *DaySummary {
	sum := &DaySummary{
		Anchor:   anchor,
		Sessions: sessions,
		Count:    len(sessions),
	}
	if len(sessions) == 0 {
		return sum
	}

	perSubject := make(map[string]int)
	for i := range sessions {
		s := sessions[i]
		m := s.Minutes()
		sum.TotalMinutes += m

		subject := strings.ToLower(strings.TrimSpace(s.Subject))
		if subject == "" {
			subject = OtherSubject
		}
		perSubject[subject] += m

		if sum.Longest == nil || m > sum.Longest.Minutes() {
			sum.Longest = &sessions[i]
		}
	}

	for subject, m := range perSubject {
		sum.BySubject = append(sum.BySubject, SubjectMinutes{Subject: subject, Minutes: m})
	}
	sort.Slice(sum.BySubject, func(i, j int) bool {
		if sum.BySubject[i].Minutes != sum.BySubject[j].Minutes {
			return sum.BySubject[i].Minutes > sum.BySubject[j].Minutes
		}
		return sum.BySubject[i].Subject < sum.BySubject[j].Subject
	})

	sum.FirstSlot = sessions[0].StartSlot
	sum.LastSlot = sessions[len(sessions)-1].EndSlot
	return sum
}

// BuildDaySummary loads the planner day and optionally adds insight.
func BuildDaySummary(ctx context.Context, lister Lister, opts BuildDaySummaryOptions) (*DaySummary, error) {
	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = dateutil.Today(time.Now())
	}

	sessions, err := lister.FetchPlannerDay(ctx, opts.MenteeID, anchor)
	if err != nil {
		return nil, fmt.Errorf("fetching sessions: %w", err)
	}

	sum := SummarizeDay(anchor, sessions)

	if opts.IncludeInsight && sum.Count > 0 {
		if opts.Model == "" {
			return nil, errors.New("model is required for insight")
		}
		client, err := llm.NewClient(opts.Provider, opts.Model, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("creating LLM client: %w", err)
		}

		insight, err := llm.NewEvaluator(client).EvaluateDay(ctx, anchor, sessions)
		if err != nil {
			return nil, fmt.Errorf("evaluating day: %w", err)
		}
		sum.Insight = insight
	}

	return sum, nil
}

// Text renders the summary as plain text for the clipboard and the CLI.
func (d *DaySummary) Text() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Study summary for %s\n", dateutil.FormatDay(d.Anchor))
	if d.Count == 0 {
		sb.WriteString("No sessions.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Sessions: %d  Total: %s  (%s-%s)\n",
		d.Count, llm.FormatDuration(d.TotalMinutes), d.FirstSlot, d.LastSlot)
	for _, sm := range d.BySubject {
		fmt.Fprintf(&sb, "  %-12s %s\n", sm.Subject, llm.FormatDuration(sm.Minutes))
	}
	if d.Longest != nil {
		fmt.Fprintf(&sb, "Longest: %s %s-%s (%s)\n",
			d.Longest.ContentLabel, d.Longest.StartSlot, d.Longest.EndSlot, llm.FormatDuration(d.Longest.Minutes()))
	}
	if d.Insight != "" {
		sb.WriteString("\n")
		sb.WriteString(d.Insight)
		sb.WriteString("\n")
	}
	return sb.String()
}
