package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/timetable/internal/session"
)

var anchor = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func studied(label, subject, start, end string, startOffset, endOffset time.Duration) session.Session {
	return session.Session{
		ContentLabel: label,
		Subject:      subject,
		StartSlot:    start,
		EndSlot:      end,
		StartTime:    anchor.Add(startOffset),
		EndTime:      anchor.Add(endOffset),
	}
}

func daySessions() []session.Session {
	return []session.Session{
		studied("Fractions", "math", "09:00", "10:00", 9*time.Hour, 10*time.Hour),
		studied("Essay", "english", "14:00", "14:30", 14*time.Hour, 14*time.Hour+30*time.Minute),
		studied("Geometry", "Math", "16:00", "16:40", 16*time.Hour, 16*time.Hour+40*time.Minute),
		studied("Reading", "", "00:10", "00:30", 24*time.Hour+10*time.Minute, 24*time.Hour+30*time.Minute),
	}
}

func TestSummarizeDay(t *testing.T) {
	sum := SummarizeDay(anchor, daySessions())

	if sum.Count != 4 {
		t.Fatalf("count = %d, want 4", sum.Count)
	}
	if sum.TotalMinutes != 150 {
		t.Fatalf("total = %d, want 150", sum.TotalMinutes)
	}
	if sum.FirstSlot != "09:00" || sum.LastSlot != "00:30" {
		t.Fatalf("span = %s-%s, want 09:00-00:30", sum.FirstSlot, sum.LastSlot)
	}
	if sum.Longest == nil || sum.Longest.ContentLabel != "Fractions" {
		t.Fatalf("longest = %+v, want Fractions", sum.Longest)
	}

	want := []SubjectMinutes{
		{Subject: "math", Minutes: 100},
		{Subject: "english", Minutes: 30},
		{Subject: OtherSubject, Minutes: 20},
	}
	if len(sum.BySubject) != len(want) {
		t.Fatalf("by subject = %+v, want %+v", sum.BySubject, want)
	}
	for i := range want {
		if sum.BySubject[i] != want[i] {
			t.Errorf("by subject[%d] = %+v, want %+v", i, sum.BySubject[i], want[i])
		}
	}
}

func TestSummarizeDay_Empty(t *testing.T) {
	sum := SummarizeDay(anchor, nil)
	if sum.Count != 0 || sum.TotalMinutes != 0 || sum.Longest != nil {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if !strings.Contains(sum.Text(), "No sessions.") {
		t.Errorf("text = %q", sum.Text())
	}
}

func TestDaySummaryText(t *testing.T) {
	sum := SummarizeDay(anchor, daySessions())
	sum.Insight = "FOCUS: maths first"

	text := sum.Text()
	for _, want := range []string{
		"Study summary for Wed Jan 15",
		"Sessions: 4  Total: 2h30m  (09:00-00:30)",
		"  math ",
		"1h40m",
		"  other ",
		"Longest: Fractions 09:00-10:00 (1h)",
		"FOCUS: maths first",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
}

type stubLister struct {
	sessions []session.Session
	err      error
	menteeID int64
	anchor   time.Time
}

func (s *stubLister) FetchPlannerDay(_ context.Context, menteeID int64, anchor time.Time) ([]session.Session, error) {
	s.menteeID = menteeID
	s.anchor = anchor
	return s.sessions, s.err
}

func TestBuildDaySummary(t *testing.T) {
	lister := &stubLister{sessions: daySessions()}

	sum, err := BuildDaySummary(context.Background(), lister, BuildDaySummaryOptions{
		Anchor:   anchor,
		MenteeID: 7,
	})
	if err != nil {
		t.Fatalf("BuildDaySummary: %v", err)
	}
	if lister.menteeID != 7 || !lister.anchor.Equal(anchor) {
		t.Fatalf("lister called with %d %v", lister.menteeID, lister.anchor)
	}
	if sum.TotalMinutes != 150 || sum.Insight != "" {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestBuildDaySummary_Errors(t *testing.T) {
	down := errors.New("store down")

	if _, err := BuildDaySummary(context.Background(), &stubLister{err: down}, BuildDaySummaryOptions{Anchor: anchor}); !errors.Is(err, down) {
		t.Fatalf("error = %v, want wrapped store error", err)
	}

	_, err := BuildDaySummary(context.Background(), &stubLister{sessions: daySessions()}, BuildDaySummaryOptions{
		Anchor:         anchor,
		IncludeInsight: true,
	})
	if err == nil || !strings.Contains(err.Error(), "model is required") {
		t.Fatalf("error = %v, want missing model", err)
	}
}

func TestBuildDaySummary_InsightSkippedWhenEmpty(t *testing.T) {
	sum, err := BuildDaySummary(context.Background(), &stubLister{}, BuildDaySummaryOptions{
		Anchor:         anchor,
		IncludeInsight: true,
	})
	if err != nil {
		t.Fatalf("BuildDaySummary: %v", err)
	}
	if sum.Count != 0 || sum.Insight != "" {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}
