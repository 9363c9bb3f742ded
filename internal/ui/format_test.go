package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/timetable/internal/session"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{10, "10m"},
		{60, "1h"},
		{130, "2h10m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestSubjectBar(t *testing.T) {
	if got := SubjectBar(0, 0, 4); got != "[░░░░]   0%" {
		t.Errorf("empty bar = %q", got)
	}
	if got := SubjectBar(30, 60, 4); got != "[██░░]  50%" {
		t.Errorf("half bar = %q", got)
	}
	if got := SubjectBar(60, 60, 4); got != "[████] 100%" {
		t.Errorf("full bar = %q", got)
	}
}

func TestGridCellWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 20, want: minGridCell},
		{width: 42, want: 6},
		{width: 200, want: maxGridCell},
	}
	for _, tt := range tests {
		if got := gridCellWidth(tt.width); got != tt.want {
			t.Errorf("gridCellWidth(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestPrintDayGrid(t *testing.T) {
	anchor := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	taskID := int64(1)
	sessions := []session.Session{
		{
			ID: 1, TaskID: &taskID, ContentLabel: "Algebra", Color: session.ColorBlue,
			StartTime: anchor.Add(6 * time.Hour), EndTime: anchor.Add(6*time.Hour + 30*time.Minute),
			StartSlot: "06:00", EndSlot: "06:30",
		},
	}

	var buf bytes.Buffer
	printDayGrid(&buf, sessions, 4)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	if len(lines) != 21 {
		t.Fatalf("grid has %d lines, want header + 20 hour rows", len(lines))
	}
	if want := "06:00 Alg ebr a   ·   ·   ·   "; lines[1] != want {
		t.Errorf("first row = %q, want %q", lines[1], want)
	}
	if !strings.HasPrefix(lines[20], "01:00 ·") {
		t.Errorf("last row = %q", lines[20])
	}
}

func TestPrintSessionRow(t *testing.T) {
	anchor := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	s := session.Session{
		ID: 7, ContentLabel: "A very long label that will not fit", Color: session.ColorPink,
		StartTime: anchor.Add(25 * time.Hour), EndTime: anchor.Add(25*time.Hour + 50*time.Minute),
		StartSlot: "01:00", EndSlot: "01:50",
	}

	var buf bytes.Buffer
	printSessionRow(&buf, s, 12)
	out := buf.String()

	for _, want := range []string{"#7", "01:00-01:50", "A very lo...", "[other]", "50m"} {
		if !strings.Contains(out, want) {
			t.Errorf("row missing %q: %q", want, out)
		}
	}
}

func TestLabelChunk(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, "Alg"},
		{1, "ebr"},
		{2, "a"},
		{3, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := labelChunk("Algebra", tt.offset, 3); got != tt.want {
			t.Errorf("labelChunk offset %d = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestPrintInsightWrapped(t *testing.T) {
	text := "```\nFOCUS: steady maths\n\n📚 BALANCE: Most of the day went to maths with a short english block.\n- one\n```"
	var buf bytes.Buffer
	PrintInsightWrapped(&buf, stripMarkdownCodeBlocks(text), 30)
	out := buf.String()

	if strings.Contains(out, "```") {
		t.Errorf("code fences not stripped: %q", out)
	}
	if !strings.Contains(out, "  FOCUS: steady maths") {
		t.Errorf("header missing: %q", out)
	}
	if !strings.Contains(out, "    • one") {
		t.Errorf("bullet missing: %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 32 {
			t.Errorf("line not wrapped: %q", line)
		}
	}
}

func TestIsNumberedItem(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1. first", true},
		{"10. tenth", true},
		{"0. zero", false},
		{"a. letter", false},
		{"1", false},
	}
	for _, tt := range tests {
		if got := isNumberedItem(tt.in); got != tt.want {
			t.Errorf("isNumberedItem(%q) = %t, want %t", tt.in, got, tt.want)
		}
	}
}
