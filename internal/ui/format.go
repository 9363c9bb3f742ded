package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/summary"
)

const (
	gridHourWidth = 6 // "06:00 "
	minGridCell   = 2
	maxGridCell   = 12
	cellsPerHour  = 60 / grid.SlotMinutes
)

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// printSessionRow prints one session in slot space.
//
//	#12  09:00-10:30  ● Fractions        [math]  1h30m
func printSessionRow(w io.Writer, s session.Session, labelWidth int) {
	label := s.ContentLabel
	if len(label) > labelWidth {
		label = label[:labelWidth-3] + "..."
	}
	label = fmt.Sprintf("%-*s", labelWidth, label)
	if !s.HasTask() {
		label = formatOrphan(label)
	}

	_, _ = fmt.Fprintf(w, "  #%-4d %s-%s  %s %s  %s  %s\n",
		s.ID,
		s.StartSlot,
		s.EndSlot,
		formatToken(s.Color, "●"),
		label,
		formatMuted("["+subjectOrOther(s.Subject)+"]"),
		formatMuted(FormatDuration(s.Minutes())))
}

// gridCellWidth fits six cells and the hour column into width.
func gridCellWidth(width int) int {
	return min(max((width-gridHourWidth)/cellsPerHour, minGridCell), maxGridCell)
}

// printDayGrid prints the planner day as 20 hour rows of six cells. Session
// cells carry their label in the session's color, continuing across cells.
func printDayGrid(w io.Writer, sessions []session.Session, cellWidth int) {
	_, _ = fmt.Fprint(w, strings.Repeat(" ", gridHourWidth))
	for c := 0; c < cellsPerHour; c++ {
		_, _ = fmt.Fprint(w, formatMuted(padCell(fmt.Sprintf(":%02d", c*grid.SlotMinutes), cellWidth)))
	}
	_, _ = fmt.Fprintln(w)

	for r := 0; r < grid.SlotsPerDay/cellsPerHour; r++ {
		_, _ = fmt.Fprintf(w, "%-*s", gridHourWidth, grid.SlotID(r*cellsPerHour))
		for c := 0; c < cellsPerHour; c++ {
			_, _ = fmt.Fprint(w, gridCell(r*cellsPerHour+c, sessions, cellWidth))
		}
		_, _ = fmt.Fprintln(w)
	}
}

func gridCell(idx int, sessions []session.Session, width int) string {
	slotID := grid.SlotID(idx)
	for _, s := range sessions {
		if !s.ContainsSlot(slotID) {
			continue
		}
		start, err := grid.SlotIndex(s.StartSlot)
		if err != nil {
			break
		}
		chunk := labelChunk(s.ContentLabel, idx-start, width-1)
		if chunk == "" {
			chunk = strings.Repeat("█", width-1)
		}
		cell := padCell(chunk, width)
		if !s.HasTask() {
			return formatOrphan(cell)
		}
		return formatToken(s.Color, cell)
	}
	return formatMuted(padCell("·", width))
}

// labelChunk returns the runes of label shown in the offset-th cell.
func labelChunk(label string, offset, width int) string {
	runes := []rune(label)
	from := offset * width
	if offset < 0 || width <= 0 || from >= len(runes) {
		return ""
	}
	return string(runes[from:min(from+width, len(runes))])
}

// padCell pads s to width runes, leaving the last column as a gap.
func padCell(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// printSummary prints a day summary with per-subject bars.
func printSummary(w io.Writer, ds *summary.DaySummary) {
	_, _ = fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(ds.Anchor.Format("Monday, January 2, 2006")))

	if ds.Count == 0 {
		_, _ = fmt.Fprintln(w, "No study sessions.")
		return
	}

	_, _ = fmt.Fprintf(w, "  Sessions: %d  |  Total: %s  |  %s-%s\n",
		ds.Count,
		formatStats(FormatDuration(ds.TotalMinutes)),
		ds.FirstSlot,
		ds.LastSlot)
	_, _ = fmt.Fprintln(w)

	for _, sm := range ds.BySubject {
		_, _ = fmt.Fprintf(w, "  %-12s %s %s\n",
			sm.Subject,
			SubjectBar(sm.Minutes, ds.TotalMinutes, 20),
			formatMuted(FormatDuration(sm.Minutes)))
	}

	if ds.Longest != nil {
		_, _ = fmt.Fprintf(w, "\n  Longest: %s %s-%s (%s)\n",
			ds.Longest.ContentLabel,
			ds.Longest.StartSlot,
			ds.Longest.EndSlot,
			FormatDuration(ds.Longest.Minutes()))
	}

	if ds.Insight != "" {
		_, _ = fmt.Fprintln(w)
		PrintInsightWrapped(w, ds.Insight, min(termWidth(), 80))
	}
}

// SubjectBar creates an ASCII bar showing a subject's share of the day.
func SubjectBar(minutes, totalMinutes, width int) string {
	if totalMinutes == 0 {
		return "[" + strings.Repeat("░", width) + "]   0%"
	}

	pct := (minutes * 100) / totalMinutes
	filled := (minutes * width) / totalMinutes

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %3d%%", formatStats(bar), pct)
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	text = stripMarkdownCodeBlocks(text)

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			_, _ = fmt.Fprintln(w)
			continue
		}

		prefix, content, contentWidth, isHeader := parseInsightLine(trimmed, width)
		if isHeader {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
// Returns: prefix, content, contentWidth, isHeader
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, "FOCUS:") || trimmed == "TOMORROW:":
		isHeader = true

	case isNumberedItem(trimmed):
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	if s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.' {
		return true
	}
	return false
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	continuationPrefix := strings.Repeat(" ", len(prefix))
	isFirstLine := true

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			printLine(w, prefix, continuationPrefix, line, isFirstLine)
			isFirstLine = false
			line = word
		}
	}

	if line != "" {
		printLine(w, prefix, continuationPrefix, line, isFirstLine)
	}
}

func printLine(w io.Writer, prefix, continuationPrefix, line string, isFirstLine bool) {
	if isFirstLine {
		_, _ = fmt.Fprintln(w, formatInsight(prefix+line))
	} else {
		_, _ = fmt.Fprintln(w, formatInsight(continuationPrefix+line))
	}
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
