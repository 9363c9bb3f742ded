package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/timetable/internal/session"
)

// Color definitions for consistent styling across the UI.
var (
	// Insight/results: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for totals
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Orphan sessions whose task is gone
	colorOrphan = color.New(color.FgWhite, color.Faint, color.Italic)
)

// tokenColors approximates the session color tokens with terminal colors.
var tokenColors = map[session.Color]*color.Color{
	session.ColorRed:    color.New(color.FgRed),
	session.ColorOrange: color.New(color.FgHiRed),
	session.ColorYellow: color.New(color.FgYellow),
	session.ColorGreen:  color.New(color.FgGreen),
	session.ColorBlue:   color.New(color.FgBlue),
	session.ColorPurple: color.New(color.FgMagenta),
	session.ColorPink:   color.New(color.FgHiMagenta),
	session.ColorGray:   color.New(color.FgHiBlack),
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatToken paints s in the session's color token.
func formatToken(c session.Color, s string) string {
	if p, ok := tokenColors[c]; ok {
		return p.Sprint(s)
	}
	return s
}

// formatInsight formats text for insight/coaching output.
func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatOrphan(s string) string {
	return colorOrphan.Sprint(s)
}
