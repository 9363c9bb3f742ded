package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	overlayMinWidth  = 24
	overlayMinHeight = 5
)

// Overlay composites a modal box over the grid. The box is filled with the
// backdrop color and the modal content is centered inside it.
type Overlay struct {
	active  bool
	bgColor lipgloss.Color
}

// NewOverlay returns an inactive overlay.
func NewOverlay(bg lipgloss.Color) Overlay {
	return Overlay{bgColor: bg}
}

// SetActive shows or hides the overlay.
func (o *Overlay) SetActive(active bool) {
	o.active = active
}

// Active reports whether the overlay is visible.
func (o Overlay) Active() bool {
	return o.active
}

// Render draws content over base, which is width by height cells.
func (o Overlay) Render(base string, width, height int, content string) string {
	if !o.active || width <= 0 || height <= 0 {
		return base
	}

	contentLines := splitContent(content)
	boxW, boxH := o.boxSize(contentLines, width, height)
	if boxW <= 0 || boxH <= 0 {
		return base
	}

	top := max((height-boxH)/2, 0)
	left := max((width-boxW)/2, 0)

	baseLines := normalizeLines(base, width, height)
	box := o.fill(contentLines, boxW, boxH)

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		if row < top || row >= top+boxH {
			lines = append(lines, baseLines[row])
			continue
		}
		leftSlice := ansi.Cut(baseLines[row], 0, left)
		rightSlice := ansi.Cut(baseLines[row], left+boxW, width)
		lines = append(lines, leftSlice+box[row-top]+rightSlice)
	}

	return strings.Join(lines, "\n")
}

// boxSize grows the box to fit content plus a one cell margin, clamped to
// the screen.
func (o Overlay) boxSize(content []string, width, height int) (int, int) {
	contentW, contentH := contentSize(content)
	boxW := max(contentW+2, overlayMinWidth)
	boxH := max(contentH+2, overlayMinHeight)
	return min(boxW, width), min(boxH, height)
}

func (o Overlay) fill(content []string, width, height int) []string {
	bgSeq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(o.bgColor))).String()
	blank := bgSeq + strings.Repeat(" ", width) + ansi.ResetStyle

	lines := make([]string, height)
	for i := range lines {
		lines[i] = blank
	}

	contentW, contentH := contentSize(content)
	contentW = min(contentW, width)
	contentH = min(contentH, height)
	top := max((height-contentH)/2, 0)
	left := max((width-contentW)/2, 0)

	for i := 0; i < contentH; i++ {
		line := content[i]
		lineWidth := lipgloss.Width(line)
		if lineWidth > contentW {
			line = ansi.Cut(line, 0, contentW)
			lineWidth = contentW
		}
		line += strings.Repeat(" ", contentW-lineWidth)
		// Resets inside content would otherwise punch holes in the backdrop.
		line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
		line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)

		rightPad := max(width-left-contentW, 0)
		lines[top+i] = bgSeq + strings.Repeat(" ", left) + line + bgSeq + strings.Repeat(" ", rightPad) + ansi.ResetStyle
	}

	return lines
}

func splitContent(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func contentSize(lines []string) (int, int) {
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}
	return maxWidth, len(lines)
}

// normalizeLines pads or cuts base to exactly width by height cells.
func normalizeLines(base string, width, height int) []string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	for i, line := range lines {
		lineWidth := lipgloss.Width(line)
		switch {
		case lineWidth > width:
			lines[i] = ansi.Cut(line, 0, width)
		case lineWidth < width:
			lines[i] = line + strings.Repeat(" ", width-lineWidth)
		}
	}
	return lines
}
