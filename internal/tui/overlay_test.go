package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func testBase(width, height int) string {
	row := strings.Repeat(".", width)
	return strings.Repeat(row+"\n", height-1) + row
}

func TestOverlaySetActive(t *testing.T) {
	overlay := NewOverlay(lipgloss.Color("#000000"))
	if overlay.Active() {
		t.Fatalf("expected overlay to start inactive")
	}

	overlay.SetActive(true)
	if !overlay.Active() {
		t.Fatalf("expected overlay to be active")
	}
}

func TestOverlayRenderInactiveReturnsBase(t *testing.T) {
	overlay := NewOverlay(lipgloss.Color("#000000"))
	base := "alpha\nbeta"
	if got := overlay.Render(base, 10, 2, "content"); got != base {
		t.Fatalf("expected base content unchanged when inactive")
	}
}

func TestOverlayRenderCentersContent(t *testing.T) {
	overlay := NewOverlay(lipgloss.Color("#0c0c0c"))
	overlay.SetActive(true)

	width, height := 40, 12
	content := "PICK A TASK"
	got := overlay.Render(testBase(width, height), width, height, content)

	lines := strings.Split(got, "\n")
	if len(lines) != height {
		t.Fatalf("expected %d lines, got %d", height, len(lines))
	}

	boxW, boxH := overlay.boxSize(splitContent(content), width, height)
	top := (height - boxH) / 2
	bgSeq := ansi.Style{}.BackgroundColor(ansi.HexColor("#0c0c0c")).String()

	if !strings.Contains(ansi.Strip(got), content) {
		t.Fatalf("expected rendered content to include %q", content)
	}
	if boxW != overlayMinWidth {
		t.Fatalf("box width = %d, want minimum %d", boxW, overlayMinWidth)
	}

	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Fatalf("line %d width = %d, want %d", i, w, width)
		}
		hasBg := strings.Contains(line, bgSeq)
		inBox := i >= top && i < top+boxH
		if inBox != hasBg {
			t.Fatalf("line %d backdrop = %t, want %t", i, hasBg, inBox)
		}
	}
}

func TestOverlayRenderClampsToScreen(t *testing.T) {
	overlay := NewOverlay(lipgloss.Color("#123456"))
	overlay.SetActive(true)

	content := strings.Repeat("x", 50) + "\n" + strings.Repeat("y", 50)
	got := overlay.Render(testBase(20, 3), 20, 3, content)

	for i, line := range strings.Split(got, "\n") {
		if w := lipgloss.Width(line); w != 20 {
			t.Fatalf("line %d width = %d, want 20", i, w)
		}
	}
}
