package theme

import (
	"testing"

	"github.com/javiermolinar/timetable/internal/session"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
	}{
		{name: "load mocha theme", themeName: "mocha", wantName: "mocha"},
		{name: "load latte theme", themeName: "latte", wantName: "latte"},
		{name: "case insensitive", themeName: "Latte", wantName: "latte"},
		{name: "empty name defaults to mocha", themeName: "", wantName: "mocha"},
		{name: "invalid theme falls back to mocha", themeName: "nonexistent", wantName: "mocha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", tt.themeName, err)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.themeName, theme.Name, tt.wantName)
			}
		})
	}
}

func TestLoad_ThemeColors(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			theme, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%s) unexpected error: %v", name, err)
			}

			colors := map[string]string{
				"Bg":          theme.Bg,
				"BgHighlight": theme.BgHighlight,
				"BgSelection": theme.BgSelection,
				"Fg":          theme.Fg,
				"FgMuted":     theme.FgMuted,
				"Accent":      theme.Accent,
				"Current":     theme.Current,
				"Warning":     theme.Warning,
				"BaseBg":      theme.Modal.BaseBg,
				"ModalBorder": theme.Modal.ModalBorder,
				"TextPrimary": theme.Modal.TextPrimary,
				"TextMuted":   theme.Modal.TextMuted,
				"Highlight":   theme.Modal.Highlight,
			}
			for _, c := range session.Colors() {
				colors[string(c)] = theme.Hex(c)
			}

			for key, hex := range colors {
				if len(hex) != 7 || hex[0] != '#' {
					t.Errorf("theme.%s = %q, want 7-char hex string", key, hex)
				}
			}
		})
	}
}

func TestHex_FallsBackToAccent(t *testing.T) {
	theme := &Theme{Accent: "#123456", Session: SessionColors{Blue: "#0000ff"}}

	if got := theme.Hex(session.ColorBlue); got != "#0000ff" {
		t.Errorf("Hex(blue) = %q, want #0000ff", got)
	}
	if got := theme.Hex(session.ColorGreen); got != "#123456" {
		t.Errorf("Hex(green) = %q, want accent", got)
	}
}

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		name     string
		theme    string
		expected bool
	}{
		{name: "exact match", theme: "mocha", expected: true},
		{name: "case insensitive", theme: "Latte", expected: true},
		{name: "missing theme", theme: "frappe", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAvailable(tt.theme); got != tt.expected {
				t.Errorf("IsAvailable(%q) = %t, want %t", tt.theme, got, tt.expected)
			}
		})
	}
}

func TestColor(t *testing.T) {
	hex := "#89b4fa"
	c := Color(hex)
	if string(c) != hex {
		t.Errorf("Color(%q) = %q, want %q", hex, string(c), hex)
	}
}
