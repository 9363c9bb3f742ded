// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timetable/internal/session"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Hour rows, subtle highlight
	BgSelection string `toml:"bg_selection"` // Cursor, selection
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"`
	Accent      string `toml:"accent"`  // Title, borders
	Current     string `toml:"current"` // Provisional selection range
	Warning     string `toml:"warning"` // Rejections, busy

	Session SessionColors `toml:"session"`
	Modal   ModalPalette  `toml:"modal"`
}

// SessionColors maps each color token to a hex value.
type SessionColors struct {
	Red    string `toml:"red"`
	Orange string `toml:"orange"`
	Yellow string `toml:"yellow"`
	Green  string `toml:"green"`
	Blue   string `toml:"blue"`
	Purple string `toml:"purple"`
	Pink   string `toml:"pink"`
	Gray   string `toml:"gray"`
}

// ModalPalette holds the modal colors, falling back to the base theme.
type ModalPalette struct {
	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "mocha"
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

// Hex returns the hex value of a session color token. Unknown tokens
// render in the accent color.
func (t *Theme) Hex(c session.Color) string {
	var hex string
	switch c {
	case session.ColorRed:
		hex = t.Session.Red
	case session.ColorOrange:
		hex = t.Session.Orange
	case session.ColorYellow:
		hex = t.Session.Yellow
	case session.ColorGreen:
		hex = t.Session.Green
	case session.ColorBlue:
		hex = t.Session.Blue
	case session.ColorPurple:
		hex = t.Session.Purple
	case session.ColorPink:
		hex = t.Session.Pink
	case session.ColorGray:
		hex = t.Session.Gray
	}
	return coalesce(hex, t.Accent)
}

func (t *Theme) applyDefaults() {
	t.Modal.BaseBg = coalesce(t.Modal.BaseBg, t.BgHighlight, t.Bg)
	t.Modal.ModalBorder = coalesce(t.Modal.ModalBorder, t.Accent)
	t.Modal.TextPrimary = coalesce(t.Modal.TextPrimary, t.Fg)
	t.Modal.TextMuted = coalesce(t.Modal.TextMuted, t.FgMuted)
	t.Modal.Highlight = coalesce(t.Modal.Highlight, t.BgSelection, t.Accent)
	t.Current = coalesce(t.Current, t.Accent)
	t.Warning = coalesce(t.Warning, t.Accent)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "latte"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
