package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timetable/internal/session"
)

func darkBase() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Current:     "#777777",
		Warning:     "#888888",
		Session: SessionColors{
			Red:  "#112233",
			Blue: "#445566",
		},
	}
}

func TestNewPalette_SessionShades(t *testing.T) {
	base := darkBase()
	palette := NewPalette(base)

	red := palette.Shades(session.ColorRed)
	if red.Bg != lipgloss.Color(darkenColor(base.Session.Red)) {
		t.Fatalf("red Bg = %q, want %q", red.Bg, darkenColor(base.Session.Red))
	}
	if red.BgAlt != lipgloss.Color(alternateShade(darkenColor(base.Session.Red), false)) {
		t.Fatalf("red BgAlt = %q", red.BgAlt)
	}
	if red.Orphan != lipgloss.Color(muteColor(base.Session.Red)) {
		t.Fatalf("red Orphan = %q, want %q", red.Orphan, muteColor(base.Session.Red))
	}

	// Tokens without a theme value fall back to the accent.
	pink := palette.Shades(session.ColorPink)
	if pink.Bg != lipgloss.Color(darkenColor(base.Accent)) {
		t.Fatalf("pink Bg = %q, want accent shade %q", pink.Bg, darkenColor(base.Accent))
	}

	if got := palette.Shades(session.Color("teal")); got != palette.Shades(session.ColorGray) {
		t.Fatalf("unknown token = %+v, want gray shades", got)
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	base := darkBase()

	palette := NewPalette(base)
	if palette.Modal.Bg != lipgloss.Color(base.BgHighlight) {
		t.Fatalf("Modal.Bg = %q, want %q", palette.Modal.Bg, base.BgHighlight)
	}
	if palette.Modal.Border.Dark != base.Accent {
		t.Fatalf("Modal.Border.Dark = %q, want %q", palette.Modal.Border.Dark, base.Accent)
	}
	if palette.Modal.Backdrop != lipgloss.Color(base.BgSelection) {
		t.Fatalf("Modal.Backdrop = %q, want %q", palette.Modal.Backdrop, base.BgSelection)
	}
}

func TestNewPalette_LightThemeLightensShades(t *testing.T) {
	base := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		Session: SessionColors{
			Green: "#2f8f2f",
		},
	}

	palette := NewPalette(base)
	green := palette.Shades(session.ColorGreen)
	if relativeLuminance(string(green.Bg)) <= relativeLuminance(base.Session.Green) {
		t.Fatalf("green Bg luminance = %f, want greater than the token", relativeLuminance(string(green.Bg)))
	}
	if green.Text != lipgloss.Color(base.Fg) {
		t.Fatalf("green Text = %q, want dark foreground %q", green.Text, base.Fg)
	}
}

func TestNewPalette_NilThemeUsesMocha(t *testing.T) {
	palette := NewPalette(nil)
	if palette.Bg != lipgloss.Color("#1e1e2e") {
		t.Fatalf("Bg = %q, want mocha base", palette.Bg)
	}
	if len(palette.Sessions) != len(session.Colors()) {
		t.Fatalf("sessions = %d, want one per token", len(palette.Sessions))
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}

func TestBlendColorsClampsRatio(t *testing.T) {
	if got := blendColors("#000000", "#ffffff", 2); got != "#ffffff" {
		t.Fatalf("blendColors ratio 2 = %q, want #ffffff", got)
	}
	if got := blendColors("#000000", "#ffffff", -1); got != "#000000" {
		t.Fatalf("blendColors ratio -1 = %q, want #000000", got)
	}
	if got := blendColors("bad", "#ffffff", 0.5); got != "bad" {
		t.Fatalf("blendColors invalid = %q, want input back", got)
	}
}
