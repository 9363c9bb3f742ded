package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timetable/internal/session"
	"github.com/javiermolinar/timetable/internal/tui/theme"
)

const (
	// Default cell width - recalculated from the terminal width.
	defaultCellWidth = 10
	minCellWidth     = 4
	maxCellWidth     = 18
	hourColumnWidth  = 6
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color

	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style
	BadgeStyle  lipgloss.Style

	// Hour column and the minute header row
	HourStyle       lipgloss.Style
	MinuteHeadStyle lipgloss.Style

	// Grid cells
	EmptyCellStyle    lipgloss.Style
	EmptyCellAltStyle lipgloss.Style // odd hour rows
	CursorStyle       lipgloss.Style
	SelectionStyle    lipgloss.Style // provisional start..cursor range
	StartMarkStyle    lipgloss.Style

	StatusStyle  lipgloss.Style
	WarningStyle lipgloss.Style
	HelpStyle    lipgloss.Style

	// Modal styles
	ModalStyle            lipgloss.Style
	ModalBackdropColor    lipgloss.Color
	ModalTitleStyle       lipgloss.Style
	ModalBodyStyle        lipgloss.Style
	ModalMetaStyle        lipgloss.Style
	ModalItemStyle        lipgloss.Style
	ModalItemActiveStyle  lipgloss.Style
	ModalHintStyle        lipgloss.Style
	ModalInputTextStyle   lipgloss.Style
	ModalPlaceholderStyle lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	palette := theme.NewPalette(t)
	s := &Styles{
		palette:          palette,
		colorBg:          palette.Bg,
		colorBgHighlight: palette.BgHighlight,
		colorBgSelection: palette.BgSelection,
		colorFg:          palette.Fg,
		colorFgMuted:     palette.FgMuted,
		colorAccent:      palette.Accent,
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.HeaderStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.BadgeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnAccent).
		Background(s.colorAccent).
		Padding(0, 1)

	s.HourStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Width(hourColumnWidth)

	s.MinuteHeadStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.EmptyCellAltStyle = s.EmptyCellStyle.
		Background(s.colorBgHighlight)

	s.CursorStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.SelectionStyle = lipgloss.NewStyle().
		Background(palette.Current).
		Foreground(palette.TextOnCurrent).
		Bold(true)

	s.StartMarkStyle = s.SelectionStyle.
		Underline(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg).
		Bold(true)

	s.WarningStyle = lipgloss.NewStyle().
		Foreground(palette.Warning).
		Background(s.colorBg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	modal := palette.Modal
	s.ModalBackdropColor = modal.Backdrop

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 2).
		Align(lipgloss.Left)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalItemStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg).
		Padding(0, 1)

	s.ModalItemActiveStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Highlight).
		Bold(true).
		Padding(0, 1)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		PaddingTop(1).
		PaddingLeft(2).
		PaddingRight(2)

	return s
}

// SessionStyle returns the cell style for a session of color c. Touching
// sessions of the same color alternate shades; sessions whose task was
// deleted are muted.
func (s *Styles) SessionStyle(c session.Color, alt, orphan bool) lipgloss.Style {
	shades := s.palette.Shades(c)
	bg := shades.Bg
	switch {
	case orphan:
		bg = shades.Orphan
	case alt:
		bg = shades.BgAlt
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(shades.Text).
		Bold(!orphan)
}

// SwatchStyle renders a color token in the picker.
func (s *Styles) SwatchStyle(c session.Color) lipgloss.Style {
	shades := s.palette.Shades(c)
	return lipgloss.NewStyle().
		Background(shades.Bg).
		Foreground(shades.Text).
		Padding(0, 1)
}
