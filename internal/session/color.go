package session

import (
	"fmt"
	"strings"
)

// Color is a symbolic color token chosen by the mentee for a session.
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

var colors = []Color{
	ColorRed, ColorOrange, ColorYellow, ColorGreen,
	ColorBlue, ColorPurple, ColorPink, ColorGray,
}

// subjectColors seeds the color picker. The mentee can always override it.
var subjectColors = map[string]Color{
	"math":      ColorBlue,
	"korean":    ColorRed,
	"english":   ColorGreen,
	"science":   ColorPurple,
	"history":   ColorOrange,
	"language":  ColorYellow,
	"art":       ColorPink,
	"reading":   ColorYellow,
	"physics":   ColorPurple,
	"chemistry": ColorPurple,
}

// Colors returns all color tokens in picker order.
func Colors() []Color {
	result := make([]Color, len(colors))
	copy(result, colors)
	return result
}

// Valid returns true if the color is a known token.
func (c Color) Valid() bool {
	for _, known := range colors {
		if c == known {
			return true
		}
	}
	return false
}

// ParseColor parses a color token, case-insensitive.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// SubjectColor returns the default token for a subject, or fallback when the
// subject has none.
func SubjectColor(subject string, fallback Color) Color {
	if c, ok := subjectColors[strings.ToLower(strings.TrimSpace(subject))]; ok {
		return c
	}
	return fallback
}

// ColorIndex returns the picker position of c, or 0 if unknown.
func ColorIndex(c Color) int {
	for i, known := range colors {
		if c == known {
			return i
		}
	}
	return 0
}
