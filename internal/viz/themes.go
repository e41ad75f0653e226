package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/hud"
)

// Theme is the terminal color scheme for one display mode.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Dot        lipgloss.Color
	Point      lipgloss.Color
	Text       lipgloss.Color
	Legend     lipgloss.Color
	Tinted     bool // color dots by speed
}

var (
	ThemeLight = Theme{
		Name:       "light",
		Background: lipgloss.Color("#f5f5f5"),
		Dot:        lipgloss.Color("#000000"),
		Point:      lipgloss.Color("#0079f1"),
		Text:       lipgloss.Color("#00e430"),
		Legend:     lipgloss.Color("#00752c"),
	}

	ThemeDark = Theme{
		Name:       "dark",
		Background: lipgloss.Color("#000000"),
		Dot:        lipgloss.Color("#e62937"),
		Point:      lipgloss.Color("#0079f1"),
		Text:       lipgloss.Color("#00e430"),
		Legend:     lipgloss.Color("#00752c"),
		Tinted:     true,
	}
)

// Base is the style every cell and overlay line derives from, so the whole
// frame is painted on the theme background.
func (t Theme) Base() lipgloss.Style {
	return lipgloss.NewStyle().Background(t.Background)
}

// ThemeFor picks the theme matching the dark mode flag.
func ThemeFor(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}

// TintColor is the dark-mode dot color for a cell whose fastest particle
// moves at speed.
func TintColor(speed float64) lipgloss.Color {
	c := colorful.Color{R: float64(hud.Tint(speed)) / 255}
	return lipgloss.Color(c.Hex())
}
