// Package hud lays out the on-screen text overlay. It only produces strings
// and positions; backends draw them.
package hud

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	FontSize   = 18
	LegendSize = 14
	Margin     = 5
	darkLabelW = 140
)

// Role selects the color a backend uses for a line.
type Role int

const (
	RoleInfo Role = iota
	RoleLegend
)

type Line struct {
	Text string
	X, Y int
	Size int
	Role Role
}

// Info carries the values the overlay reports that are not part of the state.
type Info struct {
	FPS          int
	Force        float64
	PointSpeed   float64
	Width        int
	Height       int
	Legend       string
	BinaryLabels bool // report "GRAV. REVERSED" instead of the mode name
}

// Layout returns the overlay lines for st, honoring its display flags.
func Layout(st *dynamo.State, info Info) []Line {
	lines := make([]Line, 0, 12)
	add := func(text string, y int) {
		lines = append(lines, Line{Text: text, X: Margin, Y: y, Size: FontSize, Role: RoleInfo})
	}

	if st.Flags.DarkMode {
		lines = append(lines, Line{Text: "DARK MODE: ON", X: info.Width - darkLabelW, Y: Margin, Size: FontSize, Role: RoleInfo})
	}

	if st.Flags.ShowGeneral {
		add(fmt.Sprintf("FPS: %d", info.FPS), 5)
		add(fmt.Sprintf("DOTS: %d", len(st.Particles)), 25)
	}

	if st.Flags.ShowGravity {
		add(fmt.Sprintf("GRAV. FORCE: %f", info.Force), 55)
		add(ModeLabel(st.Mode, info.BinaryLabels), 75)
		add("GRAV. POS.", 95)
		add(fmt.Sprintf("X: %f", st.Gravity.X), 115)
		add(fmt.Sprintf("Y: %f", st.Gravity.Y), 135)
		if !st.Flags.MouseFollow {
			add(fmt.Sprintf("GRAV. POINT SPEED: %f", info.PointSpeed), 155)
		}
	}

	if info.Legend != "" {
		lines = append(lines, Line{Text: info.Legend, X: Margin, Y: info.Height - LegendSize, Size: LegendSize, Role: RoleLegend})
	}
	return lines
}

// ModeLabel formats the gravity mode line.
func ModeLabel(m dynamo.Mode, binary bool) string {
	if binary {
		reversed := "FALSE"
		if m == dynamo.ModeRepel {
			reversed = "TRUE"
		}
		return "GRAV. REVERSED: " + reversed
	}
	return "GRAV. MODE: " + strings.ToUpper(m.String())
}

// Tint returns the red channel used for a particle in dark mode: brighter
// the faster it moves.
func Tint(speed float64) uint8 {
	v := speed*235/7100 + 20
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
