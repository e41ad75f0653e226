package viz

import (
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const blank = 0x2800

// Braille dot bits, indexed [row][column] inside a 2x4 cell.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells. Each cell also tracks the fastest
// particle plotted into it so the dark theme can tint it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Heat          [][]float64
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Heat:   make([][]float64, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Heat[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels; anything outside is ignored.
func (c *Canvas) Set(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}

	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	return true
}

// Plot lights the sub-pixel under screen position p of a screenW by screenH
// screen and records speed as the cell's heat.
func (c *Canvas) Plot(p dynamo.Vec, screenW, screenH int, speed float64) {
	x, y := c.project(p, screenW, screenH)
	if !c.Set(x, y) {
		return
	}
	if cell := &c.Heat[y/4][x/2]; speed > *cell {
		*cell = speed
	}
}

// Cell returns the cell under screen position p, clamped to the canvas.
func (c *Canvas) Cell(p dynamo.Vec, screenW, screenH int) (col, row int) {
	x, y := c.project(p, screenW, screenH)
	return clampInt(x/2, 0, c.Width-1), clampInt(y/4, 0, c.Height-1)
}

// ScreenPos maps the center of cell (col, row) back to screen coordinates.
func (c *Canvas) ScreenPos(col, row, screenW, screenH int) dynamo.Vec {
	return dynamo.Vec{
		X: (float64(col) + 0.5) * float64(screenW) / float64(c.Width),
		Y: (float64(row) + 0.5) * float64(screenH) / float64(c.Height),
	}
}

func (c *Canvas) project(p dynamo.Vec, screenW, screenH int) (int, int) {
	if screenW <= 0 || screenH <= 0 {
		return -1, -1
	}
	x := math.Floor(p.X * float64(c.Width*2) / float64(screenW))
	y := math.Floor(p.Y * float64(c.Height*4) / float64(screenH))
	return int(x), int(y)
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Heat[i][j] = 0
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
