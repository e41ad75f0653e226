package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/hud"
)

const (
	dotRadius   = 2
	colLight    = "#f5f5f5"
	colDark     = "#000000"
	colDotLight = "#000000"
	colPoint    = "#0079f1"
)

// Snapshot is one frame to render: particles in particle space, the gravity
// point in screen pixels.
type Snapshot struct {
	Particles dynamo.Particles
	Gravity   dynamo.Vec
	Width     int
	Height    int
	Scale     float64
	Dark      bool
}

// WriteSVG draws s the way the window does: black dots on a light
// background, or speed-tinted red dots on black, with the gravity point in
// blue. Particles outside the screen are skipped.
func WriteSVG(w io.Writer, s Snapshot) error {
	if s.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %g", dynamo.ErrInvalidConfig, s.Scale)
	}

	bw := bufio.NewWriter(w)
	bg := colLight
	if s.Dark {
		bg = colDark
	}

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, s.Width, s.Height, s.Width, s.Height, bg, colDotLight)

	for _, p := range s.Particles {
		x, y := p.Pos.X/s.Scale, p.Pos.Y/s.Scale
		if x < 0 || y < 0 || x > float64(s.Width) || y > float64(s.Height) {
			continue
		}
		if s.Dark {
			tint := colorful.Color{R: float64(hud.Tint(p.Speed())) / 255}
			fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%d\" fill=\"%s\"/>\n", x, y, dotRadius, tint.Hex())
			continue
		}
		fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%d\"/>\n", x, y, dotRadius)
	}

	fmt.Fprintf(bw, "</g>\n<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%d\" fill=\"%s\"/>\n</svg>\n",
		s.Gravity.X, s.Gravity.Y, dotRadius, colPoint)
	return bw.Flush()
}
