package sim

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	noiseAlpha    = 2.0
	noiseBeta     = 2.0
	noiseOctaves  = 3
	noiseCell     = 180.0
	noiseAttempts = 16
)

// NewState builds the initial simulation: particles scattered over the
// screen at rest, the gravity point at the screen center, both overlays on.
func NewState(cfg *config.Config, rng *rand.Rand) *dynamo.State {
	return &dynamo.State{
		Particles: Scatter(cfg.Dots, cfg.Screen.Width, cfg.Screen.Height, cfg.Scale, cfg.Layout, rng),
		Gravity:   cfg.Center(),
		Mode:      cfg.InitialMode(),
		Flags: dynamo.Flags{
			ShowGeneral: true,
			ShowGravity: true,
			DarkMode:    cfg.Theme == config.ThemeDark,
		},
	}
}

// Scatter places n particles on whole-pixel positions of a w×h screen,
// scaled into particle space. The noise layout clusters them along a
// Perlin field; uniform picks every pixel with equal probability.
func Scatter(n, w, h int, scale float64, layout string, rng *rand.Rand) dynamo.Particles {
	ps := make(dynamo.Particles, n)
	if w <= 0 || h <= 0 {
		return ps
	}

	var noise *perlin.Perlin
	if layout == config.LayoutNoise {
		noise = perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, rng.Int63())
	}

	for i := range ps {
		x, y := rng.Intn(w), rng.Intn(h)
		if noise != nil {
			for attempt := 0; attempt < noiseAttempts; attempt++ {
				density := 0.5 + noise.Noise2D(float64(x)/noiseCell, float64(y)/noiseCell)
				if rng.Float64() < density {
					break
				}
				x, y = rng.Intn(w), rng.Intn(h)
			}
		}
		ps[i].Pos = dynamo.Vec{X: float64(x) * scale, Y: float64(y) * scale}
	}
	return ps
}
