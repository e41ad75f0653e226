package dynamo

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

type Particle struct {
	Pos Vec
	Vel Vec
}

// Speed returns the magnitude of the particle's velocity.
func (p Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}

type Particles []Particle

func (p Particles) Clone() Particles {
	c := make(Particles, len(p))
	copy(c, p)
	return c
}

func (p Particles) IsValid() bool {
	for _, pt := range p {
		if !Finite(pt.Pos) || !Finite(pt.Vel) {
			return false
		}
	}
	return true
}

// Mode is the gravity mode applied to every particle.
type Mode int

const (
	ModeDisabled Mode = iota
	ModeAttract
	ModeRepel
)

// Sign returns +1 for attract, -1 for repel and 0 when gravity is off.
func (m Mode) Sign() float64 {
	switch m {
	case ModeAttract:
		return 1
	case ModeRepel:
		return -1
	default:
		return 0
	}
}

func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeAttract:
		return "attract"
	case ModeRepel:
		return "repel"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled", "off", "none":
		return ModeDisabled, nil
	case "attract":
		return ModeAttract, nil
	case "repel":
		return ModeRepel, nil
	}
	return ModeDisabled, fmt.Errorf("%w: unknown gravity mode %q", ErrInvalidConfig, s)
}

// Cycle is the sequence the mode toggle walks through.
type Cycle []Mode

var (
	// CycleBinary flips between attract and repel.
	CycleBinary = Cycle{ModeAttract, ModeRepel}

	// CycleTernary walks disabled, attract, repel and back.
	CycleTernary = Cycle{ModeDisabled, ModeAttract, ModeRepel}
)

// Next returns the mode after m. A mode outside the cycle resets to its first entry.
func (c Cycle) Next(m Mode) Mode {
	if len(c) == 0 {
		return m
	}
	for i, v := range c {
		if v == m {
			return c[(i+1)%len(c)]
		}
	}
	return c[0]
}

// Binary reports whether the cycle never disables gravity.
func (c Cycle) Binary() bool {
	for _, m := range c {
		if m == ModeDisabled {
			return false
		}
	}
	return len(c) == 2
}

// Flags are the independent display toggles.
type Flags struct {
	ShowGeneral bool
	ShowGravity bool
	DarkMode    bool
	MouseFollow bool
}

// State is the complete simulation, shared by reference between the
// resolver and the integrator.
type State struct {
	Particles Particles
	Gravity   Vec
	Mode      Mode
	Flags     Flags
	Frame     int
	Time      float64
}
