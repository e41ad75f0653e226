package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Movement selects how the gravity point moves when it does not follow the mouse.
type Movement int

const (
	// MoveButtons moves horizontally with the left and right mouse buttons;
	// the middle button recenters.
	MoveButtons Movement = iota
	// MoveArrows moves in four directions with the arrow keys; a recenter key
	// snaps back to the horizontal center.
	MoveArrows
)

// Bindings maps resolver actions to keys.
type Bindings struct {
	GeneralInfo Key
	GravityInfo Key
	Mode        Key
	MouseFollow Key
	Theme       Key
	Recenter    Key
	Left        Key
	Right       Key
	Up          Key
	Down        Key
}

// DefaultBindings returns the key layout shared by both variants.
func DefaultBindings() Bindings {
	return Bindings{
		GeneralInfo: KeyInsert,
		GravityInfo: KeyDelete,
		Mode:        KeyR,
		MouseFollow: KeyP,
		Theme:       KeyK,
		Recenter:    KeyC,
		Left:        KeyLeft,
		Right:       KeyRight,
		Up:          KeyUp,
		Down:        KeyDown,
	}
}

// Resolver turns input into gravity point, mode and flag updates.
type Resolver struct {
	Cycle    dynamo.Cycle
	Movement Movement
	Speed    float64    // gravity point speed in pixels per second
	Center   dynamo.Vec // screen center
	Keys     Bindings
}

// NewClassic creates the two-state resolver driven by mouse buttons.
func NewClassic(center dynamo.Vec, speed float64) *Resolver {
	return &Resolver{
		Cycle:    dynamo.CycleBinary,
		Movement: MoveButtons,
		Speed:    speed,
		Center:   center,
		Keys:     DefaultBindings(),
	}
}

// NewModern creates the three-state resolver driven by arrow keys.
func NewModern(center dynamo.Vec, speed float64) *Resolver {
	return &Resolver{
		Cycle:    dynamo.CycleTernary,
		Movement: MoveArrows,
		Speed:    speed,
		Center:   center,
		Keys:     DefaultBindings(),
	}
}

// Resolve applies one frame of input to st. Toggles are handled first, so a
// mouse-follow switch in this frame already takes effect for movement.
func (r *Resolver) Resolve(st *dynamo.State, in Input, dt float64) {
	r.toggle(st, in)

	if st.Flags.MouseFollow {
		st.Gravity = in.MousePosition()
		return
	}

	switch r.Movement {
	case MoveArrows:
		r.moveArrows(st, in, dt)
	default:
		r.moveButtons(st, in, dt)
	}
}

func (r *Resolver) toggle(st *dynamo.State, in Input) {
	if in.KeyReleased(r.Keys.GeneralInfo) {
		st.Flags.ShowGeneral = !st.Flags.ShowGeneral
	}
	if in.KeyReleased(r.Keys.GravityInfo) {
		st.Flags.ShowGravity = !st.Flags.ShowGravity
	}
	if in.KeyReleased(r.Keys.Mode) {
		st.Mode = r.Cycle.Next(st.Mode)
	}
	if in.KeyReleased(r.Keys.MouseFollow) {
		st.Flags.MouseFollow = !st.Flags.MouseFollow
		st.Gravity = r.Center
	}
	if in.KeyReleased(r.Keys.Theme) {
		st.Flags.DarkMode = !st.Flags.DarkMode
	}
}

func (r *Resolver) moveButtons(st *dynamo.State, in Input, dt float64) {
	switch {
	case in.MouseDown(ButtonLeft):
		st.Gravity.X = r.stepBand(st.Gravity.X, r.Center.X, -r.Speed*dt)
	case in.MouseDown(ButtonRight):
		st.Gravity.X = r.stepBand(st.Gravity.X, r.Center.X, r.Speed*dt)
	case in.MouseDown(ButtonMiddle):
		st.Gravity.X = r.Center.X
	}
}

func (r *Resolver) moveArrows(st *dynamo.State, in Input, dt float64) {
	if in.KeyDown(r.Keys.Recenter) {
		st.Gravity.X = r.Center.X
		return
	}

	switch {
	case in.KeyDown(r.Keys.Left):
		st.Gravity.X = r.stepBand(st.Gravity.X, r.Center.X, -r.Speed*dt)
	case in.KeyDown(r.Keys.Right):
		st.Gravity.X = r.stepBand(st.Gravity.X, r.Center.X, r.Speed*dt)
	}

	switch {
	case in.KeyDown(r.Keys.Up):
		st.Gravity.Y = r.stepBand(st.Gravity.Y, r.Center.Y, -r.Speed*dt)
	case in.KeyDown(r.Keys.Down):
		st.Gravity.Y = r.stepBand(st.Gravity.Y, r.Center.Y, r.Speed*dt)
	}
}

// stepBand moves v by delta inside the band center±Speed. Leaving the band on
// one side re-enters it from the other.
func (r *Resolver) stepBand(v, center, delta float64) float64 {
	v += delta
	switch {
	case delta < 0 && v < center-r.Speed:
		v = center + r.Speed
	case delta > 0 && v > center+r.Speed:
		v = center - r.Speed
	}
	return v
}

// Legend returns the one-line key reference shown at the bottom of the screen.
func (r *Resolver) Legend() string {
	parts := []string{
		fmt.Sprintf("%s - Info. 1 Toggle", r.Keys.GeneralInfo),
		fmt.Sprintf("%s - Info. 2 Toggle", r.Keys.GravityInfo),
		fmt.Sprintf("%s - Grav. Force Toggle", r.Keys.Mode),
		fmt.Sprintf("%s - Grav. Point Toggle", r.Keys.MouseFollow),
		fmt.Sprintf("%s - Theme Toggle", r.Keys.Theme),
	}
	if r.Movement == MoveArrows {
		parts = append(parts, "ARROWS - Move", fmt.Sprintf("%s - Recenter", r.Keys.Recenter))
	}
	return strings.Join(parts, " | ")
}
