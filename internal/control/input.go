package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Key is a backend-independent keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyInsert
	KeyDelete
	KeyR
	KeyP
	KeyK
	KeyC
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

var keyNames = map[Key]string{
	KeyInsert: "INSERT",
	KeyDelete: "DELETE",
	KeyR:      "R",
	KeyP:      "P",
	KeyK:      "K",
	KeyC:      "C",
	KeyLeft:   "LEFT",
	KeyRight:  "RIGHT",
	KeyUp:     "UP",
	KeyDown:   "DOWN",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "?"
}

// ParseKey returns the key with the given name, case-insensitively.
func ParseKey(name string) (Key, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == upper {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("unknown key %q", name)
}

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// ParseButton accepts left, middle or right.
func ParseButton(name string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return ButtonLeft, nil
	case "middle":
		return ButtonMiddle, nil
	case "right":
		return ButtonRight, nil
	}
	return ButtonLeft, fmt.Errorf("unknown mouse button %q", name)
}

// Input is one frame's view of the keyboard and mouse.
type Input interface {
	// KeyReleased reports whether k was released since the previous frame.
	KeyReleased(k Key) bool
	KeyDown(k Key) bool
	MouseDown(b Button) bool
	MousePosition() dynamo.Vec
}

// Snapshot is a recorded frame of input.
type Snapshot struct {
	Released map[Key]bool
	Down     map[Key]bool
	Buttons  map[Button]bool
	Mouse    dynamo.Vec
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Released: make(map[Key]bool),
		Down:     make(map[Key]bool),
		Buttons:  make(map[Button]bool),
	}
}

func (s *Snapshot) KeyReleased(k Key) bool    { return s.Released[k] }
func (s *Snapshot) KeyDown(k Key) bool        { return s.Down[k] }
func (s *Snapshot) MouseDown(b Button) bool   { return s.Buttons[b] }
func (s *Snapshot) MousePosition() dynamo.Vec { return s.Mouse }

// Release marks k as released this frame.
func (s *Snapshot) Release(k Key) *Snapshot {
	if s.Released == nil {
		s.Released = make(map[Key]bool)
	}
	s.Released[k] = true
	return s
}

// Hold marks k as held down this frame.
func (s *Snapshot) Hold(k Key) *Snapshot {
	if s.Down == nil {
		s.Down = make(map[Key]bool)
	}
	s.Down[k] = true
	return s
}

// Press marks b as held down this frame.
func (s *Snapshot) Press(b Button) *Snapshot {
	if s.Buttons == nil {
		s.Buttons = make(map[Button]bool)
	}
	s.Buttons[b] = true
	return s
}

// EndFrame clears the edge-triggered releases, keeping held state.
func (s *Snapshot) EndFrame() {
	for k := range s.Released {
		delete(s.Released, k)
	}
}

// Reset clears all recorded input except the mouse position.
func (s *Snapshot) Reset() {
	s.EndFrame()
	for k := range s.Down {
		delete(s.Down, k)
	}
	for b := range s.Buttons {
		delete(s.Buttons, b)
	}
}
