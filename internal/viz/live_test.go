package viz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

func newTestModel(t *testing.T, ctx context.Context, variant string) Model {
	t.Helper()
	cfg := config.GetPreset(variant)
	cfg.Dots = 10
	cfg.Seed = 7
	s, err := sim.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	return NewModel(ctx, s, cfg)
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_KeyToggles(t *testing.T) {
	m := newTestModel(t, context.Background(), config.VariantModern)
	now := time.Now()

	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	m = send(m, tea.KeyMsg{Type: tea.KeyInsert})
	m = send(m, TickMsg(now))

	st := m.sim.State()
	if !st.Flags.DarkMode {
		t.Error("k should toggle dark mode")
	}
	if st.Flags.ShowGeneral {
		t.Error("insert should hide general info")
	}

	m = send(m, TickMsg(now.Add(time.Second/60)))
	if !m.sim.State().Flags.DarkMode {
		t.Error("a press should toggle only once")
	}
}

func TestModel_ArrowHeldForOneFrame(t *testing.T) {
	m := newTestModel(t, context.Background(), config.VariantModern)
	start := m.sim.State().Gravity
	now := time.Now()

	m = send(m, TickMsg(now))
	m = send(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = send(m, TickMsg(now.Add(100*time.Millisecond)))

	moved := m.sim.State().Gravity
	if moved.X >= start.X {
		t.Fatalf("left arrow should move the point left: %v -> %v", start, moved)
	}

	m = send(m, TickMsg(now.Add(200*time.Millisecond)))
	if m.sim.State().Gravity != moved {
		t.Error("arrow should be released after one frame")
	}
}

func TestModel_MouseFollow(t *testing.T) {
	m := newTestModel(t, context.Background(), config.VariantModern)
	now := time.Now()

	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = send(m, TickMsg(now))
	m = send(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	m = send(m, TickMsg(now.Add(time.Second/60)))

	want := m.canvas.ScreenPos(0, 0, m.cfg.Screen.Width, m.cfg.Screen.Height)
	if got := m.sim.State().Gravity; got != want {
		t.Errorf("gravity point = %v, want mouse position %v", got, want)
	}
}

func TestModel_MouseButtons(t *testing.T) {
	m := newTestModel(t, context.Background(), config.VariantClassic)
	start := m.sim.State().Gravity
	now := time.Now()

	m = send(m, TickMsg(now))
	m = send(m, tea.MouseMsg{Button: tea.MouseButtonRight, Action: tea.MouseActionPress})
	m = send(m, TickMsg(now.Add(100*time.Millisecond)))
	if m.sim.State().Gravity.X <= start.X {
		t.Error("right button should move the point right")
	}

	m = send(m, tea.MouseMsg{Button: tea.MouseButtonRight, Action: tea.MouseActionRelease})
	if m.input.MouseDown(control.ButtonRight) || len(m.input.Buttons) != 0 {
		t.Error("release should clear the button")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, context.Background(), config.VariantModern)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newTestModel(t, ctx, config.VariantModern)
	cancel()

	m = send(m, TickMsg(time.Now()))
	if !errors.Is(m.Err(), dynamo.ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", m.Err())
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, context.Background(), config.VariantModern)
	m = send(m, tea.WindowSizeMsg{Width: 200, Height: 20})
	m = send(m, TickMsg(time.Now()))

	out := m.View()
	for _, want := range []string{"DOTS: 10", "GRAV. MODE: ATTRACT", "ARROWS - Move"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	lines := strings.Split(out, "\n")
	for r := 0; r < m.canvas.Height; r++ {
		if w := lipgloss.Width(lines[r]); w != m.canvas.Width {
			t.Errorf("canvas row %d is %d cells wide, want %d", r, w, m.canvas.Width)
		}
	}
}
