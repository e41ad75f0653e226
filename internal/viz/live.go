package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/hud"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	defaultCols  = 80
	defaultRows  = 24
	reservedRows = 4
)

var releaseKeys = map[string]control.Key{
	"insert": control.KeyInsert,
	"delete": control.KeyDelete,
	"r":      control.KeyR,
	"p":      control.KeyP,
	"k":      control.KeyK,
}

var holdKeys = map[string]control.Key{
	"left":  control.KeyLeft,
	"right": control.KeyRight,
	"up":    control.KeyUp,
	"down":  control.KeyDown,
	"c":     control.KeyC,
}

var mouseButtons = map[tea.MouseButton]control.Button{
	tea.MouseButtonLeft:   control.ButtonLeft,
	tea.MouseButtonMiddle: control.ButtonMiddle,
	tea.MouseButtonRight:  control.ButtonRight,
}

type TickMsg time.Time

// Model runs a simulator one frame per tick and draws it on a Braille canvas.
type Model struct {
	ctx    context.Context
	sim    *sim.Simulator
	cfg    *config.Config
	canvas *Canvas
	input  *control.Snapshot
	held   []control.Key
	last   time.Time
	tick   time.Duration

	fps        int
	frames     int
	fpsStarted time.Time

	err error
}

func NewModel(ctx context.Context, s *sim.Simulator, cfg *config.Config) Model {
	fps := cfg.TargetFPS
	if fps <= 0 {
		fps = config.DefaultTargetFPS
	}
	in := control.NewSnapshot()
	in.Mouse = cfg.Center()
	return Model{
		ctx:    ctx,
		sim:    s,
		cfg:    cfg,
		canvas: NewCanvas(defaultCols, defaultRows-reservedRows),
		input:  in,
		tick:   time.Second / time.Duration(fps),
	}
}

// Err is the error that stopped the model, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return m.nextTick()
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas = NewCanvas(msg.Width, msg.Height-reservedRows)

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		if k, ok := releaseKeys[key]; ok {
			m.input.Release(k)
		}
		if k, ok := holdKeys[key]; ok {
			m.input.Hold(k)
			m.held = append(m.held, k)
		}

	case tea.MouseMsg:
		m.input.Mouse = m.canvas.ScreenPos(msg.X, msg.Y, m.cfg.Screen.Width, m.cfg.Screen.Height)
		if b, ok := mouseButtons[msg.Button]; ok {
			switch msg.Action {
			case tea.MouseActionPress:
				m.input.Buttons[b] = true
			case tea.MouseActionRelease:
				delete(m.input.Buttons, b)
			}
		}

	case TickMsg:
		select {
		case <-m.ctx.Done():
			m.err = fmt.Errorf("%w: %v", dynamo.ErrCanceled, m.ctx.Err())
			return m, tea.Quit
		default:
		}

		now := time.Time(msg)
		m = m.step(now)
		return m, m.nextTick()
	}
	return m, nil
}

func (m Model) step(now time.Time) Model {
	dt := 0.0
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now

	m.sim.Frame(m.input, dt)
	m.input.EndFrame()
	for _, k := range m.held {
		delete(m.input.Down, k)
	}
	m.held = m.held[:0]

	if m.fpsStarted.IsZero() {
		m.fpsStarted = now
	}
	m.frames++
	if elapsed := now.Sub(m.fpsStarted); elapsed >= time.Second {
		m.fps = int(float64(m.frames) / elapsed.Seconds())
		m.frames = 0
		m.fpsStarted = now
	}
	return m
}

func (m Model) draw() {
	st := m.sim.State()
	scale := m.sim.Gravity().Scale
	w, h := m.cfg.Screen.Width, m.cfg.Screen.Height

	m.canvas.Clear()
	for _, p := range st.Particles {
		m.canvas.Plot(dynamo.Vec{X: p.Pos.X / scale, Y: p.Pos.Y / scale}, w, h, p.Speed())
	}
}

func (m Model) View() string {
	st := m.sim.State()
	theme := ThemeFor(st.Flags.DarkMode)
	m.draw()

	pc, pr := m.canvas.Cell(st.Gravity, m.cfg.Screen.Width, m.cfg.Screen.Height)
	base := theme.Base()
	dotStyle := base.Foreground(theme.Dot)
	pointStyle := base.Foreground(theme.Point).Bold(true)

	var b strings.Builder
	for r, row := range m.canvas.Grid {
		gap := 0
		flush := func() {
			if gap > 0 {
				b.WriteString(base.Render(strings.Repeat(string(rune(blank)), gap)))
				gap = 0
			}
		}
		for c, cell := range row {
			if cell == blank && (r != pr || c != pc) {
				gap++
				continue
			}
			flush()
			switch {
			case r == pr && c == pc:
				b.WriteString(pointStyle.Render("●"))
			case theme.Tinted:
				b.WriteString(base.Foreground(TintColor(m.canvas.Heat[r][c])).Render(string(cell)))
			default:
				b.WriteString(dotStyle.Render(string(cell)))
			}
		}
		flush()
		b.WriteByte('\n')
	}

	r := m.sim.Resolver()
	info := hud.Info{
		FPS:          m.fps,
		Force:        m.sim.Gravity().Force,
		PointSpeed:   r.Speed,
		Width:        m.cfg.Screen.Width,
		Height:       m.cfg.Screen.Height,
		Legend:       r.Legend(),
		BinaryLabels: r.Cycle.Binary(),
	}
	b.WriteString(renderOverlay(hud.Layout(st, info), theme, m.canvas.Width))
	return b.String()
}

// renderOverlay flattens the positioned overlay into a status block: info
// lines joined on one wrapped line, the legend below.
func renderOverlay(lines []hud.Line, theme Theme, width int) string {
	info := make([]string, 0, len(lines))
	legend := ""
	for _, l := range lines {
		if l.Role == hud.RoleLegend {
			legend = l.Text
			continue
		}
		info = append(info, l.Text)
	}

	textStyle := theme.Base().Foreground(theme.Text).Width(width)
	legendStyle := theme.Base().Foreground(theme.Legend).Width(width)

	out := textStyle.Render(strings.Join(info, " | "))
	if legend != "" {
		out += "\n" + legendStyle.Render(legend)
	}
	return out
}

// Run drives s in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, s *sim.Simulator, cfg *config.Config, logger *log.Logger) error {
	logger.Info("terminal opened", "backend", config.BackendTerminal, "dots", len(s.State().Particles))

	p := tea.NewProgram(NewModel(ctx, s, cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
