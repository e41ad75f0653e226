// Package ebitenui runs the simulation in an Ebitengine window.
package ebitenui

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/hud"
	"github.com/san-kum/gravsim/internal/sim"
)

const dotRadius = 2

var (
	colLight = color.RGBA{245, 245, 245, 255}
	colPoint = color.RGBA{0, 121, 241, 255}
)

const exitKey = ebiten.KeyEscape

var keyMap = map[control.Key]ebiten.Key{
	control.KeyInsert: ebiten.KeyInsert,
	control.KeyDelete: ebiten.KeyDelete,
	control.KeyR:      ebiten.KeyR,
	control.KeyP:      ebiten.KeyP,
	control.KeyK:      ebiten.KeyK,
	control.KeyC:      ebiten.KeyC,
	control.KeyLeft:   ebiten.KeyArrowLeft,
	control.KeyRight:  ebiten.KeyArrowRight,
	control.KeyUp:     ebiten.KeyArrowUp,
	control.KeyDown:   ebiten.KeyArrowDown,
}

var buttonMap = map[control.Button]ebiten.MouseButton{
	control.ButtonLeft:   ebiten.MouseButtonLeft,
	control.ButtonMiddle: ebiten.MouseButtonMiddle,
	control.ButtonRight:  ebiten.MouseButtonRight,
}

// Game adapts a simulator to ebiten.Game. Ebitengine owns the loop, so each
// Update polls input into a snapshot and advances one frame.
type Game struct {
	ctx   context.Context
	sim   *sim.Simulator
	cfg   *config.Config
	input *control.Snapshot
	last  time.Time
	err   error
}

func NewGame(ctx context.Context, s *sim.Simulator, cfg *config.Config) *Game {
	in := control.NewSnapshot()
	in.Mouse = cfg.Center()
	return &Game{ctx: ctx, sim: s, cfg: cfg, input: in}
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		g.err = fmt.Errorf("%w: %v", dynamo.ErrCanceled, g.ctx.Err())
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustReleased(exitKey) {
		return ebiten.Termination
	}

	now := time.Now()
	dt := 0.0
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	g.poll()
	g.sim.Frame(g.input, dt)
	return nil
}

func (g *Game) poll() {
	g.input.EndFrame()
	for k, code := range keyMap {
		if inpututil.IsKeyJustReleased(code) {
			g.input.Release(k)
		}
		if ebiten.IsKeyPressed(code) {
			g.input.Down[k] = true
		} else {
			delete(g.input.Down, k)
		}
	}
	for b, code := range buttonMap {
		if ebiten.IsMouseButtonPressed(code) {
			g.input.Buttons[b] = true
		} else {
			delete(g.input.Buttons, b)
		}
	}
	mx, my := ebiten.CursorPosition()
	g.input.Mouse = dynamo.Vec{X: float64(mx), Y: float64(my)}
}

func (g *Game) Draw(screen *ebiten.Image) {
	st := g.sim.State()
	scale := g.sim.Gravity().Scale

	if st.Flags.DarkMode {
		screen.Fill(color.Black)
	} else {
		screen.Fill(colLight)
	}

	for _, p := range st.Particles {
		var col color.Color = color.Black
		if st.Flags.DarkMode {
			col = color.RGBA{hud.Tint(p.Speed()), 0, 0, 255}
		}
		vector.DrawFilledCircle(screen, float32(p.Pos.X/scale), float32(p.Pos.Y/scale), dotRadius, col, true)
	}
	vector.DrawFilledCircle(screen, float32(st.Gravity.X), float32(st.Gravity.Y), dotRadius, colPoint, true)

	r := g.sim.Resolver()
	info := hud.Info{
		FPS:          int(ebiten.ActualFPS()),
		Force:        g.sim.Gravity().Force,
		PointSpeed:   r.Speed,
		Width:        g.cfg.Screen.Width,
		Height:       g.cfg.Screen.Height,
		Legend:       r.Legend(),
		BinaryLabels: r.Cycle.Binary(),
	}
	for _, line := range hud.Layout(st, info) {
		ebitenutil.DebugPrintAt(screen, line.Text, line.X, line.Y)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Screen.Width, g.cfg.Screen.Height
}

// Run opens an Ebitengine window and drives s until it closes or ctx is done.
func Run(ctx context.Context, s *sim.Simulator, cfg *config.Config, logger *log.Logger) error {
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	if cfg.TargetFPS > 0 {
		ebiten.SetTPS(cfg.TargetFPS)
	}

	logger.Info("window opened", "backend", config.BackendEbiten, "width", cfg.Screen.Width, "height", cfg.Screen.Height)
	g := NewGame(ctx, s, cfg)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.err
}
