package gui

import (
	"context"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// exitKey closes the window through rl.WindowShouldClose.
const exitKey = rl.KeyEscape

var keyMap = map[control.Key]int32{
	control.KeyInsert: rl.KeyInsert,
	control.KeyDelete: rl.KeyDelete,
	control.KeyR:      rl.KeyR,
	control.KeyP:      rl.KeyP,
	control.KeyK:      rl.KeyK,
	control.KeyC:      rl.KeyC,
	control.KeyLeft:   rl.KeyLeft,
	control.KeyRight:  rl.KeyRight,
	control.KeyUp:     rl.KeyUp,
	control.KeyDown:   rl.KeyDown,
}

var buttonMap = map[control.Button]rl.MouseButton{
	control.ButtonLeft:   rl.MouseLeftButton,
	control.ButtonMiddle: rl.MouseMiddleButton,
	control.ButtonRight:  rl.MouseRightButton,
}

// App drives a simulator inside a raylib window. It is both the frame
// driver and the input source.
type App struct {
	cfg *config.Config
	log *log.Logger
}

func NewApp(cfg *config.Config, logger *log.Logger) *App {
	return &App{cfg: cfg, log: logger}
}

func (a *App) ShouldClose() bool    { return rl.WindowShouldClose() }
func (a *App) FrameTime() float64   { return float64(rl.GetFrameTime()) }
func (a *App) Input() control.Input { return a }

func (a *App) KeyReleased(k control.Key) bool {
	code, ok := keyMap[k]
	return ok && rl.IsKeyReleased(code)
}

func (a *App) KeyDown(k control.Key) bool {
	code, ok := keyMap[k]
	return ok && rl.IsKeyDown(code)
}

func (a *App) MouseDown(b control.Button) bool {
	btn, ok := buttonMap[b]
	return ok && rl.IsMouseButtonDown(btn)
}

func (a *App) MousePosition() dynamo.Vec {
	p := rl.GetMousePosition()
	return dynamo.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Run opens the window, drives s until the window closes or ctx is done,
// then closes the window.
func Run(ctx context.Context, s *sim.Simulator, cfg *config.Config, logger *log.Logger) error {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.TargetFPS))
	rl.SetExitKey(exitKey)

	logger.Info("window opened", "backend", config.BackendRaylib, "width", cfg.Screen.Width, "height", cfg.Screen.Height)
	return s.Loop(ctx, NewApp(cfg, logger))
}
