package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravsim/internal/hud"
	"github.com/san-kum/gravsim/internal/sim"
)

const dotRadius = 2

var (
	ColPoint  = rl.Blue
	ColText   = rl.Green
	ColLegend = rl.DarkGreen
)

func (a *App) Draw(s *sim.Simulator) {
	st := s.State()
	scale := s.Gravity().Scale

	rl.BeginDrawing()
	if st.Flags.DarkMode {
		rl.ClearBackground(rl.Black)
	} else {
		rl.ClearBackground(rl.RayWhite)
	}

	for _, p := range st.Particles {
		col := rl.Black
		if st.Flags.DarkMode {
			col = rl.NewColor(hud.Tint(p.Speed()), 0, 0, 255)
		}
		rl.DrawCircle(int32(p.Pos.X/scale), int32(p.Pos.Y/scale), dotRadius, col)
	}

	rl.DrawCircle(int32(st.Gravity.X), int32(st.Gravity.Y), dotRadius, ColPoint)

	a.drawHUD(s)
	rl.EndDrawing()
}

func (a *App) drawHUD(s *sim.Simulator) {
	r := s.Resolver()
	info := hud.Info{
		FPS:          int(rl.GetFPS()),
		Force:        s.Gravity().Force,
		PointSpeed:   r.Speed,
		Width:        a.cfg.Screen.Width,
		Height:       a.cfg.Screen.Height,
		Legend:       r.Legend(),
		BinaryLabels: r.Cycle.Binary(),
	}

	for _, line := range hud.Layout(s.State(), info) {
		col := ColText
		if line.Role == hud.RoleLegend {
			col = ColLegend
		}
		rl.DrawText(line.Text, int32(line.X), int32(line.Y), int32(line.Size), col)
	}
}
