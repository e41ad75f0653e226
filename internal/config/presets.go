package config

// Presets reproduce the two shipped variants of the simulator. Classic flips
// between attract and repel and is driven by mouse buttons; modern cycles
// through disabled and uses arrow keys. Both clamp the velocity vector; set
// clamp: axis to get the old per-axis limiter back.
var Presets = map[string]*Config{
	VariantClassic: {
		Variant: VariantClassic, Dots: classicDots, GravityForce: DefaultForce,
		GravityPointSpeed: DefaultPointSpeed, SpeedLimit: classicSpeedLimit, Clamp: ClampVector,
		Scale: DefaultScale, DeadZone: DefaultDeadZone, Mode: "attract",
		Screen:    ScreenConfig{Width: DefaultWidth, Height: DefaultHeight, Title: "RayLib - " + DefaultTitle},
		TargetFPS: DefaultTargetFPS, Workers: 1, Layout: LayoutUniform, Theme: ThemeLight, Backend: BackendRaylib,
	},
	VariantModern: DefaultConfig(),
	"swarm": {
		Variant: VariantModern, Dots: 5000, GravityForce: DefaultForce,
		GravityPointSpeed: DefaultPointSpeed, SpeedLimit: DefaultSpeedLimit, Clamp: ClampVector,
		Scale: DefaultScale, DeadZone: DefaultDeadZone, Mode: "attract",
		Screen:    ScreenConfig{Width: DefaultWidth, Height: DefaultHeight, Title: DefaultTitle},
		TargetFPS: DefaultTargetFPS, MaxDt: 0.05, Workers: 1, Layout: LayoutNoise, Theme: ThemeDark, Backend: BackendRaylib,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
