// Package automation drives headless runs from scripts: a YAML scenario of
// timed input events, or a sweep of one configuration value.
package automation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// Scenario is a scripted input sequence for a headless run.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Frames      int     `yaml:"frames"`
	Dt          float64 `yaml:"dt"`
	Events      []Event `yaml:"events"`
}

// Event applies input on frames [Frame, Until]. Until defaults to Frame.
// Releases fire on Frame only; holds, presses and the mouse position last
// the whole span.
type Event struct {
	Frame   int       `yaml:"frame"`
	Until   int       `yaml:"until"`
	Release []string  `yaml:"release"`
	Hold    []string  `yaml:"hold"`
	Press   []string  `yaml:"press"`
	Mouse   *MousePos `yaml:"mouse"`
}

type MousePos struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type event struct {
	from, until int
	release     []control.Key
	hold        []control.Key
	press       []control.Button
	mouse       *dynamo.Vec
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// Script compiles the scenario into per-frame input. The mouse starts at
// home and keeps the last position an event set. The script holds no state
// between calls, so frames can be asked for in any order and one compiled
// script can drive several runs.
func (s *Scenario) Script(home dynamo.Vec) (sim.Script, error) {
	events := make([]event, 0, len(s.Events))
	for i, e := range s.Events {
		ev, err := compile(e)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		events = append(events, ev)
	}

	return func(frame int) control.Input {
		in := control.NewSnapshot()
		in.Mouse = mouseAt(events, home, frame)
		for _, ev := range events {
			if frame < ev.from || frame > ev.until {
				continue
			}
			if frame == ev.from {
				for _, k := range ev.release {
					in.Release(k)
				}
			}
			for _, k := range ev.hold {
				in.Hold(k)
			}
			for _, b := range ev.press {
				in.Press(b)
			}
		}
		return in
	}, nil
}

// mouseAt returns the position set on the latest frame up to frame. On a
// tie the later event wins.
func mouseAt(events []event, home dynamo.Vec, frame int) dynamo.Vec {
	mouse, last := home, -1
	for _, ev := range events {
		if ev.mouse == nil || frame < ev.from {
			continue
		}
		if at := min(frame, ev.until); at >= last {
			mouse, last = *ev.mouse, at
		}
	}
	return mouse
}

func compile(e Event) (event, error) {
	ev := event{from: e.Frame, until: e.Until}
	if e.Frame < 0 {
		return ev, fmt.Errorf("frame must be non-negative, got %d", e.Frame)
	}
	if ev.until < ev.from {
		ev.until = ev.from
	}

	for _, name := range e.Release {
		k, err := control.ParseKey(name)
		if err != nil {
			return ev, err
		}
		ev.release = append(ev.release, k)
	}
	for _, name := range e.Hold {
		k, err := control.ParseKey(name)
		if err != nil {
			return ev, err
		}
		ev.hold = append(ev.hold, k)
	}
	for _, name := range e.Press {
		b, err := control.ParseButton(name)
		if err != nil {
			return ev, err
		}
		ev.press = append(ev.press, b)
	}
	if e.Mouse != nil {
		ev.mouse = &dynamo.Vec{X: e.Mouse.X, Y: e.Mouse.Y}
	}
	return ev, nil
}
