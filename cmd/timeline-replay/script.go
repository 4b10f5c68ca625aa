package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vsariola/timeline"
	"github.com/vsariola/timeline/editor"
	"github.com/vsariola/timeline/editor/memstore"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type (
	// Script is a project and a list of pointer and key events to replay on
	// it.
	Script struct {
		Tempo    TempoDoc
		Grid     timeline.SnapGrid
		View     string
		Region   timeline.ObjectID // edited region, for the other views than timeline
		Tool     string
		Viewport ViewportDoc
		Objects  []timeline.ObjectDoc
		Steps    []Step
	}

	TempoDoc struct {
		SampleRate  float64
		BPM         float64
		BeatsPerBar int
		BeatUnit    int
	}

	ViewportDoc struct {
		PixelsPerTick float64
		Width, Height float64
		RowHeight     float64
		LaneHeight    float64
		PointSize     float64
		Rows          []RowDoc
	}

	RowDoc struct {
		Kind  string
		Track int
		Lane  int
	}

	// Step is one event. Exactly one of Press, Move, Release and Key is set;
	// the coordinates are pixels relative to the editor.
	Step struct {
		Press   []float64 `yaml:",flow"`
		Move    []float64 `yaml:",flow"`
		Release []float64 `yaml:",flow"`
		Key     string
		Button  string
		Mods    []string `yaml:",flow"`
		Clicks  int
		Tool    string // changes the tool before the step
	}

	// Result is what a replay produced.
	Result struct {
		Tempo   timeline.TempoContext
		Objects []timeline.Object
		Intents []timeline.Intent
		Alerts  []editor.Alert
	}
)

var (
	ErrUnknownName  = errors.New("unknown name")
	ErrInvalidStep  = errors.New("invalid step")
	ErrInvalidPoint = errors.New("a point needs two coordinates")
)

var viewNames = map[string]editor.View{
	"":           editor.TimelineView,
	"timeline":   editor.TimelineView,
	"midi":       editor.MidiView,
	"automation": editor.AutomationView,
	"chord":      editor.ChordView,
	"velocity":   editor.VelocityView,
}

var rowKinds = map[string]editor.RowKind{
	"":       editor.TrackRow,
	"track":  editor.TrackRow,
	"marker": editor.MarkerRow,
	"scale":  editor.ScaleRow,
}

var keyNames = map[string]editor.Key{
	"escape": editor.KeyEscape,
	"left":   editor.KeyLeft,
	"right":  editor.KeyRight,
	"up":     editor.KeyUp,
	"down":   editor.KeyDown,
	"delete": editor.KeyDelete,
	"a":      editor.KeyA,
	"c":      editor.KeyC,
}

var buttonNames = map[string]editor.Button{
	"":          editor.PrimaryButton,
	"primary":   editor.PrimaryButton,
	"secondary": editor.SecondaryButton,
	"middle":    editor.MiddleButton,
}

var modNames = map[string]editor.Modifiers{
	"shift": editor.ModShift,
	"ctrl":  editor.ModCtrl,
	"alt":   editor.ModAlt,
}

// ParseScript decodes a script, failing on unknown fields.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode script: %w", err)
	}
	if s.Tempo == (TempoDoc{}) {
		s.Tempo = TempoDoc{SampleRate: 48000, BPM: 120, BeatsPerBar: 4, BeatUnit: 4}
	}
	return &s, nil
}

func parseTool(name string) (editor.Tool, error) {
	if name == "" {
		return editor.SelectTool, nil
	}
	for t := editor.SelectTool; t <= editor.AuditionTool; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: tool %q", ErrUnknownName, name)
}

func lookup[T any](m map[string]T, kind, name string) (T, error) {
	v, ok := m[name]
	if !ok {
		return v, fmt.Errorf("%w: %s %q", ErrUnknownName, kind, name)
	}
	return v, nil
}

func point(c []float64) (editor.Point, error) {
	if len(c) != 2 {
		return editor.Point{}, ErrInvalidPoint
	}
	return editor.Point{X: c[0], Y: c[1]}, nil
}

func (s *Script) viewport() (*editor.Viewport, error) {
	d := s.Viewport
	vp := &editor.Viewport{
		PixelsPerTick: d.PixelsPerTick,
		Width:         d.Width,
		Height:        d.Height,
		RowHeight:     d.RowHeight,
		LaneHeight:    d.LaneHeight,
		PointSize:     d.PointSize,
	}
	if vp.PixelsPerTick <= 0 {
		vp.PixelsPerTick = 0.1
	}
	for _, r := range d.Rows {
		kind, err := lookup(rowKinds, "row kind", r.Kind)
		if err != nil {
			return nil, err
		}
		vp.Rows = append(vp.Rows, editor.Row{Kind: kind, Track: r.Track, Lane: r.Lane})
	}
	return vp, nil
}

// Replay runs the steps of the script through an edit session backed by an
// in-memory store. Rejected gestures and failed commits do not stop the
// replay; they end up in the alerts of the result.
func Replay(s *Script, logger *zap.Logger) (*Result, error) {
	tc, err := timeline.NewTempoContext(s.Tempo.SampleRate, s.Tempo.BPM, s.Tempo.BeatsPerBar, s.Tempo.BeatUnit)
	if err != nil {
		return nil, err
	}
	objs := make([]timeline.Object, 0, len(s.Objects))
	for i, d := range s.Objects {
		o, err := d.Object(tc)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		objs = append(objs, o)
	}
	view, err := lookup(viewNames, "view", s.View)
	if err != nil {
		return nil, err
	}
	tool, err := parseTool(s.Tool)
	if err != nil {
		return nil, err
	}
	vp, err := s.viewport()
	if err != nil {
		return nil, err
	}
	store := memstore.New(tc, objs, memstore.WithLogger(logger))
	env := editor.Env{
		Tempo:     tc,
		Grid:      s.Grid,
		Tool:      tool,
		Store:     store,
		Executor:  store,
		Transport: &memstore.Transport{},
		Viewport:  vp,
	}
	var scope timeline.ContainerRef
	if view != editor.TimelineView {
		scope = timeline.ContainerRef{Kind: timeline.RegionContainer, Region: s.Region}
	}
	session := editor.New(view, editor.WithLogger(logger), editor.WithScope(scope))
	for i, step := range s.Steps {
		if err := apply(session, &env, step); err != nil {
			if errors.Is(err, ErrUnknownName) || errors.Is(err, ErrInvalidStep) || errors.Is(err, ErrInvalidPoint) {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			logger.Info("step failed", zap.Int("step", i), zap.Error(err))
		}
	}
	ret := &Result{Tempo: tc, Intents: store.Log(), Alerts: session.Alerts().Items()}
	for o := range store.Objects() {
		ret.Objects = append(ret.Objects, o)
	}
	return ret, nil
}

func apply(session *editor.Session, env *editor.Env, step Step) error {
	if step.Tool != "" {
		tool, err := parseTool(step.Tool)
		if err != nil {
			return err
		}
		env.Tool = tool
	}
	var mods editor.Modifiers
	for _, name := range step.Mods {
		m, err := lookup(modNames, "modifier", name)
		if err != nil {
			return err
		}
		mods |= m
	}
	switch {
	case step.Press != nil:
		p, err := point(step.Press)
		if err != nil {
			return err
		}
		button, err := lookup(buttonNames, "button", step.Button)
		if err != nil {
			return err
		}
		return session.Begin(*env, editor.Press{Point: p, Button: button, Modifiers: mods, Clicks: max(1, step.Clicks)})
	case step.Move != nil:
		p, err := point(step.Move)
		if err != nil {
			return err
		}
		session.Update(*env, editor.Motion{Point: p, Modifiers: mods})
	case step.Release != nil:
		p, err := point(step.Release)
		if err != nil {
			return err
		}
		return session.End(*env, editor.Release{Point: p, Modifiers: mods})
	case step.Key != "":
		k, err := lookup(keyNames, "key", step.Key)
		if err != nil {
			return err
		}
		return session.Key(*env, editor.KeyEvent{Key: k, Modifiers: mods})
	case step.Tool == "":
		return ErrInvalidStep
	}
	return nil
}
