package editor

import (
	"math"

	"github.com/vsariola/timeline"
	"go.uber.org/zap"
)

// Begin starts a gesture at a pointer press. If the press on an object asks
// for something the selection cannot do, the gesture is rejected: nothing
// changes, an alert is added and the error is returned.
func (s *Session) Begin(env Env, ev Press) error {
	if s.g.action != None {
		return ErrGestureActive
	}
	vp := env.Viewport
	p := vp.ContentPoint(ev.Point)
	s.g = gesture{
		mods:            ev.Modifiers,
		pressPoint:      ev.Point,
		startScroll:     Point{vp.ScrollX, vp.ScrollY},
		start:           p,
		current:         p,
		startPos:        env.Tempo.FromTicks(math.Max(0, vp.TicksAt(p.X))),
		selectionBefore: s.selection.clone(),
		execLen:         env.Executor.Len(),
		secondary:       ev.Button == SecondaryButton,
	}
	if ev.Button == MiddleButton {
		s.g.action = StartingPanning
		return nil
	}
	if h, ok := s.index(env).HitAt(p); ok {
		if err := s.beginOnObject(env, ev, p, h); err != nil {
			s.alert(err)
			s.g = gesture{}
			return err
		}
	} else {
		s.beginOnEmpty(env, ev, p)
	}
	if s.g.action != None {
		s.logger.Debug("gesture started",
			zap.Stringer("action", s.g.action),
			zap.Stringer("tool", env.Tool),
			zap.Float64("ticks", s.g.startPos.Ticks),
			zap.Int("selected", s.selection.Len()))
	}
	return nil
}

func (s *Session) beginOnObject(env Env, ev Press, p Point, h Hit) error {
	id := h.Object.Base().ID
	if s.g.secondary {
		if env.Tool == SelectTool {
			s.g.action = StartingErasing
		}
		return nil
	}
	sel := s.selection.clone()
	switch {
	case env.Tool == CutTool:
		sel.Set(id)
	case ev.Modifiers.Contain(ModCtrl):
		sel.Add(id)
	case !sel.Has(id):
		sel.Set(id)
	}
	var objs []timeline.Object
	for _, sid := range sel.ids {
		if o, ok := env.Store.Object(sid); ok {
			objs = append(objs, o)
		}
	}
	z := s.zoneOf(env, h, p, ev.Modifiers)
	a := actionFor(h.Object, z, env.Tool, ev.Modifiers)
	a, err := s.narrow(a, z, objs, h.Object, env, ev.Modifiers)
	if err != nil {
		s.g.action = a
		return err
	}
	s.g.hit = h.Object
	s.g.hitRect = h.Rect
	s.g.startObjectWasSelected = s.selection.Has(id)
	s.g.action = a
	switch a {
	case StartingErasing, StartingRamping:
		return nil
	case StartingAuditioning:
		s.startAudition(env)
		return nil
	}
	s.selection = sel
	s.takeSnapshot(env)
	return nil
}

func (s *Session) beginOnEmpty(env Env, ev Press, p Point) {
	ctrl := ev.Modifiers.Contain(ModCtrl)
	switch {
	case s.g.secondary:
		if env.Tool == SelectTool {
			s.g.action = StartingErasing
		}
	case env.Tool == SelectTool && ev.Clicks >= 2:
		s.create(env, p, ev.Modifiers)
	case env.Tool == SelectTool, env.Tool == StretchTool:
		if !ctrl {
			s.selection.Clear()
		}
		s.g.action = StartingSelection
		if s.view == TimelineView {
			i := env.Viewport.RowAt(p.Y)
			row, ok := env.Viewport.Row(i)
			lower := p.Y-float64(i)*env.Viewport.RowHeight > env.Viewport.RowHeight/2
			s.g.rangeMode = ok && row.Kind == TrackRow && lower
		}
	case env.Tool == EditTool:
		if s.view == VelocityView || (s.view == AutomationView && ctrl) {
			s.g.action = AutoFilling
			s.autoFill(env, p)
			return
		}
		s.create(env, p, ev.Modifiers)
	case env.Tool == EraserTool:
		s.g.action = StartingDeleteSelection
	case env.Tool == RampTool:
		if s.view == VelocityView {
			s.g.action = StartingRamping
		}
	case env.Tool == AuditionTool:
		s.startAudition(env)
	}
}

// takeSnapshot clones the selected objects; all values during the drag are
// computed from these clones.
func (s *Session) takeSnapshot(env Env) {
	s.g.snapshot = timeline.CloneAll(s.selected(env))
	for i, o := range s.g.snapshot {
		if start := o.Base().Start; i == 0 || start.Before(s.g.earliest) {
			s.g.earliest = start
		}
	}
}

func (s *Session) startAudition(env Env) {
	s.g.action = StartingAuditioning
	if env.Transport == nil {
		return
	}
	s.g.playhead = env.Transport.Playhead()
	s.g.playing = env.Transport.Playing()
	env.Transport.SetPlayhead(s.g.startPos)
	env.Transport.SetPlaying(true)
}

// create adds a new object at the press. Objects with length are then
// resized by dragging, the others moved.
func (s *Session) create(env Env, p Point, mods Modifiers) {
	vp := env.Viewport
	pos := s.g.startPos
	if !mods.Contain(ModShift) && env.Grid.AnySnap() {
		if prev, ok := s.snapper(env).Previous(pos, s.snapContainer(env, p)); ok {
			pos = prev
		}
	}
	step := env.Grid.Ticks(env.Tempo)
	base := timeline.ObjectBase{Start: pos, Selected: true}
	if s.scope.Kind == timeline.RegionContainer {
		base.Region = s.scope.Region
	}
	action := CreatingMoving
	var o timeline.Object
	switch s.view {
	case TimelineView:
		row, ok := vp.Row(vp.RowAt(p.Y))
		if !ok {
			return
		}
		base.Track = row.Track
		switch row.Kind {
		case TrackRow:
			base.Lane = row.Lane
			base.End = env.Tempo.FromTicks(pos.Ticks + env.Tempo.TicksPerBar)
			o = &timeline.Region{ObjectBase: base, LoopEnd: env.Tempo.FromTicks(env.Tempo.TicksPerBar)}
			action = CreatingResizingR
		case MarkerRow:
			o = &timeline.Marker{ObjectBase: base, Name: "Marker"}
		case ScaleRow:
			o = &timeline.ScaleMarker{ObjectBase: base, Scale: "major"}
		}
	case MidiView:
		pitch := 127 - vp.RowAt(p.Y)
		if pitch < 0 || pitch > 127 {
			return
		}
		base.End = env.Tempo.FromTicks(pos.Ticks + step)
		o = &timeline.MidiNote{ObjectBase: base, Pitch: uint8(pitch), Velocity: 90}
		action = CreatingResizingR
	case AutomationView:
		o = &timeline.AutomationPoint{ObjectBase: base, Value: vp.ValueAt(p.Y)}
	case ChordView:
		i := vp.RowAt(p.Y)
		if i < 0 {
			return
		}
		o = &timeline.ChordObject{ObjectBase: base, ChordIndex: i}
	}
	if o == nil {
		return
	}
	o.Base().ID = env.Store.NextID()
	s.g.created = o
	s.g.action = action
	s.g.snapshot = []timeline.Object{timeline.Clone(o)}
	s.g.earliest = pos
	s.selection.Set(o.Base().ID)
}
