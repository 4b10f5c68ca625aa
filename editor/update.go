package editor

import (
	"math"
	"slices"

	"github.com/vsariola/timeline"
	"go.uber.org/zap"
)

// Update continues the gesture as the pointer moves. Until the pointer has
// moved beyond the drag threshold, nothing happens.
func (s *Session) Update(env Env, ev Motion) {
	if s.g.cancelled || s.g.action == None {
		return
	}
	vp := env.Viewport
	s.g.mods = ev.Modifiers
	if !s.g.dragStarted {
		if ev.Point.Dist(s.g.pressPoint) < s.prefs.DragThreshold {
			return
		}
		s.g.dragStarted = true
	}
	if s.g.action == StartingPanning || s.g.action == Panning {
		s.g.action = Panning
		vp.ScrollX = math.Max(0, s.g.startScroll.X-(ev.Point.X-s.g.pressPoint.X))
		vp.ScrollY = math.Max(0, s.g.startScroll.Y-(ev.Point.Y-s.g.pressPoint.Y))
		return
	}
	s.promote(env)
	s.autoScroll(vp, ev.Point)
	p := vp.ContentPoint(ev.Point)
	s.g.current = p
	a := s.g.action
	if edge, variant, ok := a.resize(); ok {
		s.resizeTo(env, p, edge, variant)
		return
	}
	switch {
	case a.moving():
		s.moveTo(env, p)
	case a == ResizingUp || a.fadeUp():
		s.resizeUp(env, p)
	case a == Selecting || a == DeleteSelecting:
		s.selectTo(env, p)
	case a == Erasing:
		s.eraseAt(env, p)
	case a == Ramping:
		s.rampTo(env, p)
	case a == AutoFilling:
		s.autoFill(env, p)
	case a == CreatingMoving:
		s.createMoveTo(env, p)
	case a == CreatingResizingR:
		s.createResizeTo(env, p)
	case a == Cutting:
		s.g.cutPos = s.snappedAt(env, p)
	case a == Auditioning:
		if env.Transport != nil {
			env.Transport.SetPlayhead(env.Tempo.FromTicks(math.Max(0, vp.TicksAt(p.X))))
		}
	}
}

// promote turns the starting actions into their dragging counterparts. The
// kind of move is decided again on every update, so that pressing and
// releasing the modifiers switches between moving, copying and linking.
func (s *Session) promote(env Env) {
	prev := s.g.action
	switch prev {
	case StartingSelection:
		s.g.action = Selecting
	case StartingDeleteSelection:
		s.g.action = DeleteSelecting
		s.selection.Clear()
	case StartingErasing:
		s.g.action = Erasing
		s.eraseAt(env, s.g.start)
	case StartingRamping:
		s.g.action = Ramping
	case StartingAuditioning:
		s.g.action = Auditioning
	case StartingMoving, Moving, MovingCopy, MovingLink:
		s.g.action = s.moveKind()
	case Cutting:
		if s.g.mods.Contain(ModAlt) && s.canLink() {
			s.g.action = MovingLink
		}
	}
	if s.g.action != prev {
		s.logger.Debug("action changed", zap.Stringer("from", prev), zap.Stringer("to", s.g.action))
	}
}

func (s *Session) moveKind() Action {
	switch {
	case s.g.mods.Contain(ModAlt) && s.canLink():
		return MovingLink
	case s.g.mods.Contain(ModCtrl) && s.canClone():
		return MovingCopy
	}
	return Moving
}

func (s *Session) canLink() bool {
	if s.view != TimelineView || len(s.g.snapshot) == 0 {
		return false
	}
	for _, o := range s.g.snapshot {
		if _, ok := o.(*timeline.Region); !ok {
			return false
		}
	}
	return true
}

func (s *Session) canClone() bool {
	for _, o := range s.g.snapshot {
		if !timeline.CapabilitiesOf(o).Clonable {
			return false
		}
	}
	return len(s.g.snapshot) > 0
}

func (s *Session) autoScroll(vp *Viewport, pt Point) {
	horizontal, vertical := s.g.action.scrollAxes()
	as := s.prefs.AutoScroll
	if horizontal {
		if pt.X < as.Border {
			vp.ScrollX = math.Max(0, vp.ScrollX-as.HorizontalSpeed)
		} else if pt.X > vp.Width-as.Border {
			vp.ScrollX += as.HorizontalSpeed
		}
	}
	if vertical {
		if pt.Y < as.Border {
			vp.ScrollY = math.Max(0, vp.ScrollY-as.VerticalSpeed)
		} else if pt.Y > vp.Height-as.Border {
			vp.ScrollY += as.VerticalSpeed
		}
	}
}

// timeDelta returns how many ticks a position that was at base when the
// gesture started should move, given that the pointer is now at p. The
// result never moves base below zero. Unless shift is held, the moved
// position is snapped.
func (s *Session) timeDelta(env Env, p Point, base timeline.Position) float64 {
	ticks := math.Max(0, env.Viewport.TicksAt(p.X))
	diff := ticks - s.g.startPos.Ticks
	target := base.Ticks + diff
	if target < 0 {
		return -base.Ticks
	}
	if s.g.mods.Contain(ModShift) || !env.Grid.AnySnap() {
		return diff
	}
	snapped, err := s.snapper(env).Snap(base, env.Tempo.FromTicks(target), s.snapContainer(env, p))
	if err != nil {
		return diff
	}
	return snapped.Ticks - base.Ticks
}

// snappedAt returns the position under p, snapped unless shift is held.
func (s *Session) snappedAt(env Env, p Point) timeline.Position {
	pos := env.Tempo.FromTicks(math.Max(0, env.Viewport.TicksAt(p.X)))
	if s.g.mods.Contain(ModShift) || !env.Grid.AnySnap() {
		return pos
	}
	snapped, _ := s.snapper(env).Snap(pos, pos, s.snapContainer(env, p))
	return snapped
}

func (s *Session) setLive(o timeline.Object) {
	if s.g.overlay == nil {
		s.g.overlay = make(map[timeline.ObjectID]timeline.Object)
	}
	s.g.overlay[o.Base().ID] = o
}

// touch remembers the state of o before the gesture changed it for the
// first time.
func (s *Session) touch(o timeline.Object) {
	if s.g.before == nil {
		s.g.before = make(map[timeline.ObjectID]timeline.Object)
	}
	id := o.Base().ID
	if _, ok := s.g.before[id]; !ok {
		s.g.before[id] = timeline.Clone(o)
		s.g.edited = append(s.g.edited, id)
	}
}

func (s *Session) snapshotOf(id timeline.ObjectID) (timeline.Object, bool) {
	for _, o := range s.g.snapshot {
		if o.Base().ID == id {
			return o, true
		}
	}
	return nil, false
}

func (s *Session) moveTo(env Env, p Point) {
	vp := env.Viewport
	m := timeline.Move{Ticks: s.timeDelta(env, p, s.g.earliest)}
	rows := vp.RowAt(p.Y) - vp.RowAt(s.g.start.Y)
	switch s.view {
	case TimelineView:
		m.Tracks, m.Lanes = s.trackDelta(vp, rows)
	case MidiView:
		lo, hi := 127, 0
		for _, o := range s.g.snapshot {
			if n, ok := o.(*timeline.MidiNote); ok {
				lo, hi = min(lo, int(n.Pitch)), max(hi, int(n.Pitch))
			}
		}
		m.Pitch = max(-lo, min(127-hi, -rows))
	case ChordView:
		lo := math.MaxInt
		for _, o := range s.g.snapshot {
			if c, ok := o.(*timeline.ChordObject); ok {
				lo = min(lo, c.ChordIndex)
			}
		}
		if lo != math.MaxInt {
			m.Chords = max(-lo, rows)
		}
	case AutomationView:
		if vp.LaneHeight > 0 {
			m.Value = (s.g.start.Y - p.Y) / vp.LaneHeight
		}
	}
	s.g.move = m
	moved := make([]timeline.Object, len(s.g.snapshot))
	for i, o := range s.g.snapshot {
		c := timeline.Clone(o)
		timeline.ApplyMove(c, env.Tempo, m)
		moved[i] = c
	}
	s.g.overlay, s.g.ghosts = nil, nil
	if s.g.action == Moving {
		for _, c := range moved {
			s.setLive(c)
		}
		return
	}
	for _, c := range moved {
		c.Base().Selected = true
	}
	s.g.ghosts = moved
}

// trackDelta converts a change in rows to a change in tracks and lanes,
// following the row of the object that was pressed.
func (s *Session) trackDelta(vp *Viewport, rows int) (tracks, lanes int) {
	if _, ok := s.g.hit.(*timeline.Region); !ok || rows == 0 {
		return 0, 0
	}
	from, ok := vp.rowOf(s.g.hit)
	if !ok {
		return 0, 0
	}
	to := max(0, min(len(vp.Rows)-1, from+rows))
	if vp.Rows[to].Kind != TrackRow {
		return 0, 0
	}
	return vp.Rows[to].Track - vp.Rows[from].Track, vp.Rows[to].Lane - vp.Rows[from].Lane
}

func (s *Session) resizeTo(env Env, p Point, edge timeline.ResizeEdge, variant timeline.ResizeVariant) {
	if s.g.hit == nil {
		return
	}
	hit, ok := s.snapshotOf(s.g.hit.Base().ID)
	if !ok {
		return
	}
	base := hit.Base().Start
	if edge == timeline.EdgeRight {
		base = hit.Base().End
	}
	if r, ok := hit.(*timeline.Region); ok && variant == timeline.ResizeFade {
		if edge == timeline.EdgeLeft {
			base = env.Tempo.FromTicks(r.Start.Ticks + r.FadeIn.Ticks)
		} else {
			base = env.Tempo.FromTicks(r.End.Ticks - r.FadeOut.Ticks)
		}
	}
	delta := s.timeDelta(env, p, base)
	c := timeline.Clone(hit)
	applied := timeline.ResizeObject(c, env.Tempo, edge, variant, delta, s.prefs.MinLength)
	for _, o := range s.g.snapshot {
		if o.Base().ID == hit.Base().ID {
			s.setLive(c)
			continue
		}
		other := timeline.Clone(o)
		timeline.ResizeObject(other, env.Tempo, edge, variant, applied, s.prefs.MinLength)
		s.setLive(other)
	}
	s.g.resizeTicks = applied
}

// resizeUp changes values vertically: the velocities, the curviness of the
// pressed automation point or the fade curves of regions.
func (s *Session) resizeUp(env Env, p Point) {
	vp := env.Viewport
	dy := s.g.start.Y - p.Y
	for _, o := range s.g.snapshot {
		c := timeline.Clone(o)
		switch s.g.action {
		case ResizingUp:
			switch c := c.(type) {
			case *timeline.AutomationPoint:
				if c.ID != s.g.hit.Base().ID || vp.LaneHeight <= 0 {
					continue
				}
				c.Curviness = math.Max(-0.99, math.Min(0.99, c.Curviness+dy/vp.LaneHeight))
			case *timeline.Velocity:
				if vp.LaneHeight <= 0 {
					continue
				}
				v, _ := timeline.Value(c)
				timeline.SetValue(c, v+dy/vp.LaneHeight)
			}
		case ResizingUpFadeIn, ResizingUpFadeOut:
			r, ok := c.(*timeline.Region)
			if !ok || s.g.hitRect.Height() <= 0 {
				continue
			}
			in := s.g.action == ResizingUpFadeIn
			curve := r.FadeOutCurve
			if in {
				curve = r.FadeInCurve
			}
			timeline.SetFadeCurve(r, in, curve+dy/s.g.hitRect.Height())
		}
		s.setLive(c)
	}
}

func (s *Session) selectTo(env Env, p Point) {
	s.g.highlight = RectFrom(s.g.start, p)
	if s.g.action == DeleteSelecting {
		idx := NewIndex(s.view, env.Viewport, s.prefs, storeContainer(env.Store, s.scope))
		objs := idx.ObjectsInRect(s.g.highlight)
		s.g.overlay = nil
		s.g.pending = s.g.pending[:0]
		for _, o := range objs {
			c := timeline.Clone(o)
			c.Base().TemporarilyDeleted = true
			s.setLive(c)
			s.g.pending = append(s.g.pending, c.Base().ID)
		}
		return
	}
	if s.g.rangeMode {
		a, b := s.snappedAt(env, s.g.start), s.snappedAt(env, p)
		if b.Before(a) {
			a, b = b, a
		}
		s.g.rangeStart, s.g.rangeEnd = a, b
		return
	}
	sel := Selection{}
	if s.g.mods.Contain(ModCtrl) {
		sel = s.g.selectionBefore.clone()
	}
	for _, o := range s.index(env).ObjectsInRect(s.g.highlight) {
		sel.Add(o.Base().ID)
	}
	s.selection = sel
}

func (s *Session) eraseAt(env Env, p Point) {
	o, ok := s.index(env).BestHitAt(p)
	if !ok {
		return
	}
	id := o.Base().ID
	if slices.Contains(s.g.pending, id) {
		return
	}
	c := timeline.Clone(o)
	c.Base().TemporarilyDeleted = true
	s.setLive(c)
	s.g.pending = append(s.g.pending, id)
}

// rampTo sets the velocities under the line from the press to p to values
// along the line. Velocities left outside when the line shrinks get their
// values back.
func (s *Session) rampTo(env Env, p Point) {
	vp := env.Viewport
	a, b := s.g.start, p
	if b.X < a.X {
		a, b = b, a
	}
	for o := range env.Store.ObjectsIn(s.scope) {
		v, ok := o.(*timeline.Velocity)
		if !ok || v.Frozen {
			continue
		}
		x := vp.XAt(v.Start.Ticks)
		if x < a.X || x > b.X {
			delete(s.g.overlay, v.ID)
			continue
		}
		t := 0.0
		if b.X > a.X {
			t = (x - a.X) / (b.X - a.X)
		}
		s.touch(v)
		c := timeline.Clone(v)
		timeline.SetValue(c, vp.ValueAt(a.Y+t*(b.Y-a.Y)))
		s.setLive(c)
	}
}

// autoFill sets the values of the velocities or automation points under
// the pointer to the pointer height.
func (s *Session) autoFill(env Env, p Point) {
	vp := env.Viewport
	half := vp.PointSize / 2
	for o := range env.Store.ObjectsIn(s.scope) {
		if !s.view.Accepts(o) || o.Base().Frozen {
			continue
		}
		if _, ok := timeline.Value(o); !ok || math.Abs(vp.XAt(o.Base().Start.Ticks)-p.X) > half {
			continue
		}
		s.touch(o)
		c := timeline.Clone(o)
		timeline.SetValue(c, vp.ValueAt(p.Y))
		s.setLive(c)
	}
}

func (s *Session) createMoveTo(env Env, p Point) {
	if len(s.g.snapshot) == 0 {
		return
	}
	c := timeline.Clone(s.g.snapshot[0])
	timeline.MoveObject(c, env.Tempo, s.timeDelta(env, p, c.Base().Start))
	switch c := c.(type) {
	case *timeline.AutomationPoint:
		timeline.SetValue(c, env.Viewport.ValueAt(p.Y))
	case *timeline.ChordObject:
		timeline.SetChordIndex(c, env.Viewport.RowAt(p.Y))
	}
	s.g.created = c
}

func (s *Session) createResizeTo(env Env, p Point) {
	if len(s.g.snapshot) == 0 {
		return
	}
	c := timeline.Clone(s.g.snapshot[0])
	end := s.snappedAt(env, p)
	timeline.ResizeObject(c, env.Tempo, timeline.EdgeRight, timeline.ResizePlain, end.Ticks-c.Base().End.Ticks, s.prefs.MinLength)
	s.g.created = c
}
