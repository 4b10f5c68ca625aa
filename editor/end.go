package editor

import (
	"github.com/vsariola/timeline"
	"go.uber.org/zap"
)

// End finishes the gesture at pointer release. Whatever the gesture did is
// committed to the executor as a single intent. If the executor fails, an
// alert is added and the error is returned; the store is then unchanged.
// The gesture state is reset in any case.
func (s *Session) End(env Env, ev Release) error {
	defer func() { s.g = gesture{} }()
	if s.g.cancelled || s.g.action == None {
		return nil
	}
	p := env.Viewport.ContentPoint(ev.Point)
	s.g.mods = ev.Modifiers
	a := s.g.action
	var in timeline.Intent
	if edge, variant, ok := a.resize(); ok {
		if s.g.resizeTicks != 0 {
			in = timeline.Resize{Objects: timeline.IDs(s.g.snapshot), Edge: edge, Variant: variant, Ticks: s.g.resizeTicks}
		}
		return s.finish(env, in)
	}
	switch a {
	case StartingMoving:
		s.click(ev.Modifiers)
	case Moving:
		if !s.g.move.IsZero() {
			m := s.g.move
			m.Objects = timeline.IDs(s.g.snapshot)
			in = m
		}
	case MovingCopy, MovingLink:
		if !s.g.move.IsZero() {
			m := s.g.move
			m.Objects = timeline.IDs(s.g.snapshot)
			in = timeline.Duplicate{Move: m, Link: a == MovingLink}
		}
	case ResizingUp, ResizingUpFadeIn, ResizingUpFadeOut, Ramping, AutoFilling:
		in = s.primitive()
	case Selecting:
		if s.g.rangeMode && env.Transport != nil {
			env.Transport.SetRange(s.g.rangeStart, s.g.rangeEnd)
		}
	case StartingErasing, StartingDeleteSelection:
		if !s.g.secondary {
			in = s.eraseUnder(env, p)
		}
	case Erasing, DeleteSelecting:
		in = s.deletePending(env)
	case Cutting:
		in = s.split(env, p)
	case CreatingMoving, CreatingResizingR:
		if s.g.created != nil {
			c := timeline.Clone(s.g.created)
			c.Base().Selected = false
			in = timeline.Create{Objects: []timeline.Object{c}}
		}
	case StartingAuditioning, Auditioning:
		if env.Transport != nil {
			env.Transport.SetPlaying(s.g.playing)
			env.Transport.SetPlayhead(s.g.playhead)
		}
	case Renaming:
		if !s.g.dragStarted && s.onRename != nil && s.g.hit != nil {
			s.onRename(s.g.hit)
		}
	}
	return s.finish(env, in)
}

func (s *Session) finish(env Env, in timeline.Intent) error {
	if in == nil {
		s.logger.Debug("gesture ended", zap.Stringer("action", s.g.action))
		return nil
	}
	return s.commit(env, in)
}

func (s *Session) commit(env Env, in timeline.Intent) error {
	h, err := env.Executor.Perform(in)
	if err != nil {
		err = commitFailed(err, in.Name())
		s.alert(err)
		return err
	}
	s.logger.Debug("intent committed", zap.String("intent", in.Name()), zap.Int("handle", int(h)))
	if d, ok := in.(timeline.Delete); ok {
		for _, o := range d.Objects {
			s.selection.Remove(o.Base().ID)
		}
	}
	return nil
}

// click handles a press and release on an object without dragging: with
// ctrl the object is toggled, otherwise it becomes the only selected one.
func (s *Session) click(mods Modifiers) {
	if s.g.hit == nil {
		return
	}
	id := s.g.hit.Base().ID
	if mods.Contain(ModCtrl) {
		if s.g.startObjectWasSelected {
			s.selection.Remove(id)
		}
		return
	}
	s.selection.Set(id)
}

// primitive collects the objects changed by a vertical edit.
func (s *Session) primitive() timeline.Intent {
	var before, after []timeline.Object
	add := func(b timeline.Object) {
		a, ok := s.g.overlay[b.Base().ID]
		if !ok || timeline.Equal(a, b) {
			return
		}
		before = append(before, timeline.Clone(b))
		after = append(after, timeline.Clone(a))
	}
	if len(s.g.edited) > 0 {
		for _, id := range s.g.edited {
			add(s.g.before[id])
		}
	} else {
		for _, o := range s.g.snapshot {
			add(o)
		}
	}
	if len(after) == 0 {
		return nil
	}
	return timeline.EditPrimitive{Before: before, After: after}
}

func (s *Session) eraseUnder(env Env, p Point) timeline.Intent {
	idx := NewIndex(s.view, env.Viewport, s.prefs, storeContainer(env.Store, s.scope))
	o, ok := idx.BestHitAt(p)
	if !ok {
		return nil
	}
	if !timeline.CapabilitiesOf(o).Deletable {
		s.alert(reject(ErrUndeletable, s.g.action, "Cannot delete "+timeline.Describe(o)+"."))
		return nil
	}
	return timeline.Delete{Objects: []timeline.Object{timeline.Clone(o)}}
}

// deletePending deletes what was erased or delete-selected. Nothing is
// deleted if any of it cannot be.
func (s *Session) deletePending(env Env) timeline.Intent {
	var objs []timeline.Object
	for _, id := range s.g.pending {
		o, ok := env.Store.Object(id)
		if !ok {
			continue
		}
		if !timeline.CapabilitiesOf(o).Deletable {
			s.alert(reject(ErrUndeletable, s.g.action, "Cannot delete the selection because it contains "+timeline.Describe(o)+"."))
			return nil
		}
		objs = append(objs, timeline.Clone(o))
	}
	if len(objs) == 0 {
		return nil
	}
	return timeline.Delete{Objects: objs}
}

func (s *Session) split(env Env, p Point) timeline.Intent {
	at := s.g.cutPos
	if !s.g.dragStarted {
		at = s.snappedAt(env, p)
	}
	var ids []timeline.ObjectID
	objs := s.g.snapshot
	if len(objs) == 0 && s.g.hit != nil {
		objs = []timeline.Object{s.g.hit}
	}
	for _, o := range objs {
		start, end := timeline.Bounds(o)
		if at.Ticks > start.Ticks && at.Ticks < end.Ticks {
			ids = append(ids, o.Base().ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return timeline.Split{Objects: ids, At: at}
}
