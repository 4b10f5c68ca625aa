package editor

import (
	"math"

	"github.com/vsariola/timeline"
	"go.uber.org/zap"
)

// cancel aborts the gesture in progress. Anything the executor recorded
// since the press is undone, and the selection is restored. The rest of the
// gesture is ignored until the next press.
func (s *Session) cancel(env Env) {
	if env.Executor.Len() > s.g.execLen {
		if err := env.Executor.Undo(); err != nil {
			s.logger.Error("undo on cancel failed", zap.Error(err))
		}
	}
	if (s.g.action == StartingAuditioning || s.g.action == Auditioning) && env.Transport != nil {
		env.Transport.SetPlaying(s.g.playing)
		env.Transport.SetPlayhead(s.g.playhead)
	}
	s.logger.Debug("gesture cancelled", zap.Stringer("action", s.g.action))
	s.selection = s.g.selectionBefore
	s.g = gesture{cancelled: true}
}

// Key handles a key press. Escape cancels the gesture in progress; the other
// keys only work between gestures.
func (s *Session) Key(env Env, ev KeyEvent) error {
	if ev.Key == KeyEscape {
		if s.g.action != None {
			s.cancel(env)
		}
		return nil
	}
	if s.g.action != None {
		return nil
	}
	ctrl := ev.Modifiers.Contain(ModCtrl)
	switch ev.Key {
	case KeyLeft, KeyRight:
		return s.nudge(env, ev.Key == KeyLeft, ctrl)
	case KeyUp, KeyDown:
		return s.shift(env, ev.Key == KeyUp)
	case KeyDelete:
		return s.deleteSelection(env)
	case KeyA:
		if ctrl {
			s.selection.Set(timeline.IDs(s.index(env).All())...)
		}
	case KeyC:
		if ctrl {
			return s.copySelection(env)
		}
	}
	return nil
}

func (s *Session) movable(env Env) []timeline.Object {
	var ret []timeline.Object
	for _, o := range s.selected(env) {
		if timeline.CapabilitiesOf(o).Movable && !o.Base().Frozen {
			ret = append(ret, o)
		}
	}
	return ret
}

// nudge moves the selection by one grid step, or a bar with ctrl, never
// past zero.
func (s *Session) nudge(env Env, left, bar bool) error {
	objs := s.movable(env)
	if len(objs) == 0 {
		return nil
	}
	step := env.Grid.Ticks(env.Tempo)
	if bar {
		step = env.Tempo.TicksPerBar
	}
	if left {
		earliest := math.Inf(1)
		for _, o := range objs {
			earliest = math.Min(earliest, o.Base().Start.Ticks)
		}
		step = -math.Min(step, earliest)
	}
	if step == 0 {
		return nil
	}
	return s.commit(env, timeline.Move{Objects: timeline.IDs(objs), Ticks: step})
}

// shift moves the selection one row up or down.
func (s *Session) shift(env Env, up bool) error {
	objs := s.movable(env)
	if len(objs) == 0 {
		return nil
	}
	d := 1
	if up {
		d = -1
	}
	m := timeline.Move{Objects: timeline.IDs(objs)}
	for _, o := range objs {
		switch o := o.(type) {
		case *timeline.Region:
			if o.Track+d < 0 {
				return nil
			}
			m.Tracks = d
		case *timeline.MidiNote:
			if int(o.Pitch)-d < 0 || int(o.Pitch)-d > 127 {
				return nil
			}
			m.Pitch = -d
		case *timeline.ChordObject:
			if o.ChordIndex+d < 0 {
				return nil
			}
			m.Chords = d
		}
	}
	if m.IsZero() {
		return nil
	}
	return s.commit(env, m)
}

func (s *Session) deleteSelection(env Env) error {
	objs := s.selected(env)
	if len(objs) == 0 {
		return nil
	}
	for _, o := range objs {
		if !timeline.CapabilitiesOf(o).Deletable {
			err := reject(ErrUndeletable, None, "Cannot delete the selection because it contains "+timeline.Describe(o)+".")
			s.alert(err)
			return err
		}
	}
	return s.commit(env, timeline.Delete{Objects: timeline.CloneAll(objs)})
}

func (s *Session) copySelection(env Env) error {
	objs := s.selected(env)
	if len(objs) == 0 || s.clipboard == nil {
		return nil
	}
	data, err := timeline.MarshalObjects(objs)
	if err != nil {
		return err
	}
	s.clipboard(data)
	return nil
}
