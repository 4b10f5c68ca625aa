// Package memstore keeps timeline objects in memory and applies intents to
// them, with an undo history. It is the store and executor used by the
// replay tool and the editor tests.
package memstore

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/vsariola/timeline"
	"github.com/vsariola/timeline/editor"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type (
	// Store implements both editor.Store and editor.Executor. Intents are
	// applied to a copy of the objects, which replaces the objects only if
	// the whole intent succeeded.
	Store struct {
		tempo     timeline.TempoContext
		minLength float64
		objects   []timeline.Object
		nextID    timeline.ObjectID
		undoStack [][]timeline.Object
		redoStack [][]timeline.Object
		log       []timeline.Intent
		logger    *zap.Logger
	}

	Option func(*Store)
)

const maxUndo = 64

var (
	ErrNoSuchObject   = errors.New("no such object")
	ErrNotMovable     = errors.New("object cannot be moved")
	ErrNotResizable   = errors.New("object has no length")
	ErrNotDeletable   = errors.New("object cannot be deleted")
	ErrNotClonable    = errors.New("object cannot be cloned")
	ErrDuplicateID    = errors.New("object id already in use")
	ErrInvalidTrack   = errors.New("track out of range")
	ErrMismatch       = errors.New("before and after do not match")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrUnknownIntent  = errors.New("unknown intent")
	ErrObjectFrozen   = errors.New("object is frozen")
	ErrNoObjectsGiven = errors.New("intent has no objects")
)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMinLength sets the shortest length resizes can make objects. It
// should match the editor preferences.
func WithMinLength(ticks float64) Option {
	return func(s *Store) { s.minLength = ticks }
}

// New returns a store holding clones of objs.
func New(tc timeline.TempoContext, objs []timeline.Object, opts ...Option) *Store {
	s := &Store{
		tempo:     tc,
		minLength: 1,
		objects:   timeline.CloneAll(objs),
		nextID:    1,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, o := range s.objects {
		s.nextID = max(s.nextID, o.Base().ID+1)
	}
	return s
}

// Objects yields all objects in drawing order.
func (s *Store) Objects() iter.Seq[timeline.Object] {
	return timeline.ObjectList(s.objects).Objects()
}

func (s *Store) ObjectsIn(ref timeline.ContainerRef) iter.Seq[timeline.Object] {
	return func(yield func(timeline.Object) bool) {
		for _, o := range s.objects {
			if ref.Contains(o) && !yield(o) {
				return
			}
		}
	}
}

func (s *Store) Object(id timeline.ObjectID) (timeline.Object, bool) {
	if i := find(s.objects, id); i >= 0 {
		return s.objects[i], true
	}
	return nil, false
}

// NextID reserves a new ID. IDs are never handed out twice.
func (s *Store) NextID() timeline.ObjectID {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) Len() int { return len(s.undoStack) }

// Log returns the intents performed so far, including undone ones.
func (s *Store) Log() []timeline.Intent { return s.log }

func find(objs []timeline.Object, id timeline.ObjectID) int {
	return slices.IndexFunc(objs, func(o timeline.Object) bool { return o.Base().ID == id })
}

func (s *Store) Perform(in timeline.Intent) (editor.Handle, error) {
	next := timeline.CloneAll(s.objects)
	var err error
	switch in := in.(type) {
	case timeline.Move:
		err = s.move(next, in)
	case timeline.Duplicate:
		next, err = s.duplicate(next, in)
	case timeline.Resize:
		err = s.resize(next, in)
	case timeline.Delete:
		next, err = s.delete(next, in)
	case timeline.Create:
		next, err = s.create(next, in)
	case timeline.Split:
		next, err = s.split(next, in)
	case timeline.EditPrimitive:
		err = s.replace(next, in)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownIntent, in)
	}
	if err != nil {
		s.logger.Warn("intent failed", zap.String("intent", in.Name()), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", in.Name(), err)
	}
	s.undoStack = append(s.undoStack, s.objects)
	if len(s.undoStack) >= maxUndo {
		copy(s.undoStack, s.undoStack[len(s.undoStack)-maxUndo:])
		s.undoStack = s.undoStack[:maxUndo]
	}
	s.redoStack = s.redoStack[:0]
	s.objects = next
	s.log = append(s.log, in)
	s.logger.Debug("intent performed", zap.String("intent", in.Name()), zap.Int("undo", len(s.undoStack)))
	return editor.Handle(len(s.undoStack)), nil
}

func (s *Store) Undo() error {
	if len(s.undoStack) == 0 {
		return ErrNothingToUndo
	}
	s.redoStack = append(s.redoStack, s.objects)
	s.objects = s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	return nil
}

func (s *Store) Redo() error {
	if len(s.redoStack) == 0 {
		return ErrNothingToRedo
	}
	s.undoStack = append(s.undoStack, s.objects)
	s.objects = s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	return nil
}

// lookup finds the objects with the given IDs, checking that each of them
// passes check.
func lookup(objs []timeline.Object, ids []timeline.ObjectID, check func(timeline.Object) error) ([]timeline.Object, error) {
	if len(ids) == 0 {
		return nil, ErrNoObjectsGiven
	}
	var err error
	ret := make([]timeline.Object, 0, len(ids))
	for _, id := range ids {
		i := find(objs, id)
		if i < 0 {
			err = multierr.Append(err, fmt.Errorf("%w: %d", ErrNoSuchObject, id))
			continue
		}
		if e := check(objs[i]); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", timeline.Describe(objs[i]), e))
			continue
		}
		ret = append(ret, objs[i])
	}
	return ret, err
}

func movable(o timeline.Object) error {
	switch {
	case o.Base().Frozen:
		return ErrObjectFrozen
	case !timeline.CapabilitiesOf(o).Movable:
		return ErrNotMovable
	}
	return nil
}

func (s *Store) move(objs []timeline.Object, m timeline.Move) error {
	targets, err := lookup(objs, m.Objects, movable)
	if err != nil {
		return err
	}
	for _, o := range targets {
		timeline.ApplyMove(o, s.tempo, m)
		if o.Base().Track < 0 {
			err = multierr.Append(err, fmt.Errorf("%s: %w", timeline.Describe(o), ErrInvalidTrack))
		}
	}
	return err
}

func (s *Store) duplicate(objs []timeline.Object, d timeline.Duplicate) ([]timeline.Object, error) {
	targets, err := lookup(objs, d.Objects, func(o timeline.Object) error {
		if !timeline.CapabilitiesOf(o).Clonable {
			return ErrNotClonable
		}
		return movable(o)
	})
	if err != nil {
		return nil, err
	}
	id := s.nextID
	for _, o := range targets {
		c := timeline.Clone(o)
		c.Base().ID = id
		c.Base().Selected = false
		id++
		timeline.ApplyMove(c, s.tempo, d.Move)
		if c.Base().Track < 0 {
			return nil, fmt.Errorf("%s: %w", timeline.Describe(c), ErrInvalidTrack)
		}
		objs = append(objs, c)
	}
	s.nextID = id
	return objs, nil
}

func (s *Store) resize(objs []timeline.Object, r timeline.Resize) error {
	targets, err := lookup(objs, r.Objects, func(o timeline.Object) error {
		if !timeline.CapabilitiesOf(o).HasLength {
			return ErrNotResizable
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, o := range targets {
		timeline.ResizeObject(o, s.tempo, r.Edge, r.Variant, r.Ticks, s.minLength)
	}
	return nil
}

func (s *Store) delete(objs []timeline.Object, d timeline.Delete) ([]timeline.Object, error) {
	_, err := lookup(objs, timeline.IDs(d.Objects), func(o timeline.Object) error {
		if !timeline.CapabilitiesOf(o).Deletable {
			return ErrNotDeletable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ids := timeline.IDs(d.Objects)
	return slices.DeleteFunc(objs, func(o timeline.Object) bool {
		return slices.Contains(ids, o.Base().ID)
	}), nil
}

func (s *Store) create(objs []timeline.Object, c timeline.Create) ([]timeline.Object, error) {
	if len(c.Objects) == 0 {
		return nil, ErrNoObjectsGiven
	}
	var err error
	for _, o := range c.Objects {
		id := o.Base().ID
		if id == 0 || find(objs, id) >= 0 {
			err = multierr.Append(err, fmt.Errorf("%w: %d", ErrDuplicateID, id))
			continue
		}
		objs = append(objs, timeline.Clone(o))
		s.nextID = max(s.nextID, id+1)
	}
	return objs, err
}

func (s *Store) split(objs []timeline.Object, sp timeline.Split) ([]timeline.Object, error) {
	targets, err := lookup(objs, sp.Objects, func(timeline.Object) error { return nil })
	if err != nil {
		return nil, err
	}
	id := s.nextID
	for _, o := range targets {
		left, right, err := timeline.SplitObject(o, s.tempo, sp.At)
		if err != nil {
			return nil, err
		}
		right.Base().ID = id
		id++
		i := find(objs, o.Base().ID)
		objs[i] = left
		objs = slices.Insert(objs, i+1, right)
		if _, ok := o.(*timeline.Region); ok {
			for _, c := range objs {
				if c.Base().Region == left.Base().ID && c.Base().Start.Ticks >= sp.At.Ticks {
					c.Base().Region = right.Base().ID
				}
			}
		}
	}
	s.nextID = id
	return objs, nil
}

func (s *Store) replace(objs []timeline.Object, e timeline.EditPrimitive) error {
	if len(e.Before) != len(e.After) {
		return fmt.Errorf("%w: %d before, %d after", ErrMismatch, len(e.Before), len(e.After))
	}
	_, err := lookup(objs, timeline.IDs(e.After), func(timeline.Object) error { return nil })
	if err != nil {
		return err
	}
	for k, a := range e.After {
		if e.Before[k].Base().ID != a.Base().ID {
			err = multierr.Append(err, fmt.Errorf("%w: ids %d and %d", ErrMismatch, e.Before[k].Base().ID, a.Base().ID))
			continue
		}
		objs[find(objs, a.Base().ID)] = timeline.Clone(a)
	}
	return err
}
