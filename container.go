package timeline

import "iter"

type (
	// Container is anything holding objects: a track, a lane, a region or the
	// visible part of an editor. Objects are yielded in drawing order, later
	// ones being drawn on top.
	Container interface {
		Objects() iter.Seq[Object]
	}

	// ObjectList is the simplest Container.
	ObjectList []Object

	// ContainerKind tells how a ContainerRef picks objects from a store.
	ContainerKind int

	// ContainerRef names a container in a store without holding on to it.
	ContainerRef struct {
		Kind   ContainerKind
		Track  int
		Lane   int
		Region ObjectID
	}

	filtered struct {
		c    Container
		keep func(Object) bool
	}
)

const (
	// AllObjects refers to every object of the store that is not inside a
	// region: regions, markers and scale markers on the timeline.
	AllObjects ContainerKind = iota
	TrackContainer
	LaneContainer
	RegionContainer
)

func (l ObjectList) Objects() iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for _, o := range l {
			if !yield(o) {
				return
			}
		}
	}
}

// Filter returns a Container yielding only the objects of c for which keep
// returns true.
func Filter(c Container, keep func(Object) bool) Container {
	return filtered{c: c, keep: keep}
}

func (f filtered) Objects() iter.Seq[Object] {
	return func(yield func(Object) bool) {
		if f.c == nil {
			return
		}
		for o := range f.c.Objects() {
			if f.keep(o) && !yield(o) {
				return
			}
		}
	}
}

// Contains reports whether o belongs to the container referred by r.
func (r ContainerRef) Contains(o Object) bool {
	b := o.Base()
	switch r.Kind {
	case TrackContainer:
		return b.Region == 0 && b.Track == r.Track
	case LaneContainer:
		return b.Region == 0 && b.Track == r.Track && b.Lane == r.Lane
	case RegionContainer:
		return b.Region == r.Region
	}
	return b.Region == 0
}
