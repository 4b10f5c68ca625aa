package timeline

import (
	"errors"
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2"
)

type (
	// ObjectID identifies an object in its store. IDs are never reused within
	// one store.
	ObjectID int

	// Object is an editable object on a timeline. It is a closed sum type: the
	// only implementations are the pointer types *Region, *MidiNote,
	// *AutomationPoint, *Marker, *ScaleMarker, *ChordObject and *Velocity.
	// Code dispatching on the variant uses a type switch over exactly these.
	Object interface {
		Base() *ObjectBase
		sealed()
	}

	// ObjectBase holds the attributes common to all objects. End is only
	// meaningful for objects that have length (see Capabilities.HasLength).
	ObjectBase struct {
		ID                 ObjectID `yaml:"id"`
		Track              int      `yaml:"track,omitempty"`
		Lane               int      `yaml:"lane,omitempty"`
		Region             ObjectID `yaml:"region,omitempty"` // owning region, for objects inside regions
		Start              Position `yaml:"start"`
		End                Position `yaml:"end,omitempty"`
		Selected           bool     `yaml:"selected,omitempty"`
		Frozen             bool     `yaml:"frozen,omitempty"`
		TemporarilyDeleted bool     `yaml:"-"`
	}

	// RegionKind tells what the region contains.
	RegionKind int

	// Region is a container of notes, audio, automation or chords on the
	// timeline. Loop and clip positions are in content time, relative to the
	// start of the region. FadeIn is measured forwards from the start and
	// FadeOut backwards from the end, zero meaning no fade.
	Region struct {
		ObjectBase   `yaml:",inline"`
		Kind         RegionKind `yaml:"kind"`
		Name         string     `yaml:"name,omitempty"`
		ClipStart    Position   `yaml:"clipstart,omitempty"`
		LoopStart    Position   `yaml:"loopstart,omitempty"`
		LoopEnd      Position   `yaml:"loopend"`
		FadeIn       Position   `yaml:"fadein,omitempty"`
		FadeOut      Position   `yaml:"fadeout,omitempty"`
		FadeInCurve  float64    `yaml:"fadeincurve,omitempty"`
		FadeOutCurve float64    `yaml:"fadeoutcurve,omitempty"`
		Muted        bool       `yaml:"muted,omitempty"`
	}

	MidiNote struct {
		ObjectBase `yaml:",inline"`
		Pitch      uint8 `yaml:"pitch"`
		Velocity   uint8 `yaml:"velocity"`
	}

	// AutomationPoint is a point on an automation curve. Value is normalized
	// to [0, 1]; Curviness in (-1, 1) bends the curve towards the next point.
	AutomationPoint struct {
		ObjectBase `yaml:",inline"`
		Value      float64 `yaml:"value"`
		Curviness  float64 `yaml:"curviness,omitempty"`
	}

	MarkerKind int

	Marker struct {
		ObjectBase `yaml:",inline"`
		Kind       MarkerKind `yaml:"kind,omitempty"`
		Name       string     `yaml:"name,omitempty"`
	}

	ScaleMarker struct {
		ObjectBase `yaml:",inline"`
		Root       uint8  `yaml:"root"`
		Scale      string `yaml:"scale"`
	}

	ChordObject struct {
		ObjectBase `yaml:",inline"`
		ChordIndex int `yaml:"chord"`
	}

	// Velocity is the velocity handle of a note in the velocity editor. It sits
	// at the start of its note and can only be changed vertically.
	Velocity struct {
		ObjectBase `yaml:",inline"`
		Note       ObjectID `yaml:"note"`
		Value      uint8    `yaml:"value"`
	}

	// Capabilities gate what the edit session may do with an object.
	Capabilities struct {
		HasLength   bool
		CanLoop     bool
		CanFade     bool
		CanResizeUp bool
		Clonable    bool
		Deletable   bool
		Movable     bool
	}
)

const (
	MidiRegion RegionKind = iota
	AudioRegion
	AutomationRegion
	ChordRegion
)

const (
	CustomMarker MarkerKind = iota
	StartMarker
	EndMarker
)

var ErrUnknownObject = errors.New("unknown object type")

func (b *ObjectBase) Base() *ObjectBase { return b }

func (*Region) sealed()          {}
func (*MidiNote) sealed()        {}
func (*AutomationPoint) sealed() {}
func (*Marker) sealed()          {}
func (*ScaleMarker) sealed()     {}
func (*ChordObject) sealed()     {}
func (*Velocity) sealed()        {}

// CapabilitiesOf returns what can be done to o.
func CapabilitiesOf(o Object) Capabilities {
	switch o := o.(type) {
	case *Region:
		return Capabilities{HasLength: true, CanLoop: true, CanFade: o.Kind == AudioRegion, Clonable: true, Deletable: true, Movable: true}
	case *MidiNote:
		return Capabilities{HasLength: true, Clonable: true, Deletable: true, Movable: true}
	case *AutomationPoint:
		return Capabilities{CanResizeUp: true, Clonable: true, Deletable: true, Movable: true}
	case *Marker:
		custom := o.Kind == CustomMarker
		return Capabilities{Clonable: custom, Deletable: custom, Movable: true}
	case *ScaleMarker:
		return Capabilities{Clonable: true, Deletable: true, Movable: true}
	case *ChordObject:
		return Capabilities{Clonable: true, Deletable: true, Movable: true}
	case *Velocity:
		return Capabilities{CanResizeUp: true}
	}
	panic(fmt.Errorf("%w: %T", ErrUnknownObject, o))
}

// Clone returns a deep copy of o.
func Clone(o Object) Object {
	switch o := o.(type) {
	case *Region:
		c := *o
		return &c
	case *MidiNote:
		c := *o
		return &c
	case *AutomationPoint:
		c := *o
		return &c
	case *Marker:
		c := *o
		return &c
	case *ScaleMarker:
		c := *o
		return &c
	case *ChordObject:
		c := *o
		return &c
	case *Velocity:
		c := *o
		return &c
	}
	panic(fmt.Errorf("%w: %T", ErrUnknownObject, o))
}

// Equal reports whether a and b are the same variant with equal fields.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Region:
		b, ok := b.(*Region)
		return ok && *a == *b
	case *MidiNote:
		b, ok := b.(*MidiNote)
		return ok && *a == *b
	case *AutomationPoint:
		b, ok := b.(*AutomationPoint)
		return ok && *a == *b
	case *Marker:
		b, ok := b.(*Marker)
		return ok && *a == *b
	case *ScaleMarker:
		b, ok := b.(*ScaleMarker)
		return ok && *a == *b
	case *ChordObject:
		b, ok := b.(*ChordObject)
		return ok && *a == *b
	case *Velocity:
		b, ok := b.(*Velocity)
		return ok && *a == *b
	}
	return false
}

// CloneAll clones every object of objs.
func CloneAll(objs []Object) []Object {
	ret := make([]Object, len(objs))
	for i, o := range objs {
		ret[i] = Clone(o)
	}
	return ret
}

// Bounds returns the time span of o. For objects without length, end equals
// start.
func Bounds(o Object) (start, end Position) {
	b := o.Base()
	if CapabilitiesOf(o).HasLength {
		return b.Start, b.End
	}
	return b.Start, b.Start
}

// Length returns the length of o in ticks, zero for point-like objects.
func Length(o Object) float64 {
	s, e := Bounds(o)
	return e.Ticks - s.Ticks
}

// IsLooped reports whether the content of a region repeats or is clipped,
// i.e. the loop does not span exactly the region.
func IsLooped(o Object) bool {
	r, ok := o.(*Region)
	if !ok {
		return false
	}
	return r.ClipStart.Ticks > 0 || r.LoopStart.Ticks > 0 || math.Abs(r.LoopEnd.Ticks-(r.End.Ticks-r.Start.Ticks)) > 1e-6
}

// Describe returns a short human readable label, used in logs and messages.
func Describe(o Object) string {
	switch o := o.(type) {
	case *Region:
		if o.Name != "" {
			return fmt.Sprintf("region %q", o.Name)
		}
		return fmt.Sprintf("region #%d", o.ID)
	case *MidiNote:
		return fmt.Sprintf("note %s", midi.Note(o.Pitch).String())
	case *AutomationPoint:
		return fmt.Sprintf("automation point %.3f", o.Value)
	case *Marker:
		return fmt.Sprintf("marker %q", o.Name)
	case *ScaleMarker:
		return fmt.Sprintf("scale %s %s", midi.Note(o.Root).Name(), o.Scale)
	case *ChordObject:
		return fmt.Sprintf("chord %d", o.ChordIndex)
	case *Velocity:
		return fmt.Sprintf("velocity %d", o.Value)
	}
	panic(fmt.Errorf("%w: %T", ErrUnknownObject, o))
}

// IDs returns the IDs of objs, in order.
func IDs(objs []Object) []ObjectID {
	ret := make([]ObjectID, len(objs))
	for i, o := range objs {
		ret[i] = o.Base().ID
	}
	return ret
}
