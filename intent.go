package timeline

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	// Intent is a committed edit, handed by an edit session to an executor at
	// the end of a gesture. Like Object, it is a closed sum type.
	Intent interface {
		Name() string
		intent()
	}

	// Move shifts objects in time and vertically. Depending on the editor,
	// the vertical shift is in tracks and lanes, pitch, chord index or
	// normalized automation value.
	Move struct {
		Objects []ObjectID `yaml:"objects,flow"`
		Ticks   float64    `yaml:"ticks"`
		Tracks  int        `yaml:"tracks,omitempty"`
		Lanes   int        `yaml:"lanes,omitempty"`
		Pitch   int        `yaml:"pitch,omitempty"`
		Chords  int        `yaml:"chords,omitempty"`
		Value   float64    `yaml:"value,omitempty"`
	}

	Resize struct {
		Objects []ObjectID    `yaml:"objects,flow"`
		Edge    ResizeEdge    `yaml:"edge"`
		Variant ResizeVariant `yaml:"variant"`
		Ticks   float64       `yaml:"ticks"`
	}

	// Duplicate copies the objects and moves the copies. Linked copies share
	// their content with the originals.
	Duplicate struct {
		Move `yaml:",inline"`
		Link bool `yaml:"link,omitempty"`
	}

	// Delete and Create carry full clones, so that the executor can undo them
	// without asking the store.
	Delete struct {
		Objects []Object `yaml:"-"`
	}

	Create struct {
		Objects []Object `yaml:"-"`
	}

	Split struct {
		Objects []ObjectID `yaml:"objects,flow"`
		At      Position   `yaml:"at"`
	}

	// EditPrimitive replaces the objects with the given IDs by the After
	// clones. Before and After are parallel slices.
	EditPrimitive struct {
		Before []Object `yaml:"-"`
		After  []Object `yaml:"-"`
	}

	// ObjectDoc is the tagged YAML representation of an Object; exactly one of
	// the fields is set.
	ObjectDoc struct {
		Region          *Region          `yaml:"region,omitempty"`
		Note            *MidiNote        `yaml:"note,omitempty"`
		AutomationPoint *AutomationPoint `yaml:"automationpoint,omitempty"`
		Marker          *Marker          `yaml:"marker,omitempty"`
		ScaleMarker     *ScaleMarker     `yaml:"scalemarker,omitempty"`
		Chord           *ChordObject     `yaml:"chord,omitempty"`
		Velocity        *Velocity        `yaml:"velocity,omitempty"`
	}

	// IntentDoc is the tagged YAML representation of an Intent.
	IntentDoc struct {
		Move          *Move         `yaml:"move,omitempty"`
		Resize        *Resize       `yaml:"resize,omitempty"`
		Duplicate     *Duplicate    `yaml:"duplicate,omitempty"`
		Delete        []ObjectDoc   `yaml:"delete,omitempty"`
		Create        []ObjectDoc   `yaml:"create,omitempty"`
		Split         *Split        `yaml:"split,omitempty"`
		EditPrimitive *primitiveDoc `yaml:"editprimitive,omitempty"`
	}

	primitiveDoc struct {
		Before []ObjectDoc `yaml:"before"`
		After  []ObjectDoc `yaml:"after"`
	}
)

var ErrEmptyDoc = errors.New("document does not describe anything")

func (Move) Name() string          { return "move" }
func (Resize) Name() string        { return "resize" }
func (Duplicate) Name() string     { return "duplicate" }
func (Delete) Name() string        { return "delete" }
func (Create) Name() string        { return "create" }
func (Split) Name() string         { return "split" }
func (EditPrimitive) Name() string { return "edit" }

func (Move) intent()          {}
func (Resize) intent()        {}
func (Duplicate) intent()     {}
func (Delete) intent()        {}
func (Create) intent()        {}
func (Split) intent()         {}
func (EditPrimitive) intent() {}

// IsZero reports whether the move would not change anything.
func (m Move) IsZero() bool {
	return m.Ticks == 0 && m.Tracks == 0 && m.Lanes == 0 && m.Pitch == 0 && m.Chords == 0 && m.Value == 0
}

func DocOf(o Object) ObjectDoc {
	switch o := Clone(o).(type) {
	case *Region:
		return ObjectDoc{Region: o}
	case *MidiNote:
		return ObjectDoc{Note: o}
	case *AutomationPoint:
		return ObjectDoc{AutomationPoint: o}
	case *Marker:
		return ObjectDoc{Marker: o}
	case *ScaleMarker:
		return ObjectDoc{ScaleMarker: o}
	case *ChordObject:
		return ObjectDoc{Chord: o}
	case *Velocity:
		return ObjectDoc{Velocity: o}
	}
	panic(fmt.Errorf("%w: %T", ErrUnknownObject, o))
}

// Object returns the object described by the document. Frames of all
// positions are recomputed from ticks using tc, so documents only need ticks.
func (d ObjectDoc) Object(tc TempoContext) (Object, error) {
	var o Object
	switch {
	case d.Region != nil:
		r := *d.Region
		for _, p := range []*Position{&r.ClipStart, &r.LoopStart, &r.LoopEnd, &r.FadeIn, &r.FadeOut} {
			tc.Refresh(p)
		}
		if r.LoopEnd.Ticks == 0 {
			r.LoopEnd = tc.FromTicks(r.End.Ticks - r.Start.Ticks)
		}
		o = &r
	case d.Note != nil:
		n := *d.Note
		o = &n
	case d.AutomationPoint != nil:
		a := *d.AutomationPoint
		o = &a
	case d.Marker != nil:
		m := *d.Marker
		o = &m
	case d.ScaleMarker != nil:
		s := *d.ScaleMarker
		o = &s
	case d.Chord != nil:
		c := *d.Chord
		o = &c
	case d.Velocity != nil:
		v := *d.Velocity
		o = &v
	default:
		return nil, fmt.Errorf("object: %w", ErrEmptyDoc)
	}
	b := o.Base()
	tc.Refresh(&b.Start)
	if CapabilitiesOf(o).HasLength {
		tc.Refresh(&b.End)
	} else {
		b.End = Position{}
	}
	return o, nil
}

func docsOf(objs []Object) []ObjectDoc {
	ret := make([]ObjectDoc, len(objs))
	for i, o := range objs {
		ret[i] = DocOf(o)
	}
	return ret
}

func objectsOf(tc TempoContext, docs []ObjectDoc) ([]Object, error) {
	ret := make([]Object, len(docs))
	for i, d := range docs {
		o, err := d.Object(tc)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		ret[i] = o
	}
	return ret, nil
}

func IntentDocOf(i Intent) IntentDoc {
	switch i := i.(type) {
	case Move:
		return IntentDoc{Move: &i}
	case Resize:
		return IntentDoc{Resize: &i}
	case Duplicate:
		return IntentDoc{Duplicate: &i}
	case Delete:
		return IntentDoc{Delete: docsOf(i.Objects)}
	case Create:
		return IntentDoc{Create: docsOf(i.Objects)}
	case Split:
		return IntentDoc{Split: &i}
	case EditPrimitive:
		return IntentDoc{EditPrimitive: &primitiveDoc{Before: docsOf(i.Before), After: docsOf(i.After)}}
	}
	panic(fmt.Errorf("unknown intent type %T", i))
}

func (d IntentDoc) Intent(tc TempoContext) (Intent, error) {
	switch {
	case d.Move != nil:
		return *d.Move, nil
	case d.Resize != nil:
		return *d.Resize, nil
	case d.Duplicate != nil:
		return *d.Duplicate, nil
	case d.Delete != nil:
		objs, err := objectsOf(tc, d.Delete)
		return Delete{Objects: objs}, err
	case d.Create != nil:
		objs, err := objectsOf(tc, d.Create)
		return Create{Objects: objs}, err
	case d.Split != nil:
		s := *d.Split
		tc.Refresh(&s.At)
		return s, nil
	case d.EditPrimitive != nil:
		before, err := objectsOf(tc, d.EditPrimitive.Before)
		if err != nil {
			return nil, err
		}
		after, err := objectsOf(tc, d.EditPrimitive.After)
		return EditPrimitive{Before: before, After: after}, err
	}
	return nil, fmt.Errorf("intent: %w", ErrEmptyDoc)
}

// MarshalObjects encodes objects as a YAML list of ObjectDocs, e.g. for the
// clipboard.
func MarshalObjects(objs []Object) ([]byte, error) {
	return yaml.Marshal(docsOf(objs))
}

// UnmarshalObjects is the inverse of MarshalObjects.
func UnmarshalObjects(tc TempoContext, data []byte) ([]Object, error) {
	var docs []ObjectDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal failed: %w", err)
	}
	return objectsOf(tc, docs)
}

// MarshalIntents encodes a log of intents as YAML.
func MarshalIntents(intents []Intent) ([]byte, error) {
	docs := make([]IntentDoc, len(intents))
	for i, in := range intents {
		docs[i] = IntentDocOf(in)
	}
	return yaml.Marshal(docs)
}
