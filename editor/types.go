package editor

import (
	"math"

	"github.com/vsariola/timeline"
)

type (
	// View is the kind of editor a session drives. Each view only shows and
	// selects certain object variants.
	View int

	Tool int

	Modifiers uint8

	Button int

	Key int

	// Point is in pixels. Points in events are relative to the top left
	// corner of the editor widget; the session converts them to content
	// coordinates by adding the scroll offsets of the viewport.
	Point struct {
		X, Y float64
	}

	Rect struct {
		TopLeft, BottomRight Point
	}

	Press struct {
		Point
		Button    Button
		Modifiers Modifiers
		// Clicks is 2 for a double click.
		Clicks int
	}

	Motion struct {
		Point
		Modifiers Modifiers
	}

	Release struct {
		Point
		Modifiers Modifiers
	}

	KeyEvent struct {
		Key       Key
		Modifiers Modifiers
	}
)

const (
	TimelineView View = iota
	MidiView
	AutomationView
	ChordView
	VelocityView
)

const (
	SelectTool Tool = iota
	StretchTool
	EditTool
	CutTool
	EraserTool
	RampTool
	AuditionTool
)

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

const (
	PrimaryButton Button = iota
	SecondaryButton
	MiddleButton
)

const (
	KeyEscape Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyDelete
	KeyA
	KeyC
)

// Accepts reports whether objects like o are shown and edited in the view.
func (v View) Accepts(o timeline.Object) bool {
	switch o.(type) {
	case *timeline.Region, *timeline.Marker, *timeline.ScaleMarker:
		return v == TimelineView
	case *timeline.MidiNote:
		return v == MidiView
	case *timeline.AutomationPoint:
		return v == AutomationView
	case *timeline.ChordObject:
		return v == ChordView
	case *timeline.Velocity:
		return v == VelocityView
	}
	return false
}

func (v View) String() string {
	switch v {
	case TimelineView:
		return "timeline"
	case MidiView:
		return "piano roll"
	case AutomationView:
		return "automation editor"
	case ChordView:
		return "chord editor"
	case VelocityView:
		return "velocity editor"
	}
	return "unknown view"
}

func (t Tool) String() string {
	switch t {
	case SelectTool:
		return "select"
	case StretchTool:
		return "stretch"
	case EditTool:
		return "edit"
	case CutTool:
		return "cut"
	case EraserTool:
		return "eraser"
	case RampTool:
		return "ramp"
	case AuditionTool:
		return "audition"
	}
	return "unknown tool"
}

// Contain reports whether all of the modifiers in x are held.
func (m Modifiers) Contain(x Modifiers) bool {
	return m&x == x
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// RectFrom returns the rectangle spanned by two corners in any order.
func RectFrom(a, b Point) Rect {
	return Rect{
		TopLeft:     Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		BottomRight: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

func (r Rect) Width() float64  { return r.BottomRight.X - r.TopLeft.X }
func (r Rect) Height() float64 { return r.BottomRight.Y - r.TopLeft.Y }

// Contains reports whether p is inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.TopLeft.X && p.X <= r.BottomRight.X &&
		p.Y >= r.TopLeft.Y && p.Y <= r.BottomRight.Y
}

// Intersects reports whether the rectangles overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	return r.TopLeft.X <= o.BottomRight.X && o.TopLeft.X <= r.BottomRight.X &&
		r.TopLeft.Y <= o.BottomRight.Y && o.TopLeft.Y <= r.BottomRight.Y
}
