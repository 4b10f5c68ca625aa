package editor

import (
	"math"

	"github.com/vsariola/timeline"
)

type (
	// Viewport describes the layout of an editor: how ticks map to pixels,
	// how far it is scrolled and what the rows are. The session changes the
	// scroll offsets when panning and auto-scrolling.
	Viewport struct {
		PixelsPerTick float64
		ScrollX       float64
		ScrollY       float64
		Width         float64
		Height        float64
		// RowHeight is the height of a track row in the timeline, a key in
		// the piano roll and a chord in the chord editor.
		RowHeight float64
		// Rows lists the rows of the timeline from top to bottom. The other
		// views have fixed rows.
		Rows []Row
		// LaneHeight is the height of the automation and velocity lanes,
		// corresponding to values from 1 at the top to 0 at the bottom.
		LaneHeight float64
		// PointSize is the size of the handles of automation points and
		// velocities, and the width of markers and chords.
		PointSize float64
	}

	Row struct {
		Kind  RowKind
		Track int
		Lane  int
	}

	RowKind int
)

const (
	TrackRow RowKind = iota
	MarkerRow
	ScaleRow
)

// ContentPoint converts a point relative to the widget into content
// coordinates.
func (v *Viewport) ContentPoint(p Point) Point {
	return Point{p.X + v.ScrollX, p.Y + v.ScrollY}
}

// ContentRect is the visible part of the content.
func (v *Viewport) ContentRect() Rect {
	return Rect{
		TopLeft:     Point{v.ScrollX, v.ScrollY},
		BottomRight: Point{v.ScrollX + v.Width, v.ScrollY + v.Height},
	}
}

// TicksAt converts a content x coordinate to ticks.
func (v *Viewport) TicksAt(x float64) float64 {
	return x / v.PixelsPerTick
}

// XAt converts ticks to a content x coordinate.
func (v *Viewport) XAt(ticks float64) float64 {
	return ticks * v.PixelsPerTick
}

// VisibleTicks returns the range of ticks currently in view.
func (v *Viewport) VisibleTicks() (start, end float64) {
	return v.TicksAt(v.ScrollX), v.TicksAt(v.ScrollX + v.Width)
}

// RowAt returns the index of the row at content y. The index may be out of
// range of Rows.
func (v *Viewport) RowAt(y float64) int {
	if v.RowHeight <= 0 {
		return 0
	}
	return int(math.Floor(y / v.RowHeight))
}

// Row returns the timeline row with index i.
func (v *Viewport) Row(i int) (Row, bool) {
	if i < 0 || i >= len(v.Rows) {
		return Row{}, false
	}
	return v.Rows[i], true
}

// ValueAt converts a content y coordinate in a lane to a normalized value.
func (v *Viewport) ValueAt(y float64) float64 {
	if v.LaneHeight <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, 1-y/v.LaneHeight))
}

func (v *Viewport) rowOf(o timeline.Object) (int, bool) {
	b := o.Base()
	var kind RowKind
	switch o.(type) {
	case *timeline.Region:
		kind = TrackRow
	case *timeline.Marker:
		kind = MarkerRow
	case *timeline.ScaleMarker:
		kind = ScaleRow
	default:
		return 0, false
	}
	for i, r := range v.Rows {
		if r.Kind == kind && r.Track == b.Track && (kind != TrackRow || r.Lane == b.Lane) {
			return i, true
		}
	}
	return 0, false
}

// Rect returns the rectangle of o in content coordinates, as drawn in view.
// The second return value is false if the view does not show o.
func (v *Viewport) Rect(view View, o timeline.Object) (Rect, bool) {
	if !view.Accepts(o) {
		return Rect{}, false
	}
	b := o.Base()
	x0 := v.XAt(b.Start.Ticks)
	row := func(i int) Rect {
		y := float64(i) * v.RowHeight
		x1 := v.XAt(b.End.Ticks)
		if !timeline.CapabilitiesOf(o).HasLength {
			x1 = x0 + v.PointSize
		}
		return Rect{Point{x0, y}, Point{x1, y + v.RowHeight}}
	}
	half := v.PointSize / 2
	switch o := o.(type) {
	case *timeline.Region, *timeline.Marker, *timeline.ScaleMarker:
		i, ok := v.rowOf(o)
		if !ok {
			return Rect{}, false
		}
		return row(i), true
	case *timeline.MidiNote:
		return row(127 - int(o.Pitch)), true
	case *timeline.ChordObject:
		return row(o.ChordIndex), true
	case *timeline.AutomationPoint:
		y := (1 - o.Value) * v.LaneHeight
		return Rect{Point{x0 - half, y - half}, Point{x0 + half, y + half}}, true
	case *timeline.Velocity:
		value, _ := timeline.Value(o)
		y := (1 - value) * v.LaneHeight
		return Rect{Point{x0 - half, y}, Point{x0 + half, v.LaneHeight}}, true
	}
	return Rect{}, false
}
