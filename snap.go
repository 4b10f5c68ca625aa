package timeline

import (
	"errors"
	"math"
)

type (
	// SnapGrid configures where dragged positions gravitate to. KeepOffset only
	// has an effect together with SnapToGrid.
	SnapGrid struct {
		SnapToGrid   bool       `yaml:"snaptogrid"`
		KeepOffset   bool       `yaml:"keepoffset,omitempty"`
		SnapToEvents bool       `yaml:"snaptoevents,omitempty"`
		NoteLength   NoteLength `yaml:"notelength"`
		NoteType     NoteType   `yaml:"notetype,omitempty"`
	}

	// NoteLength is the base granularity of the snap grid.
	NoteLength int

	// NoteType modifies the NoteLength: dotted notes are 1.5 times as long,
	// triplets two thirds.
	NoteType int

	// Snapper finds snap points using the grid and, optionally, the edges of
	// objects in a container.
	Snapper struct {
		Tempo TempoContext
		Grid  SnapGrid
	}
)

const (
	NoteLengthBar NoteLength = iota
	NoteLengthBeat
	NoteLength2_1
	NoteLength1_1
	NoteLength1_2
	NoteLength1_4
	NoteLength1_8
	NoteLength1_16
	NoteLength1_32
	NoteLength1_64
	NoteLength1_128
)

const (
	NoteTypeNormal NoteType = iota
	NoteTypeDotted
	NoteTypeTriplet
)

var ErrSnapDisabled = errors.New("snap requested while no snap mode is enabled")

// AnySnap reports whether snapping would do anything at all.
func (g SnapGrid) AnySnap() bool {
	return g.SnapToGrid || g.SnapToEvents
}

// Ticks returns the length of one grid step in ticks.
func (g SnapGrid) Ticks(tc TempoContext) float64 {
	var ticks float64
	switch g.NoteLength {
	case NoteLengthBar:
		ticks = tc.TicksPerBar
	case NoteLengthBeat:
		ticks = tc.TicksPerBeat
	case NoteLength2_1:
		ticks = 8 * TicksPerQuarterNote
	case NoteLength1_1:
		ticks = 4 * TicksPerQuarterNote
	case NoteLength1_2:
		ticks = 2 * TicksPerQuarterNote
	case NoteLength1_4:
		ticks = TicksPerQuarterNote
	case NoteLength1_8:
		ticks = TicksPerQuarterNote / 2
	case NoteLength1_16:
		ticks = TicksPerQuarterNote / 4
	case NoteLength1_32:
		ticks = TicksPerQuarterNote / 8
	case NoteLength1_64:
		ticks = TicksPerQuarterNote / 16
	case NoteLength1_128:
		ticks = TicksPerQuarterNote / 32
	default:
		ticks = TicksPerQuarterNote / 4
	}
	switch g.NoteType {
	case NoteTypeDotted:
		ticks *= 1.5
	case NoteTypeTriplet:
		ticks = ticks * 2 / 3
	}
	return ticks
}

func (l NoteLength) String() string {
	switch l {
	case NoteLengthBar:
		return "bar"
	case NoteLengthBeat:
		return "beat"
	case NoteLength2_1:
		return "2/1"
	case NoteLength1_1:
		return "1/1"
	case NoteLength1_2:
		return "1/2"
	case NoteLength1_4:
		return "1/4"
	case NoteLength1_8:
		return "1/8"
	case NoteLength1_16:
		return "1/16"
	case NoteLength1_32:
		return "1/32"
	case NoteLength1_64:
		return "1/64"
	case NoteLength1_128:
		return "1/128"
	}
	return "?"
}

// Previous returns the latest snap point at or before pos. The second return
// value is false if no snap point was found, in which case pos itself is
// returned.
func (s Snapper) Previous(pos Position, c Container) (Position, bool) {
	best, found := 0.0, false
	if s.Grid.SnapToGrid {
		step := s.Grid.Ticks(s.Tempo)
		best, found = math.Floor(pos.Ticks/step)*step, true
	}
	if s.Grid.SnapToEvents && c != nil {
		for o := range c.Objects() {
			for _, edge := range snapEdges(o) {
				if edge.Ticks <= pos.Ticks && (!found || edge.Ticks > best) {
					best, found = edge.Ticks, true
				}
			}
		}
	}
	if !found {
		return pos, false
	}
	return s.Tempo.FromTicks(best), true
}

// Next returns the earliest snap point strictly after pos. Like Previous, it
// returns pos and false when nothing was found.
func (s Snapper) Next(pos Position, c Container) (Position, bool) {
	best, found := 0.0, false
	if s.Grid.SnapToGrid {
		step := s.Grid.Ticks(s.Tempo)
		best, found = math.Floor(pos.Ticks/step)*step+step, true
	}
	if s.Grid.SnapToEvents && c != nil {
		for o := range c.Objects() {
			for _, edge := range snapEdges(o) {
				if edge.Ticks > pos.Ticks && (!found || edge.Ticks < best) {
					best, found = edge.Ticks, true
				}
			}
		}
	}
	if !found {
		return pos, false
	}
	return s.Tempo.FromTicks(best), true
}

// Closest returns whichever of Previous and Next is nearer to pos; on a tie
// the previous point wins.
func (s Snapper) Closest(pos Position, c Container) (Position, bool) {
	prev, prevOk := s.Previous(pos, c)
	next, nextOk := s.Next(pos, c)
	switch {
	case prevOk && nextOk:
		if math.Abs(next.Ticks-pos.Ticks) < math.Abs(pos.Ticks-prev.Ticks) {
			return next, true
		}
		return prev, true
	case prevOk:
		return prev, true
	case nextOk:
		return next, true
	}
	return pos, false
}

// Snap snaps pos, which is being dragged and started at start. With KeepOffset,
// the distance of start from its previous grid line is preserved, so an object
// that was off the grid follows the grid at the same offset. Returns
// ErrSnapDisabled and pos unchanged if no snap mode is on. A non-negative pos
// never snaps to a negative position.
func (s Snapper) Snap(start, pos Position, c Container) (Position, error) {
	if !s.Grid.AnySnap() {
		return pos, ErrSnapDisabled
	}
	var ret Position
	if s.Grid.SnapToGrid && s.Grid.KeepOffset {
		grid := Snapper{Tempo: s.Tempo, Grid: SnapGrid{SnapToGrid: true, NoteLength: s.Grid.NoteLength, NoteType: s.Grid.NoteType}}
		startPrev, _ := grid.Previous(start, nil)
		offset := start.Ticks - startPrev.Ticks
		closest, _ := s.Closest(s.Tempo.FromTicks(pos.Ticks-offset), c)
		ret = s.Tempo.FromTicks(closest.Ticks + offset)
	} else {
		ret, _ = s.Closest(pos, c)
	}
	if pos.Ticks >= 0 && ret.Ticks < 0 {
		ret = Position{}
	}
	return ret, nil
}

// TicksDifference returns a.Ticks - b.Ticks. If snapped is true and the grid
// is on, the magnitude of the difference is snapped to the grid, keeping the
// sign, so that drags in either direction move in whole grid steps.
func (s Snapper) TicksDifference(a, b Position, snapped bool) float64 {
	diff := a.Ticks - b.Ticks
	if !snapped || !s.Grid.SnapToGrid {
		return diff
	}
	grid := Snapper{Tempo: s.Tempo, Grid: SnapGrid{SnapToGrid: true, NoteLength: s.Grid.NoteLength, NoteType: s.Grid.NoteType}}
	abs, _ := grid.Closest(s.Tempo.FromTicks(math.Abs(diff)), nil)
	return math.Copysign(abs.Ticks, diff)
}

func snapEdges(o Object) []Position {
	b := o.Base()
	if b.TemporarilyDeleted {
		return nil
	}
	if CapabilitiesOf(o).HasLength {
		return []Position{b.Start, b.End}
	}
	return []Position{b.Start}
}
