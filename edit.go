package timeline

import (
	"errors"
	"fmt"
	"math"
)

type (
	// ResizeEdge is the edge of an object being resized.
	ResizeEdge int

	// ResizeVariant tells what else happens when an edge moves: plain resize
	// keeps the content unlooped, loop resize repeats or clips the content,
	// fade moves the fade handle instead of the edge and stretch scales the
	// content to the new length.
	ResizeVariant int
)

const (
	EdgeLeft ResizeEdge = iota
	EdgeRight
)

const (
	ResizePlain ResizeVariant = iota
	ResizeLoop
	ResizeFade
	ResizeStretch
)

var ErrSplitOutside = errors.New("split position is not inside the object")

func (e ResizeEdge) String() string {
	if e == EdgeLeft {
		return "left"
	}
	return "right"
}

func (v ResizeVariant) String() string {
	switch v {
	case ResizeLoop:
		return "loop"
	case ResizeFade:
		return "fade"
	case ResizeStretch:
		return "stretch"
	}
	return "plain"
}

// MoveObject shifts o in time by ticks. Objects never move before zero; the
// shift actually applied is returned.
func MoveObject(o Object, tc TempoContext, ticks float64) float64 {
	b := o.Base()
	if b.Start.Ticks+ticks < 0 {
		ticks = -b.Start.Ticks
	}
	b.Start = tc.FromTicks(b.Start.Ticks + ticks)
	if CapabilitiesOf(o).HasLength {
		b.End = tc.FromTicks(b.End.Ticks + ticks)
	}
	return ticks
}

// ApplyMove applies the time and vertical shifts of m to o. Only regions
// change tracks and lanes; markers stay on their own rows.
func ApplyMove(o Object, tc TempoContext, m Move) {
	MoveObject(o, tc, m.Ticks)
	switch o := o.(type) {
	case *Region:
		o.Track += m.Tracks
		o.Lane = max(0, o.Lane+m.Lanes)
	case *MidiNote:
		SetPitch(o, int(o.Pitch)+m.Pitch)
	case *ChordObject:
		SetChordIndex(o, o.ChordIndex+m.Chords)
	case *AutomationPoint:
		SetValue(o, o.Value+m.Value)
	}
}

// ResizeObject moves one edge of o by ticks, keeping the object at least
// minLength ticks long and its start non-negative. Returns the change that was
// actually applied. Objects without length are left untouched.
func ResizeObject(o Object, tc TempoContext, edge ResizeEdge, variant ResizeVariant, ticks, minLength float64) float64 {
	if !CapabilitiesOf(o).HasLength {
		return 0
	}
	if variant == ResizeFade {
		return resizeFade(o, tc, edge, ticks)
	}
	b := o.Base()
	oldLen := b.End.Ticks - b.Start.Ticks
	wasLooped := IsLooped(o)
	if edge == EdgeRight {
		if newEnd := b.End.Ticks + ticks; newEnd-b.Start.Ticks < minLength {
			ticks = b.Start.Ticks + minLength - b.End.Ticks
		}
		b.End = tc.FromTicks(b.End.Ticks + ticks)
	} else {
		if b.Start.Ticks+ticks < 0 {
			ticks = -b.Start.Ticks
		}
		if b.End.Ticks-(b.Start.Ticks+ticks) < minLength {
			ticks = b.End.Ticks - minLength - b.Start.Ticks
		}
		b.Start = tc.FromTicks(b.Start.Ticks + ticks)
	}
	r, ok := o.(*Region)
	if !ok {
		return ticks
	}
	newLen := r.End.Ticks - r.Start.Ticks
	switch variant {
	case ResizePlain:
		if !wasLooped {
			r.LoopEnd = tc.FromTicks(newLen)
		}
	case ResizeLoop:
		if edge == EdgeLeft {
			r.ClipStart = tc.FromTicks(wrapIntoLoop(r, r.ClipStart.Ticks+ticks))
		}
	case ResizeStretch:
		if oldLen > 0 {
			ratio := newLen / oldLen
			r.ClipStart = tc.FromTicks(r.ClipStart.Ticks * ratio)
			r.LoopStart = tc.FromTicks(r.LoopStart.Ticks * ratio)
			r.LoopEnd = tc.FromTicks(r.LoopEnd.Ticks * ratio)
		}
	}
	clampFades(r, tc)
	return ticks
}

func resizeFade(o Object, tc TempoContext, edge ResizeEdge, ticks float64) float64 {
	r, ok := o.(*Region)
	if !ok {
		return 0
	}
	length := r.End.Ticks - r.Start.Ticks
	if edge == EdgeLeft {
		v := math.Max(0, math.Min(r.FadeIn.Ticks+ticks, length-r.FadeOut.Ticks))
		ticks = v - r.FadeIn.Ticks
		r.FadeIn = tc.FromTicks(v)
		return ticks
	}
	v := math.Max(0, math.Min(r.FadeOut.Ticks-ticks, length-r.FadeIn.Ticks))
	ticks = r.FadeOut.Ticks - v
	r.FadeOut = tc.FromTicks(v)
	return ticks
}

func clampFades(r *Region, tc TempoContext) {
	length := r.End.Ticks - r.Start.Ticks
	if r.FadeIn.Ticks > length {
		r.FadeIn = tc.FromTicks(length)
	}
	if r.FadeIn.Ticks+r.FadeOut.Ticks > length {
		r.FadeOut = tc.FromTicks(length - r.FadeIn.Ticks)
	}
}

func wrapIntoLoop(r *Region, ticks float64) float64 {
	loopLen := r.LoopEnd.Ticks - r.LoopStart.Ticks
	if loopLen <= 0 {
		return math.Max(0, ticks)
	}
	if ticks >= r.LoopStart.Ticks && ticks < r.LoopEnd.Ticks {
		return ticks
	}
	rel := math.Mod(ticks-r.LoopStart.Ticks, loopLen)
	if rel < 0 {
		rel += loopLen
	}
	return r.LoopStart.Ticks + rel
}

// Value returns the vertical value of o normalized to [0, 1], for objects
// that have one.
func Value(o Object) (float64, bool) {
	switch o := o.(type) {
	case *AutomationPoint:
		return o.Value, true
	case *Velocity:
		return float64(o.Value) / 127, true
	case *MidiNote:
		return float64(o.Velocity) / 127, true
	}
	return 0, false
}

// SetValue sets the normalized vertical value of o, clamped to [0, 1].
// Returns false if o has no value.
func SetValue(o Object, v float64) bool {
	v = math.Max(0, math.Min(1, v))
	switch o := o.(type) {
	case *AutomationPoint:
		o.Value = v
	case *Velocity:
		o.Value = uint8(math.Round(v * 127))
	case *MidiNote:
		o.Velocity = uint8(math.Round(v * 127))
	default:
		return false
	}
	return true
}

// SetPitch sets the pitch of a note, clamped to the MIDI range.
func SetPitch(o Object, pitch int) bool {
	n, ok := o.(*MidiNote)
	if !ok {
		return false
	}
	n.Pitch = uint8(max(0, min(127, pitch)))
	return true
}

func SetChordIndex(o Object, index int) bool {
	c, ok := o.(*ChordObject)
	if !ok {
		return false
	}
	c.ChordIndex = max(0, index)
	return true
}

// SetFadeCurve sets the curviness of the fade in (or out) of an audio region.
func SetFadeCurve(o Object, fadeIn bool, curve float64) bool {
	r, ok := o.(*Region)
	if !ok || !CapabilitiesOf(o).CanFade {
		return false
	}
	curve = math.Max(-0.99, math.Min(0.99, curve))
	if fadeIn {
		r.FadeInCurve = curve
	} else {
		r.FadeOutCurve = curve
	}
	return true
}

// SplitObject cuts o in two at position at. The left part keeps the ID of o;
// the right part has ID 0 and should be given a fresh ID by the store.
func SplitObject(o Object, tc TempoContext, at Position) (left, right Object, err error) {
	if !CapabilitiesOf(o).HasLength {
		return nil, nil, fmt.Errorf("%w: %s has no length", ErrSplitOutside, Describe(o))
	}
	b := o.Base()
	if at.Ticks <= b.Start.Ticks || at.Ticks >= b.End.Ticks {
		return nil, nil, fmt.Errorf("%w: %v not in (%v, %v)", ErrSplitOutside, at.Ticks, b.Start.Ticks, b.End.Ticks)
	}
	left, right = Clone(o), Clone(o)
	left.Base().End = at
	right.Base().Start = at
	right.Base().ID = 0
	right.Base().Selected = false
	lr, ok := left.(*Region)
	if !ok {
		return left, right, nil
	}
	rr := right.(*Region)
	offset := at.Ticks - b.Start.Ticks
	if !IsLooped(o) {
		lr.LoopEnd = tc.FromTicks(offset)
	}
	// the right half continues playing where the left one stops
	rr.ClipStart = tc.FromTicks(wrapIntoLoop(rr, rr.ClipStart.Ticks+offset))
	lr.FadeOut, rr.FadeIn = Position{}, Position{}
	clampFades(lr, tc)
	clampFades(rr, tc)
	return left, right, nil
}
