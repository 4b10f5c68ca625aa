package timeline

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Position is a point in time with two redundant representations: ticks
// (musical time, fractional) and frames (audio samples). The two are kept
// consistent through a TempoContext; all constructors and mutators take one.
//
// Positions are plain values and should be copied, not shared, whenever an
// independent snapshot is needed.
type Position struct {
	Ticks  float64 `yaml:"ticks"`
	Frames int64   `yaml:"frames,omitempty"`
}

var (
	ErrInvalidPositionString = errors.New("invalid position string")
	ErrPositionOverflow      = errors.New("position does not fit in frames")
)

const maxFrames = float64(math.MaxInt64)

// FromTicksChecked returns a Position at given ticks, or ErrPositionOverflow if
// the corresponding frame count cannot be represented.
func (tc TempoContext) FromTicksChecked(ticks float64) (Position, error) {
	if math.IsNaN(ticks) {
		return Position{}, fmt.Errorf("%w: NaN ticks", ErrPositionOverflow)
	}
	f := math.Round(ticks * tc.FramesPerTick)
	if f >= maxFrames || f <= -maxFrames {
		return Position{}, fmt.Errorf("%w: %v ticks", ErrPositionOverflow, ticks)
	}
	return Position{Ticks: ticks, Frames: int64(f)}, nil
}

// FromTicks returns a Position at given ticks. Frames are rounded half away
// from zero, so the sign of frames always agrees with the sign of ticks. Panics
// if the frame count would overflow; use FromTicksChecked for untrusted input.
func (tc TempoContext) FromTicks(ticks float64) Position {
	p, err := tc.FromTicksChecked(ticks)
	if err != nil {
		panic(err)
	}
	return p
}

func (tc TempoContext) FromFrames(frames int64) Position {
	return Position{Ticks: float64(frames) * tc.TicksPerFrame, Frames: frames}
}

// FromSecondsChecked is FromSeconds returning ErrPositionOverflow instead of
// panicking.
func (tc TempoContext) FromSecondsChecked(seconds float64) (Position, error) {
	frames, err := tc.framesOf(seconds)
	if err != nil {
		return Position{}, err
	}
	return tc.FromFrames(frames), nil
}

func (tc TempoContext) FromSeconds(seconds float64) Position {
	p, err := tc.FromSecondsChecked(seconds)
	if err != nil {
		panic(err)
	}
	return p
}

func (tc TempoContext) framesOf(seconds float64) (int64, error) {
	f := math.Round(seconds * tc.SampleRate)
	if math.IsNaN(f) || f >= maxFrames || f <= -maxFrames {
		return 0, fmt.Errorf("%w: %v seconds", ErrPositionOverflow, seconds)
	}
	return int64(f), nil
}

func (tc TempoContext) FromMilliseconds(ms float64) Position {
	return tc.FromSeconds(ms / 1000)
}

// FromBar returns the position at the start of bar. Bars are numbered from 1,
// so FromBar(1) is tick 0. Negative bars count backwards from -1.
func (tc TempoContext) FromBar(bar int) Position {
	if bar > 0 {
		bar--
	}
	return tc.FromTicks(float64(bar) * tc.TicksPerBar)
}

func (tc TempoContext) Milliseconds(p Position) float64 {
	return float64(p.Frames) * 1000 / tc.SampleRate
}

// Refresh recomputes the frames of p from its ticks, e.g. after decoding a
// position that only had ticks or after a tempo change.
func (tc TempoContext) Refresh(p *Position) {
	*p = tc.FromTicks(p.Ticks)
}

func (p *Position) AddTicks(tc TempoContext, ticks float64) {
	*p = tc.FromTicks(p.Ticks + ticks)
}

// AddFramesChecked adds frames to p, leaving p unchanged and returning
// ErrPositionOverflow if the sum does not fit.
func (p *Position) AddFramesChecked(tc TempoContext, frames int64) error {
	if (frames > 0 && p.Frames > math.MaxInt64-frames) || (frames < 0 && p.Frames < math.MinInt64-frames) {
		return fmt.Errorf("%w: %d + %d frames", ErrPositionOverflow, p.Frames, frames)
	}
	*p = tc.FromFrames(p.Frames + frames)
	return nil
}

func (p *Position) AddFrames(tc TempoContext, frames int64) {
	if err := p.AddFramesChecked(tc, frames); err != nil {
		panic(err)
	}
}

func (p *Position) AddSeconds(tc TempoContext, seconds float64) {
	frames, err := tc.framesOf(seconds)
	if err != nil {
		panic(err)
	}
	p.AddFrames(tc, frames)
}

func (p *Position) AddMinutes(tc TempoContext, minutes float64) {
	p.AddSeconds(tc, minutes*60)
}

func (p *Position) ChangeSign() {
	p.Ticks = -p.Ticks
	p.Frames = -p.Frames
}

// Compare orders positions primarily by frames and secondarily by ticks.
// Returns -1 if p is before o, +1 if it is after, and 0 if they are equal.
func (p Position) Compare(o Position) int {
	switch {
	case p.Frames < o.Frames:
		return -1
	case p.Frames > o.Frames:
		return 1
	case p.Ticks < o.Ticks:
		return -1
	case p.Ticks > o.Ticks:
		return 1
	}
	return 0
}

func (p Position) Before(o Position) bool { return p.Compare(o) < 0 }
func (p Position) After(o Position) bool  { return p.Compare(o) > 0 }
func (p Position) Equal(o Position) bool  { return p.Compare(o) == 0 }

// SortPositions sorts positions in place, keeping the relative order of equal
// positions.
func SortPositions(positions []Position) {
	slices.SortStableFunc(positions, Position.Compare)
}

// Bars returns the bar index of p. Negative positions have negative bars,
// the bar just before zero being -1; startAtOne only affects non-negative
// positions, so that there is never a bar 0 when displaying.
func (tc TempoContext) Bars(p Position, startAtOne bool) int {
	bars := int(math.Floor(p.Ticks / tc.TicksPerBar))
	if startAtOne && bars >= 0 {
		bars++
	}
	return bars
}

// Beats returns the beat within the bar of p.
func (tc TempoContext) Beats(p Position, startAtOne bool) int {
	beats := int(math.Floor(tc.ticksIntoBar(p) / tc.TicksPerBeat))
	if startAtOne {
		beats++
	}
	return beats
}

// Sixteenths returns the sixteenth within the beat of p.
func (tc TempoContext) Sixteenths(p Position, startAtOne bool) int {
	rem := math.Mod(tc.ticksIntoBar(p), tc.TicksPerBeat)
	s := int(math.Floor(rem / tc.TicksPerSixteenth))
	if startAtOne {
		s++
	}
	return s
}

// RemainderTicks returns the ticks left over after the bars, beats and
// sixteenths of p.
func (tc TempoContext) RemainderTicks(p Position) float64 {
	return math.Mod(tc.ticksIntoBar(p), tc.TicksPerSixteenth)
}

func (tc TempoContext) ticksIntoBar(p Position) float64 {
	bar := math.Floor(p.Ticks / tc.TicksPerBar)
	return p.Ticks - bar*tc.TicksPerBar
}

// Format renders p as "bar.beat.sixteenth.tick", with 1-based bar, beat and
// sixteenth, and the leftover ticks zero padded to four digits.
func (tc TempoContext) Format(p Position) string {
	return fmt.Sprintf("%d.%d.%d.%04d",
		tc.Bars(p, true),
		tc.Beats(p, true),
		tc.Sixteenths(p, true),
		int(math.Floor(tc.RemainderTicks(p))))
}

// Parse is the inverse of Format. The bar, beat and sixteenth fields are
// 1-based and may not be zero; only the bar may be negative. The tick field may
// be fractional. On failure, the returned Position is the zero value.
func (tc TempoContext) Parse(s string) (Position, error) {
	fields := strings.Split(strings.TrimSpace(s), ".")
	if len(fields) != 4 {
		return Position{}, fmt.Errorf("%w: %q does not have four fields", ErrInvalidPositionString, s)
	}
	var parts [3]int
	for i := range parts {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return Position{}, fmt.Errorf("%w: %q: %v", ErrInvalidPositionString, s, err)
		}
		if v == 0 || (i > 0 && v < 0) {
			return Position{}, fmt.Errorf("%w: %q: field %d out of range", ErrInvalidPositionString, s, i+1)
		}
		if v > 0 {
			v--
		}
		parts[i] = v
	}
	ticks, err := strconv.ParseFloat(fields[3], 64)
	if err != nil || ticks < 0 || math.IsNaN(ticks) || math.IsInf(ticks, 0) {
		return Position{}, fmt.Errorf("%w: %q: bad tick field", ErrInvalidPositionString, s)
	}
	total := float64(parts[0])*tc.TicksPerBar +
		float64(parts[1])*tc.TicksPerBeat +
		float64(parts[2])*tc.TicksPerSixteenth +
		ticks
	p, err := tc.FromTicksChecked(total)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q: %v", ErrInvalidPositionString, s, err)
	}
	return p, nil
}
