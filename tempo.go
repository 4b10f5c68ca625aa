// Package timeline is the time model of the editor: tempo contexts,
// positions in ticks and frames, snapping, the editable objects and the
// intents that change them.
package timeline

import (
	"errors"
	"fmt"
	"math"
)

// TicksPerQuarterNote is the musical resolution of all positions: a quarter
// note is always 960 ticks, regardless of tempo or time signature.
const TicksPerQuarterNote = 960

// TicksPerSixteenth follows from TicksPerQuarterNote.
const TicksPerSixteenth = TicksPerQuarterNote / 4

type (
	// TempoContext holds the values needed to convert between musical time
	// (ticks, bars, beats, sixteenths) and audio time (frames, seconds). It is
	// derived from the sample rate, tempo and time signature of the project
	// and treated as a constant lookup table by everything using it; whenever
	// the tempo or the time signature changes, a new TempoContext is made.
	TempoContext struct {
		SampleRate        float64
		FramesPerTick     float64
		TicksPerFrame     float64 // reciprocal of FramesPerTick
		TicksPerBar       float64
		TicksPerBeat      float64
		TicksPerSixteenth float64
		BeatsPerBar       int
		SixteenthsPerBeat int
		BPM               float64
	}
)

var ErrInvalidTempo = errors.New("invalid tempo context")

// NewTempoContext computes the conversion constants for given sample rate, tempo
// in beats per minute and a time signature beatsPerBar/beatUnit. beatUnit
// needs to divide 16 i.e. be one of 1, 2, 4, 8 or 16.
func NewTempoContext(sampleRate, bpm float64, beatsPerBar, beatUnit int) (TempoContext, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return TempoContext{}, fmt.Errorf("%w: sample rate %v", ErrInvalidTempo, sampleRate)
	}
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return TempoContext{}, fmt.Errorf("%w: bpm %v", ErrInvalidTempo, bpm)
	}
	if beatsPerBar <= 0 {
		return TempoContext{}, fmt.Errorf("%w: %d beats per bar", ErrInvalidTempo, beatsPerBar)
	}
	if beatUnit <= 0 || beatUnit > 16 || 16%beatUnit != 0 {
		return TempoContext{}, fmt.Errorf("%w: beat unit %d", ErrInvalidTempo, beatUnit)
	}
	ticksPerBeat := float64(4*TicksPerQuarterNote) / float64(beatUnit)
	framesPerTick := sampleRate * 60 / (bpm * TicksPerQuarterNote)
	return TempoContext{
		SampleRate:        sampleRate,
		FramesPerTick:     framesPerTick,
		TicksPerFrame:     1 / framesPerTick,
		TicksPerBar:       ticksPerBeat * float64(beatsPerBar),
		TicksPerBeat:      ticksPerBeat,
		TicksPerSixteenth: TicksPerSixteenth,
		BeatsPerBar:       beatsPerBar,
		SixteenthsPerBeat: 16 / beatUnit,
		BPM:               bpm,
	}, nil
}

// MustTempoContext is like NewTempoContext but panics on invalid arguments.
// Useful for constants and tests.
func MustTempoContext(sampleRate, bpm float64, beatsPerBar, beatUnit int) TempoContext {
	tc, err := NewTempoContext(sampleRate, bpm, beatsPerBar, beatUnit)
	if err != nil {
		panic(err)
	}
	return tc
}

// Validate checks that the frames/ticks reciprocals agree and that all the
// musical granularities are strictly positive.
func (tc TempoContext) Validate() error {
	if tc.SampleRate <= 0 || tc.FramesPerTick <= 0 || tc.TicksPerFrame <= 0 {
		return fmt.Errorf("%w: non-positive rate", ErrInvalidTempo)
	}
	if math.Abs(tc.FramesPerTick*tc.TicksPerFrame-1) > 1e-9 {
		return fmt.Errorf("%w: frames per tick %v and ticks per frame %v disagree", ErrInvalidTempo, tc.FramesPerTick, tc.TicksPerFrame)
	}
	if tc.TicksPerBar <= 0 || tc.TicksPerBeat <= 0 || tc.TicksPerSixteenth <= 0 || tc.BeatsPerBar <= 0 || tc.SixteenthsPerBeat <= 0 {
		return fmt.Errorf("%w: non-positive musical granularity", ErrInvalidTempo)
	}
	return nil
}
