package memstore

import "github.com/vsariola/timeline"

// Transport is a transport that only remembers what it was told. It
// implements editor.Transport.
type Transport struct {
	Position   timeline.Position
	IsPlaying  bool
	RangeStart timeline.Position
	RangeEnd   timeline.Position
	// Seeks counts the playhead changes.
	Seeks int
}

func (t *Transport) Playhead() timeline.Position { return t.Position }

func (t *Transport) SetPlayhead(p timeline.Position) {
	t.Position = p
	t.Seeks++
}

func (t *Transport) Playing() bool { return t.IsPlaying }

func (t *Transport) SetPlaying(playing bool) { t.IsPlaying = playing }

func (t *Transport) SetRange(start, end timeline.Position) {
	t.RangeStart, t.RangeEnd = start, end
}
