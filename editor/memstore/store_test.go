package memstore_test

import (
	"errors"
	"testing"

	"github.com/vsariola/timeline"
	"github.com/vsariola/timeline/editor/memstore"
	"go.uber.org/multierr"
)

var tempo = timeline.MustTempoContext(48000, 120, 4, 4)

func region(id timeline.ObjectID, track int, start, end float64) *timeline.Region {
	return &timeline.Region{
		ObjectBase: timeline.ObjectBase{ID: id, Track: track, Start: tempo.FromTicks(start), End: tempo.FromTicks(end)},
		LoopEnd:    tempo.FromTicks(end - start),
	}
}

func ticksOf(t *testing.T, s *memstore.Store, id timeline.ObjectID) float64 {
	t.Helper()
	o, ok := s.Object(id)
	if !ok {
		t.Fatalf("object %d not found", id)
	}
	return o.Base().Start.Ticks
}

func TestMoveUndoRedo(t *testing.T) {
	s := memstore.New(tempo, []timeline.Object{region(1, 0, 1000, 2000)})
	h, err := s.Perform(timeline.Move{Objects: []timeline.ObjectID{1}, Ticks: 300, Tracks: 2})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if h != 1 || s.Len() != 1 {
		t.Errorf("expected handle 1 and one undo step, got %v and %v", h, s.Len())
	}
	o, _ := s.Object(1)
	if o.Base().Start.Ticks != 1300 || o.Base().Track != 2 {
		t.Errorf("unexpected region after move: start %v track %v", o.Base().Start.Ticks, o.Base().Track)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := ticksOf(t, s, 1); got != 1000 {
		t.Errorf("expected 1000 after undo, got %v", got)
	}
	if err := s.Redo(); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if got := ticksOf(t, s, 1); got != 1300 {
		t.Errorf("expected 1300 after redo, got %v", got)
	}
	if err := s.Redo(); !errors.Is(err, memstore.ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestFailedIntentChangesNothing(t *testing.T) {
	frozen := region(2, 0, 0, 100)
	frozen.Frozen = true
	s := memstore.New(tempo, []timeline.Object{region(1, 0, 1000, 2000), frozen})
	_, err := s.Perform(timeline.Move{Objects: []timeline.ObjectID{1, 2, 3}, Ticks: 10})
	if err == nil {
		t.Fatalf("expected the move to fail")
	}
	if !errors.Is(err, memstore.ErrObjectFrozen) || !errors.Is(err, memstore.ErrNoSuchObject) {
		t.Errorf("expected both problems to be reported, got %v", err)
	}
	if n := len(multierr.Errors(errors.Unwrap(err))); n != 2 {
		t.Errorf("expected 2 errors, got %d", n)
	}
	if got := ticksOf(t, s, 1); got != 1000 {
		t.Errorf("a failed intent should not move anything, got %v", got)
	}
	if s.Len() != 0 {
		t.Errorf("a failed intent should not be recorded")
	}
}

func TestDuplicateAndSplitGetFreshIDs(t *testing.T) {
	s := memstore.New(tempo, []timeline.Object{region(5, 0, 0, 1000)})
	if _, err := s.Perform(timeline.Duplicate{Move: timeline.Move{Objects: []timeline.ObjectID{5}, Ticks: 1000}}); err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if got := ticksOf(t, s, 6); got != 1000 {
		t.Errorf("expected the copy to get id 6 and start at 1000, got %v", got)
	}
	if _, err := s.Perform(timeline.Split{Objects: []timeline.ObjectID{5}, At: tempo.FromTicks(400)}); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if got := ticksOf(t, s, 7); got != 400 {
		t.Errorf("expected the right half to get id 7 and start at 400, got %v", got)
	}
	if id := s.NextID(); id != 8 {
		t.Errorf("expected next id 8, got %v", id)
	}
}

func TestSplitMovesLaterNotesToTheRightHalf(t *testing.T) {
	note := func(id timeline.ObjectID, start float64) *timeline.MidiNote {
		return &timeline.MidiNote{ObjectBase: timeline.ObjectBase{ID: id, Region: 1, Start: tempo.FromTicks(start), End: tempo.FromTicks(start + 100)}, Pitch: 60}
	}
	s := memstore.New(tempo, []timeline.Object{region(1, 0, 0, 1000), note(2, 100), note(3, 500), note(4, 800)})
	if _, err := s.Perform(timeline.Split{Objects: []timeline.ObjectID{1}, At: tempo.FromTicks(500)}); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	const right = timeline.ObjectID(5)
	for id, want := range map[timeline.ObjectID]timeline.ObjectID{2: 1, 3: right, 4: right} {
		o, _ := s.Object(id)
		if got := o.Base().Region; got != want {
			t.Errorf("note %d: expected region %d, got %d", id, want, got)
		}
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if o, _ := s.Object(4); o.Base().Region != 1 {
		t.Errorf("undo should give the notes back to the region")
	}
}

func TestDeleteAndCreate(t *testing.T) {
	start := &timeline.Marker{ObjectBase: timeline.ObjectBase{ID: 1}, Kind: timeline.StartMarker}
	s := memstore.New(tempo, []timeline.Object{start, region(2, 0, 0, 100)})
	if _, err := s.Perform(timeline.Delete{Objects: []timeline.Object{start}}); !errors.Is(err, memstore.ErrNotDeletable) {
		t.Errorf("expected ErrNotDeletable, got %v", err)
	}
	if _, err := s.Perform(timeline.Create{Objects: []timeline.Object{region(2, 0, 0, 10)}}); !errors.Is(err, memstore.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := s.Perform(timeline.Create{Objects: []timeline.Object{region(10, 1, 0, 10)}}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, ok := s.Object(10); !ok {
		t.Errorf("created object missing")
	}
	o, _ := s.Object(2)
	if _, err := s.Perform(timeline.Delete{Objects: []timeline.Object{o}}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	n := 0
	for range s.ObjectsIn(timeline.ContainerRef{Kind: timeline.TrackContainer, Track: 0}) {
		n++
	}
	if n != 1 {
		t.Errorf("expected only the start marker left on track 0, got %d objects", n)
	}
}

func TestEditPrimitive(t *testing.T) {
	before := region(1, 0, 0, 100)
	s := memstore.New(tempo, []timeline.Object{before})
	after := timeline.Clone(before).(*timeline.Region)
	after.Name = "Drums"
	if _, err := s.Perform(timeline.EditPrimitive{Before: []timeline.Object{before}, After: []timeline.Object{after}}); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	o, _ := s.Object(1)
	if o.(*timeline.Region).Name != "Drums" {
		t.Errorf("edit was not applied")
	}
	if _, err := s.Perform(timeline.EditPrimitive{Before: []timeline.Object{before}}); !errors.Is(err, memstore.ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestMoveBelowTrackZeroFails(t *testing.T) {
	s := memstore.New(tempo, []timeline.Object{region(1, 0, 0, 100)})
	if _, err := s.Perform(timeline.Move{Objects: []timeline.ObjectID{1}, Tracks: -1}); !errors.Is(err, memstore.ErrInvalidTrack) {
		t.Errorf("expected ErrInvalidTrack, got %v", err)
	}
}
