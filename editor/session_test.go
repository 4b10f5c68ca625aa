package editor_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/vsariola/timeline"
	"github.com/vsariola/timeline/editor"
	"github.com/vsariola/timeline/editor/memstore"
	"go.uber.org/zap"
)

type fixture struct {
	t         *testing.T
	store     *memstore.Store
	transport *memstore.Transport
	env       editor.Env
	session   *editor.Session
}

func newFixture(t *testing.T, view editor.View, vp *editor.Viewport, scope timeline.ContainerRef, objs ...timeline.Object) *fixture {
	store := memstore.New(tempo, objs)
	transport := &memstore.Transport{}
	return &fixture{
		t:         t,
		store:     store,
		transport: transport,
		env: editor.Env{
			Tempo:     tempo,
			Tool:      editor.SelectTool,
			Store:     store,
			Executor:  store,
			Transport: transport,
			Viewport:  vp,
		},
		session: editor.New(view, editor.WithScope(scope), editor.WithLogger(zap.NewNop())),
	}
}

func newTimelineFixture(t *testing.T, objs ...timeline.Object) *fixture {
	return newFixture(t, editor.TimelineView, timelineViewport(), timeline.ContainerRef{}, objs...)
}

func (f *fixture) press(x, y float64, mods editor.Modifiers) error {
	return f.session.Begin(f.env, editor.Press{Point: editor.Point{X: x, Y: y}, Modifiers: mods, Clicks: 1})
}

func (f *fixture) drag(x, y float64, mods editor.Modifiers) {
	f.session.Update(f.env, editor.Motion{Point: editor.Point{X: x, Y: y}, Modifiers: mods})
}

func (f *fixture) release(x, y float64, mods editor.Modifiers) error {
	return f.session.End(f.env, editor.Release{Point: editor.Point{X: x, Y: y}, Modifiers: mods})
}

func (f *fixture) mustPress(x, y float64, mods editor.Modifiers) {
	f.t.Helper()
	if err := f.press(x, y, mods); err != nil {
		f.t.Fatalf("press at %v,%v failed: %v", x, y, err)
	}
}

func (f *fixture) mustRelease(x, y float64, mods editor.Modifiers) {
	f.t.Helper()
	if err := f.release(x, y, mods); err != nil {
		f.t.Fatalf("release at %v,%v failed: %v", x, y, err)
	}
}

func (f *fixture) object(id timeline.ObjectID) timeline.Object {
	f.t.Helper()
	o, ok := f.store.Object(id)
	if !ok {
		f.t.Fatalf("object %d not in store", id)
	}
	return o
}

func (f *fixture) live(id timeline.ObjectID) timeline.Object {
	f.t.Helper()
	for o := range f.session.Objects(f.env) {
		if o.Base().ID == id {
			return o
		}
	}
	f.t.Fatalf("object %d not in the live view", id)
	return nil
}

func sameIDs(a, b []timeline.ObjectID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMoveThenCancel(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.mustPress(200, 50, 0)
	if f.session.Action() != editor.StartingMoving {
		t.Fatalf("expected starting moving, got %v", f.session.Action())
	}
	f.drag(230, 50, 0)
	if f.session.Action() != editor.Moving {
		t.Fatalf("expected moving, got %v", f.session.Action())
	}
	if got := f.live(1).Base().Start.Ticks; got != 1300 {
		t.Errorf("expected the live region at 1300, got %v", got)
	}
	if got := f.object(1).Base().Start.Ticks; got != 1000 {
		t.Errorf("the store should not change during the drag, got %v", got)
	}
	if err := f.session.Key(f.env, editor.KeyEvent{Key: editor.KeyEscape}); err != nil {
		t.Fatalf("escape failed: %v", err)
	}
	if f.session.Action() != editor.None {
		t.Errorf("expected no action after escape, got %v", f.session.Action())
	}
	f.drag(400, 50, 0)
	f.mustRelease(400, 50, 0)
	if got := f.object(1).Base().Start.Ticks; got != 1000 {
		t.Errorf("expected the region back at 1000, got %v", got)
	}
	if got := f.live(1).Base().Start.Ticks; got != 1000 {
		t.Errorf("expected the live region back at 1000, got %v", got)
	}
	if f.store.Len() != 0 {
		t.Errorf("a cancelled gesture should not commit anything")
	}
}

func TestCancelUndoesWhatWasRecorded(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), region(2, 1, 0, 500))
	f.mustPress(200, 50, 0)
	f.drag(230, 50, 0)
	if _, err := f.store.Perform(timeline.Move{Objects: []timeline.ObjectID{2}, Ticks: 100}); err != nil {
		t.Fatalf("perform failed: %v", err)
	}
	f.session.Key(f.env, editor.KeyEvent{Key: editor.KeyEscape})
	if f.store.Len() != 0 || f.object(2).Base().Start.Ticks != 0 {
		t.Errorf("escape should undo what was recorded during the gesture")
	}
}

func TestMoveCommits(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), region(2, 1, 5000, 6000))
	f.mustPress(200, 50, 0)
	f.drag(230, 90, 0)
	f.mustRelease(230, 90, 0)
	o := f.object(1)
	if o.Base().Start.Ticks != 1300 || o.Base().End.Ticks != 3300 || o.Base().Track != 1 {
		t.Errorf("unexpected region after move: %v-%v on track %v", o.Base().Start.Ticks, o.Base().End.Ticks, o.Base().Track)
	}
	if f.store.Len() != 1 {
		t.Errorf("expected exactly one intent, got %d", f.store.Len())
	}
	if !sameIDs(f.session.Selection(), []timeline.ObjectID{1}) {
		t.Errorf("expected the moved region to be selected, got %v", f.session.Selection())
	}
	if f.session.Action() != editor.None {
		t.Errorf("expected the gesture to be over")
	}
}

func TestMoveSnapsToGrid(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 960, 1920))
	f.env.Grid = timeline.SnapGrid{SnapToGrid: true, NoteLength: timeline.NoteLengthBeat}
	f.mustPress(150, 50, 0)
	f.drag(250, 50, 0) // 1000 ticks to the right
	if got := f.live(1).Base().Start.Ticks; got != 1920 {
		t.Errorf("expected snapped start 1920, got %v", got)
	}
	f.drag(250, 50, editor.ModShift)
	if got := f.live(1).Base().Start.Ticks; got != 1960 {
		t.Errorf("shift should disable snapping, expected 1960, got %v", got)
	}
	f.drag(0, 50, 0)
	if got := f.live(1).Base().Start.Ticks; got != 0 {
		t.Errorf("moving left should stop at zero, got %v", got)
	}
}

func TestCopyWithCtrl(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.mustPress(200, 50, 0)
	f.drag(400, 50, editor.ModCtrl)
	if f.session.Action() != editor.MovingCopy {
		t.Fatalf("expected copying, got %v", f.session.Action())
	}
	f.drag(400, 50, 0)
	if f.session.Action() != editor.Moving {
		t.Fatalf("releasing ctrl should go back to moving, got %v", f.session.Action())
	}
	f.drag(400, 50, editor.ModCtrl)
	f.mustRelease(400, 50, editor.ModCtrl)
	if f.object(1).Base().Start.Ticks != 1000 {
		t.Errorf("the original should stay in place")
	}
	if got := f.object(2).Base().Start.Ticks; got != 3000 {
		t.Errorf("expected the copy at 3000, got %v", got)
	}
}

func TestResizeRejectedWithoutLength(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), marker(2, 5000))
	f.session.Select(f.env, 1, 2)
	err := f.press(298, 50, 0)
	if !errors.Is(err, editor.ErrResizeWithoutLength) {
		t.Fatalf("expected ErrResizeWithoutLength, got %v", err)
	}
	if ftag.Get(err) != editor.Rejected {
		t.Errorf("expected the error to be tagged as rejected, got %v", ftag.Get(err))
	}
	if f.session.Action() != editor.None {
		t.Errorf("expected no action, got %v", f.session.Action())
	}
	if !sameIDs(f.session.Selection(), []timeline.ObjectID{1, 2}) {
		t.Errorf("the selection should not change, got %v", f.session.Selection())
	}
	alerts := f.session.Alerts().Items()
	if len(alerts) != 1 || !strings.Contains(alerts[0].Message, "without length") || alerts[0].Priority != editor.Error {
		t.Fatalf("expected an error alert about length, got %+v", alerts)
	}
	if alerts[0].Title != "Resizing Right" {
		t.Errorf("the alert should be titled by the refused action, got %q", alerts[0].Title)
	}
	f.drag(400, 50, 0)
	f.mustRelease(400, 50, 0)
	if f.object(1).Base().End.Ticks != 3000 || f.store.Len() != 0 {
		t.Errorf("nothing should change after a rejected press")
	}
}

func TestResizeRight(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.mustPress(298, 50, 0)
	if f.session.Action() != editor.ResizingR {
		t.Fatalf("expected resizing right, got %v", f.session.Action())
	}
	f.drag(398, 50, 0)
	f.mustRelease(398, 50, 0)
	r := f.object(1).(*timeline.Region)
	if r.End.Ticks != 4000 || r.Start.Ticks != 1000 {
		t.Errorf("unexpected region %v-%v", r.Start.Ticks, r.End.Ticks)
	}
	if timeline.IsLooped(r) {
		t.Errorf("plain resize should not loop the region")
	}
}

func TestLoopResizeInLowerHalf(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.mustPress(298, 75, 0)
	if f.session.Action() != editor.ResizingRLoop {
		t.Fatalf("expected loop resizing in the lower half, got %v", f.session.Action())
	}
	f.mustRelease(298, 75, 0)
	f.mustPress(298, 75, editor.ModCtrl)
	if f.session.Action() != editor.ResizingR {
		t.Errorf("ctrl should force a plain resize, got %v", f.session.Action())
	}
}

func TestLoopPromotion(t *testing.T) {
	looped := region(2, 1, 1000, 3000)
	looped.ClipStart = tempo.FromTicks(100)
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), looped)
	f.session.Select(f.env, 1, 2)
	f.mustPress(298, 50, 0)
	if f.session.Action() != editor.ResizingRLoop {
		t.Errorf("expected the resize to be promoted to a loop resize, got %v", f.session.Action())
	}
}

func audioRegion(id timeline.ObjectID, track int, start, end, fadeIn, fadeOut float64) *timeline.Region {
	r := region(id, track, start, end)
	r.Kind = timeline.AudioRegion
	r.FadeIn = tempo.FromTicks(fadeIn)
	r.FadeOut = tempo.FromTicks(fadeOut)
	return r
}

func TestFadeDroppedForMixedSelection(t *testing.T) {
	f := newTimelineFixture(t, audioRegion(1, 0, 1000, 3000, 500, 0), region(2, 1, 1000, 3000))
	f.mustPress(150, 45, 0) // on the fade in handle
	if f.session.Action() != editor.ResizingLFade {
		t.Fatalf("expected fade resizing on an audio region, got %v", f.session.Action())
	}
	f.mustRelease(150, 45, 0)
	f.session.Select(f.env, 1, 2)
	f.mustPress(150, 45, 0)
	if f.session.Action() != editor.StartingMoving {
		t.Errorf("a midi region in the selection should turn the fade handle into a move, got %v", f.session.Action())
	}
}

func TestFadeCurves(t *testing.T) {
	f := newTimelineFixture(t, audioRegion(1, 0, 1000, 3000, 500, 500))
	f.mustPress(120, 45, 0) // above the fade in curve
	if f.session.Action() != editor.ResizingUpFadeIn {
		t.Fatalf("expected fade in curve change, got %v", f.session.Action())
	}
	f.drag(120, 25, 0)
	f.mustRelease(120, 25, 0)
	f.mustPress(280, 45, 0) // above the fade out curve
	if f.session.Action() != editor.ResizingUpFadeOut {
		t.Fatalf("expected fade out curve change, got %v", f.session.Action())
	}
	f.drag(280, 65, 0)
	f.mustRelease(280, 65, 0)
	r := f.object(1).(*timeline.Region)
	if r.FadeInCurve != 0.5 || r.FadeOutCurve != -0.5 {
		t.Errorf("expected curves 0.5 and -0.5, got %v and %v", r.FadeInCurve, r.FadeOutCurve)
	}
	if r.Start.Ticks != 1000 || r.End.Ticks != 3000 || r.FadeIn.Ticks != 500 {
		t.Errorf("curve changes should not touch the edges or the fades")
	}
	if f.store.Len() != 2 {
		t.Errorf("expected two edits, got %d", f.store.Len())
	}
}

func TestStretching(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.env.Tool = editor.StretchTool
	f.mustPress(298, 50, 0)
	if f.session.Action() != editor.StretchingR {
		t.Fatalf("expected stretching right, got %v", f.session.Action())
	}
	f.drag(398, 50, 0)
	f.mustRelease(398, 50, 0)
	r := f.object(1).(*timeline.Region)
	if r.End.Ticks != 4000 || r.LoopEnd.Ticks != 3000 {
		t.Errorf("expected the content stretched to 1000-4000, got end %v loop end %v", r.End.Ticks, r.LoopEnd.Ticks)
	}
	in := f.store.Log()[0].(timeline.Resize)
	if in.Variant != timeline.ResizeStretch || in.Edge != timeline.EdgeRight || in.Ticks != 1000 {
		t.Errorf("unexpected intent %+v", in)
	}
	f.mustPress(102, 50, 0)
	if f.session.Action() != editor.StretchingL {
		t.Fatalf("expected stretching left, got %v", f.session.Action())
	}
	f.drag(52, 50, 0)
	f.mustRelease(52, 50, 0)
	if r := f.object(1); r.Base().Start.Ticks != 500 || r.Base().End.Ticks != 4000 {
		t.Errorf("expected 500-4000, got %v-%v", r.Base().Start.Ticks, r.Base().End.Ticks)
	}
}

func TestMoveKeepsGridOffset(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.env.Grid = timeline.SnapGrid{SnapToGrid: true, KeepOffset: true, NoteLength: timeline.NoteLengthBeat}
	f.mustPress(200, 50, 0)
	f.drag(300, 50, 0)
	if got := f.live(1).Base().Start.Ticks; got != 1960 {
		t.Errorf("expected 40 ticks past the grid line at 1920, got %v", got)
	}
	f.env.Grid.KeepOffset = false
	f.drag(301, 50, 0)
	if got := f.live(1).Base().Start.Ticks; got != 1920 {
		t.Errorf("without keep offset the start should land on 1920, got %v", got)
	}
	f.env.Grid.KeepOffset = true
	f.drag(300, 50, 0)
	f.mustRelease(300, 50, 0)
	if got := f.object(1).Base().Start.Ticks; got != 1960 {
		t.Errorf("expected the committed start at 1960, got %v", got)
	}
}

func TestAltDragLinks(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.mustPress(200, 50, 0)
	f.drag(300, 50, editor.ModAlt)
	if f.session.Action() != editor.MovingLink {
		t.Fatalf("expected moving link, got %v", f.session.Action())
	}
	f.mustRelease(300, 50, editor.ModAlt)
	d, ok := f.store.Log()[0].(timeline.Duplicate)
	if !ok || !d.Link || d.Ticks != 1000 {
		t.Errorf("expected a linked duplicate 1000 ticks later, got %+v", f.store.Log()[0])
	}
	if got := f.object(2).Base().Start.Ticks; got != 2000 {
		t.Errorf("expected the link at 2000, got %v", got)
	}
	// alt on press cuts, but dragging turns the cut into a linked move
	f.mustPress(150, 50, editor.ModAlt)
	if f.session.Action() != editor.Cutting {
		t.Fatalf("expected cutting with alt, got %v", f.session.Action())
	}
	f.drag(250, 50, editor.ModAlt)
	if f.session.Action() != editor.MovingLink {
		t.Errorf("expected the cut to become a linked move, got %v", f.session.Action())
	}
	f.mustRelease(250, 50, editor.ModAlt)
	if _, ok := f.store.Log()[1].(timeline.Duplicate); !ok {
		t.Errorf("expected a second duplicate, got %+v", f.store.Log()[1])
	}
}

func TestRenaming(t *testing.T) {
	r := region(1, 0, 1000, 3000)
	r.Name = "Drums"
	f := newTimelineFixture(t, r)
	var renamed []timeline.ObjectID
	f.session = editor.New(editor.TimelineView,
		editor.WithLogger(zap.NewNop()),
		editor.WithRenameHandler(func(o timeline.Object) { renamed = append(renamed, o.Base().ID) }))
	f.mustPress(120, 45, 0) // on the name
	if f.session.Action() != editor.Renaming {
		t.Fatalf("expected renaming, got %v", f.session.Action())
	}
	f.mustRelease(120, 45, 0)
	if len(renamed) != 1 || renamed[0] != 1 {
		t.Errorf("expected the rename handler to be called for region 1, got %v", renamed)
	}
	f.mustPress(120, 45, 0)
	f.drag(220, 45, 0)
	f.mustRelease(220, 45, 0)
	if len(renamed) != 1 {
		t.Errorf("dragging off the name should not rename")
	}
	if f.store.Len() != 0 {
		t.Errorf("renaming should not change the store")
	}
}

func TestClickSelection(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), region(2, 1, 1000, 3000))
	f.mustPress(200, 50, 0)
	f.mustRelease(200, 50, 0)
	if !sameIDs(f.session.Selection(), []timeline.ObjectID{1}) {
		t.Fatalf("expected [1], got %v", f.session.Selection())
	}
	f.mustPress(200, 90, editor.ModCtrl)
	f.mustRelease(200, 90, editor.ModCtrl)
	if !sameIDs(f.session.Selection(), []timeline.ObjectID{1, 2}) {
		t.Fatalf("ctrl click should add, expected [1 2], got %v", f.session.Selection())
	}
	f.mustPress(200, 50, editor.ModCtrl)
	f.mustRelease(200, 50, editor.ModCtrl)
	if !sameIDs(f.session.Selection(), []timeline.ObjectID{2}) {
		t.Fatalf("ctrl click on a selected object should remove it, expected [2], got %v", f.session.Selection())
	}
	f.mustPress(600, 10, 0)
	f.mustRelease(600, 10, 0)
	if len(f.session.Selection()) != 0 {
		t.Errorf("click on empty space should deselect, got %v", f.session.Selection())
	}
}

func TestRubberBandSelection(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), region(2, 1, 5000, 6000), marker(3, 1500))
	f.mustPress(900, 10, 0)
	f.drag(120, 55, 0)
	if f.session.Action() != editor.Selecting {
		t.Fatalf("expected selecting, got %v", f.session.Action())
	}
	if _, ok := f.session.Highlight(); !ok {
		t.Errorf("expected a highlight rectangle")
	}
	f.mustRelease(120, 55, 0)
	if !sameIDs(f.session.Selection(), []timeline.ObjectID{1, 3}) {
		t.Errorf("expected [1 3], got %v", f.session.Selection())
	}
}

func TestRangeSelection(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.mustPress(500, 75, 0)
	f.drag(450, 75, 0)
	f.drag(700, 75, 0)
	start, end, ok := f.session.Range()
	if !ok || start.Ticks != 5000 || end.Ticks != 7000 {
		t.Errorf("expected range 5000-7000, got %v-%v (%v)", start.Ticks, end.Ticks, ok)
	}
	f.mustRelease(700, 75, 0)
	if f.transport.RangeStart.Ticks != 5000 || f.transport.RangeEnd.Ticks != 7000 {
		t.Errorf("range was not handed to the transport")
	}
}

func TestEraserClick(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), marker(2, 5000))
	f.env.Tool = editor.EraserTool
	f.mustPress(200, 50, 0)
	f.mustRelease(200, 50, 0)
	if _, ok := f.store.Object(1); ok {
		t.Errorf("eraser click should delete the region")
	}
}

func TestEraserDrag(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), region(2, 0, 4000, 5000), region(3, 1, 1000, 2000))
	f.env.Tool = editor.EraserTool
	f.mustPress(200, 50, 0)
	f.drag(450, 50, 0)
	if f.session.Action() != editor.Erasing {
		t.Fatalf("expected erasing, got %v", f.session.Action())
	}
	if !f.live(1).Base().TemporarilyDeleted || !f.live(2).Base().TemporarilyDeleted {
		t.Errorf("erased objects should be temporarily deleted in the live view")
	}
	if f.live(3).Base().TemporarilyDeleted {
		t.Errorf("object not under the pointer was erased")
	}
	f.mustRelease(450, 50, 0)
	if _, ok := f.store.Object(1); ok {
		t.Errorf("region 1 should be deleted")
	}
	if _, ok := f.store.Object(2); ok {
		t.Errorf("region 2 should be deleted")
	}
	if f.store.Len() != 1 {
		t.Errorf("expected one delete intent, got %d", f.store.Len())
	}
}

func TestDeleteSelectionRejectsUndeletable(t *testing.T) {
	start := &timeline.Marker{ObjectBase: timeline.ObjectBase{ID: 2, Start: tempo.FromTicks(1500)}, Kind: timeline.StartMarker}
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), start)
	f.env.Tool = editor.EraserTool
	f.mustPress(900, 10, 0)
	f.drag(120, 55, 0)
	f.mustRelease(120, 55, 0)
	if f.store.Len() != 0 {
		t.Errorf("nothing should be deleted when the start marker is included")
	}
	if len(f.session.Alerts().Items()) == 0 {
		t.Errorf("expected an alert")
	}
}

func TestKeyboard(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000), marker(2, 5000))
	f.env.Grid = timeline.SnapGrid{SnapToGrid: true, NoteLength: timeline.NoteLength1_16}
	f.session.Select(f.env, 1)
	f.session.Key(f.env, editor.KeyEvent{Key: editor.KeyRight})
	if got := f.object(1).Base().Start.Ticks; got != 1240 {
		t.Errorf("expected nudge to 1240, got %v", got)
	}
	f.session.Key(f.env, editor.KeyEvent{Key: editor.KeyLeft, Modifiers: editor.ModCtrl})
	if got := f.object(1).Base().Start.Ticks; got != 0 {
		t.Errorf("nudging left by a bar should stop at 0, got %v", got)
	}
	f.session.Key(f.env, editor.KeyEvent{Key: editor.KeyDown})
	if got := f.object(1).Base().Track; got != 1 {
		t.Errorf("expected track 1, got %v", got)
	}
	var clip []byte
	s := editor.New(editor.TimelineView, editor.WithClipboard(func(data []byte) { clip = data }))
	s.Key(f.env, editor.KeyEvent{Key: editor.KeyA, Modifiers: editor.ModCtrl})
	if !sameIDs(s.Selection(), []timeline.ObjectID{1, 2}) {
		t.Errorf("ctrl+a should select everything, got %v", s.Selection())
	}
	s.Key(f.env, editor.KeyEvent{Key: editor.KeyC, Modifiers: editor.ModCtrl})
	objs, err := timeline.UnmarshalObjects(tempo, clip)
	if err != nil || len(objs) != 2 {
		t.Errorf("expected two objects on the clipboard, got %d (%v)", len(objs), err)
	}
	s.Key(f.env, editor.KeyEvent{Key: editor.KeyDelete})
	if _, ok := f.store.Object(2); ok {
		t.Errorf("delete should remove the marker")
	}
}

func TestCreateNote(t *testing.T) {
	owner := timeline.ObjectID(100)
	vp := &editor.Viewport{PixelsPerTick: 0.1, Width: 1000, Height: 1280, RowHeight: 10}
	f := newFixture(t, editor.MidiView, vp, timeline.ContainerRef{Kind: timeline.RegionContainer, Region: owner}, region(owner, 0, 0, 10000))
	f.env.Tool = editor.EditTool
	f.env.Grid = timeline.SnapGrid{SnapToGrid: true, NoteLength: timeline.NoteLength1_16}
	f.mustPress(100, 605, 0)
	if f.session.Action() != editor.CreatingResizingR {
		t.Fatalf("expected creating, got %v", f.session.Action())
	}
	f.mustRelease(100, 605, 0)
	n, ok := f.object(101).(*timeline.MidiNote)
	if !ok {
		t.Fatalf("expected a note with id 101")
	}
	if n.Pitch != 67 || n.Start.Ticks != 960 || n.End.Ticks != 1200 || n.Region != owner {
		t.Errorf("unexpected note: pitch %v, %v-%v in region %v", n.Pitch, n.Start.Ticks, n.End.Ticks, n.Region)
	}
}

func TestCreateNoteByDragging(t *testing.T) {
	owner := timeline.ObjectID(100)
	vp := &editor.Viewport{PixelsPerTick: 0.1, Width: 1000, Height: 1280, RowHeight: 10}
	f := newFixture(t, editor.MidiView, vp, timeline.ContainerRef{Kind: timeline.RegionContainer, Region: owner}, region(owner, 0, 0, 10000))
	f.env.Tool = editor.EditTool
	f.env.Grid = timeline.SnapGrid{SnapToGrid: true, NoteLength: timeline.NoteLength1_16}
	f.mustPress(100, 605, 0)
	f.drag(200, 605, 0)
	f.mustRelease(200, 605, 0)
	n := f.object(101)
	if n.Base().Start.Ticks != 960 || n.Base().End.Ticks != 1920 {
		t.Errorf("expected note 960-1920, got %v-%v", n.Base().Start.Ticks, n.Base().End.Ticks)
	}
}

func TestVelocityRamp(t *testing.T) {
	vp := &editor.Viewport{PixelsPerTick: 0.1, Width: 1000, Height: 100, LaneHeight: 100, PointSize: 8}
	var objs []timeline.Object
	for i := range 5 {
		objs = append(objs, &timeline.Velocity{ObjectBase: timeline.ObjectBase{ID: timeline.ObjectID(i + 1), Start: tempo.FromTicks(float64(i) * 1000)}, Value: 64})
	}
	f := newFixture(t, editor.VelocityView, vp, timeline.ContainerRef{}, objs...)
	f.env.Tool = editor.RampTool
	f.mustPress(0, 100, 0)
	f.drag(300, 0, 0)
	f.mustRelease(300, 0, 0)
	for id, expected := range map[timeline.ObjectID]uint8{1: 0, 2: 42, 3: 85, 4: 127, 5: 64} {
		if got := f.object(id).(*timeline.Velocity).Value; got != expected {
			t.Errorf("velocity %d: expected %d, got %d", id, expected, got)
		}
	}
	if f.store.Len() != 1 {
		t.Errorf("expected one edit, got %d", f.store.Len())
	}
}

func TestAuditionRestoresTransport(t *testing.T) {
	f := newTimelineFixture(t)
	f.env.Tool = editor.AuditionTool
	f.transport.Position = tempo.FromTicks(123)
	f.mustPress(100, 50, 0)
	if !f.transport.IsPlaying || f.transport.Position.Ticks != 1000 {
		t.Errorf("audition should start playback at the pointer")
	}
	f.drag(200, 50, 0)
	if f.transport.Position.Ticks != 2000 {
		t.Errorf("audition should follow the pointer, got %v", f.transport.Position.Ticks)
	}
	f.mustRelease(200, 50, 0)
	if f.transport.IsPlaying || f.transport.Position.Ticks != 123 {
		t.Errorf("release should restore the transport")
	}
}

func TestCutSplitsRegion(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.env.Tool = editor.CutTool
	f.mustPress(200, 50, 0)
	if f.session.Action() != editor.Cutting {
		t.Fatalf("expected cutting, got %v", f.session.Action())
	}
	f.mustRelease(200, 50, 0)
	if f.object(1).Base().End.Ticks != 2000 || f.object(2).Base().Start.Ticks != 2000 {
		t.Errorf("expected the region to be split at 2000")
	}
}

func TestPanning(t *testing.T) {
	f := newTimelineFixture(t)
	f.env.Viewport.ScrollX = 100
	if err := f.session.Begin(f.env, editor.Press{Point: editor.Point{X: 500, Y: 50}, Button: editor.MiddleButton}); err != nil {
		t.Fatalf("press failed: %v", err)
	}
	f.drag(450, 50, 0)
	if f.env.Viewport.ScrollX != 150 {
		t.Errorf("expected scroll 150, got %v", f.env.Viewport.ScrollX)
	}
	f.drag(900, 50, 0)
	if f.env.Viewport.ScrollX != 0 {
		t.Errorf("scroll should not go negative, got %v", f.env.Viewport.ScrollX)
	}
	f.mustRelease(900, 50, 0)
}

func TestAutoScroll(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.mustPress(200, 50, 0)
	f.drag(998, 50, 0)
	if f.env.Viewport.ScrollX != 20 {
		t.Errorf("expected the view to scroll by 20 near the right border, got %v", f.env.Viewport.ScrollX)
	}
}

type failingExecutor struct{ *memstore.Store }

func (failingExecutor) Perform(timeline.Intent) (editor.Handle, error) {
	return 0, errors.New("disk full")
}

func TestCommitFailure(t *testing.T) {
	f := newTimelineFixture(t, region(1, 0, 1000, 3000))
	f.env.Executor = failingExecutor{f.store}
	f.mustPress(200, 50, 0)
	f.drag(300, 50, 0)
	err := f.release(300, 50, 0)
	if err == nil || ftag.Get(err) != editor.CommitFailed {
		t.Fatalf("expected a commit failure, got %v", err)
	}
	if msg := editor.UserMessage(err); msg != "Could not move the selection." {
		t.Errorf("unexpected user message %q", msg)
	}
	if f.object(1).Base().Start.Ticks != 1000 || f.session.Action() != editor.None {
		t.Errorf("a failed commit should leave the store unchanged and end the gesture")
	}
	if got := f.live(1).Base().Start.Ticks; got != 1000 {
		t.Errorf("the live view should show the store again, got %v", got)
	}
}

func TestActionTitle(t *testing.T) {
	if got := editor.ResizingLLoop.Title(); got != "Loop Resizing Left" {
		t.Errorf("unexpected title %q", got)
	}
}
