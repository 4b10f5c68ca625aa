package editor

import (
	"iter"

	"github.com/vsariola/timeline"
	"go.uber.org/zap"
)

type (
	// Store gives read access to the objects being edited. Objects returned
	// by the store are never modified by the session; it edits clones.
	Store interface {
		ObjectsIn(ref timeline.ContainerRef) iter.Seq[timeline.Object]
		Object(id timeline.ObjectID) (timeline.Object, bool)
		// NextID returns an unused ID for an object created by the session.
		NextID() timeline.ObjectID
	}

	// Handle identifies a performed intent in the executor's history.
	Handle int

	// Executor commits intents to the store, recording them to its undo
	// history. Len returns the length of the undo history.
	Executor interface {
		Perform(in timeline.Intent) (Handle, error)
		Undo() error
		Len() int
	}

	// Transport is the playback engine, used by the audition tool and by range
	// selection.
	Transport interface {
		Playhead() timeline.Position
		SetPlayhead(p timeline.Position)
		Playing() bool
		SetPlaying(playing bool)
		SetRange(start, end timeline.Position)
	}

	// Env is what the session needs from its surroundings on every event.
	// Transport may be nil.
	Env struct {
		Tempo     timeline.TempoContext
		Grid      timeline.SnapGrid
		Tool      Tool
		Store     Store
		Executor  Executor
		Transport Transport
		Viewport  *Viewport
	}

	Options struct {
		Logger      *zap.Logger
		Preferences Preferences
		Alerts      *Alerts
		// Scope is the container the session edits: all timeline objects for
		// the timeline, or a region for the other editors.
		Scope timeline.ContainerRef
		// OnRename is called when a name label is clicked.
		OnRename func(o timeline.Object)
		// Clipboard receives the YAML of copied objects.
		Clipboard func(data []byte)
	}

	Option func(*Options)

	// Session is the edit session of one editor view. It is not safe for
	// concurrent use; all events are expected to come from the UI goroutine.
	Session struct {
		view      View
		scope     timeline.ContainerRef
		prefs     Preferences
		logger    *zap.Logger
		alerts    *Alerts
		onRename  func(o timeline.Object)
		clipboard func(data []byte)

		selection Selection
		g         gesture
	}

	// gesture holds everything that lives from press to release.
	gesture struct {
		action      Action
		cancelled   bool
		dragStarted bool
		secondary   bool
		rangeMode   bool
		mods        Modifiers

		pressPoint  Point // widget coordinates
		startScroll Point
		start       Point // content coordinates
		current     Point
		startPos    timeline.Position

		hit                    timeline.Object
		hitRect                Rect
		startObjectWasSelected bool
		selectionBefore        Selection
		execLen                int

		// snapshot holds clones of the selection at the start of the
		// gesture; values during the drag are computed from these.
		snapshot []timeline.Object
		earliest timeline.Position
		overlay  map[timeline.ObjectID]timeline.Object
		ghosts   []timeline.Object
		created  timeline.Object
		pending  []timeline.ObjectID
		edited   []timeline.ObjectID
		before   map[timeline.ObjectID]timeline.Object

		move        timeline.Move
		resizeTicks float64
		cutPos      timeline.Position
		rangeStart  timeline.Position
		rangeEnd    timeline.Position
		highlight   Rect

		playhead timeline.Position
		playing  bool
	}
)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithPreferences(p Preferences) Option {
	return func(o *Options) { o.Preferences = p }
}

func WithAlerts(a *Alerts) Option {
	return func(o *Options) { o.Alerts = a }
}

func WithScope(ref timeline.ContainerRef) Option {
	return func(o *Options) { o.Scope = ref }
}

func WithRenameHandler(f func(o timeline.Object)) Option {
	return func(o *Options) { o.OnRename = f }
}

func WithClipboard(f func(data []byte)) Option {
	return func(o *Options) { o.Clipboard = f }
}

// New returns an idle session for the view.
func New(view View, opts ...Option) *Session {
	options := Options{
		Logger:      zap.NewNop(),
		Preferences: DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Alerts == nil {
		options.Alerts = &Alerts{}
	}
	return &Session{
		view:      view,
		scope:     options.Scope,
		prefs:     options.Preferences,
		logger:    options.Logger.With(zap.Stringer("view", view)),
		alerts:    options.Alerts,
		onRename:  options.OnRename,
		clipboard: options.Clipboard,
	}
}

func (s *Session) View() View      { return s.view }
func (s *Session) Action() Action  { return s.g.action }
func (s *Session) Alerts() *Alerts { return s.alerts }

func (s *Session) Selection() []timeline.ObjectID {
	return s.selection.IDs()
}

// Select replaces the selection. IDs of objects the view does not show are
// ignored.
func (s *Session) Select(env Env, ids ...timeline.ObjectID) {
	s.selection.Clear()
	for _, id := range ids {
		if o, ok := env.Store.Object(id); ok && s.view.Accepts(o) {
			s.selection.Add(id)
		}
	}
}

// Highlight returns the rubber band rectangle, in content coordinates,
// while selecting or delete-selecting.
func (s *Session) Highlight() (Rect, bool) {
	switch s.g.action {
	case Selecting, DeleteSelecting:
		return s.g.highlight, !s.g.rangeMode
	}
	return Rect{}, false
}

// Range returns the time range being selected in range mode.
func (s *Session) Range() (start, end timeline.Position, ok bool) {
	if s.g.action == Selecting && s.g.rangeMode {
		return s.g.rangeStart, s.g.rangeEnd, true
	}
	return timeline.Position{}, timeline.Position{}, false
}

// CutPosition returns where the object would be split if the pointer was
// released now.
func (s *Session) CutPosition() (timeline.Position, bool) {
	return s.g.cutPos, s.g.action == Cutting
}

// Objects yields the objects of the scope as they should be drawn now:
// objects being edited are replaced by their live clones, copies being
// dragged and objects being created are added, and the Selected flags
// reflect the selection.
func (s *Session) Objects(env Env) iter.Seq[timeline.Object] {
	return func(yield func(timeline.Object) bool) {
		for o := range env.Store.ObjectsIn(s.scope) {
			id := o.Base().ID
			if live, ok := s.g.overlay[id]; ok {
				o = live
			}
			if sel := s.selection.Has(id) && len(s.g.ghosts) == 0; o.Base().Selected != sel {
				o = timeline.Clone(o)
				o.Base().Selected = sel
			}
			if !yield(o) {
				return
			}
		}
		for _, o := range s.g.ghosts {
			if !yield(o) {
				return
			}
		}
		if s.g.created != nil {
			yield(s.g.created)
		}
	}
}

func (s *Session) live(env Env) timeline.Container {
	return objectsFunc(func() iter.Seq[timeline.Object] { return s.Objects(env) })
}

type objectsFunc func() iter.Seq[timeline.Object]

func (f objectsFunc) Objects() iter.Seq[timeline.Object] { return f() }

func storeContainer(st Store, ref timeline.ContainerRef) timeline.Container {
	return objectsFunc(func() iter.Seq[timeline.Object] { return st.ObjectsIn(ref) })
}

// index builds the spatial index of the live view.
func (s *Session) index(env Env) *Index {
	return NewIndex(s.view, env.Viewport, s.prefs, s.live(env))
}

// selected returns the objects of the selection from the store.
func (s *Session) selected(env Env) []timeline.Object {
	var ret []timeline.Object
	for _, id := range s.selection.ids {
		if o, ok := env.Store.Object(id); ok {
			ret = append(ret, o)
		}
	}
	return ret
}

func (s *Session) snapper(env Env) timeline.Snapper {
	return timeline.Snapper{Tempo: env.Tempo, Grid: env.Grid}
}

// snapContainer returns the objects whose edges are snapped to while
// dragging: the track under the pointer in the timeline, the region being
// edited in the other views, or the visible objects if the pointer is not
// over a track. Objects being dragged are left out.
func (s *Session) snapContainer(env Env, p Point) timeline.Container {
	keep := func(o timeline.Object) bool {
		id := o.Base().ID
		return !s.selection.Has(id) && !o.Base().TemporarilyDeleted
	}
	ref := s.scope
	if s.view == TimelineView {
		row, ok := env.Viewport.Row(env.Viewport.RowAt(p.Y))
		if !ok || row.Kind != TrackRow {
			start, end := env.Viewport.VisibleTicks()
			return timeline.Filter(storeContainer(env.Store, s.scope), func(o timeline.Object) bool {
				b, e := timeline.Bounds(o)
				return keep(o) && e.Ticks >= start && b.Ticks <= end
			})
		}
		ref = timeline.ContainerRef{Kind: timeline.TrackContainer, Track: row.Track}
	}
	return timeline.Filter(storeContainer(env.Store, ref), keep)
}

// alert shows the user message of err, titled by the action of the
// gesture, and logs it.
func (s *Session) alert(err error) {
	s.logger.Warn("gesture failed", zap.Stringer("action", s.g.action), zap.Error(err))
	alert := Alert{Name: "editor", Priority: Error, Message: UserMessage(err), Duration: defaultAlertDuration}
	if s.g.action != None {
		alert.Title = s.g.action.Title()
	}
	s.alerts.AddAlert(alert)
}
