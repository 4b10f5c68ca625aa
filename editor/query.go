package editor

import (
	"math"
	"slices"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/timeline"
)

type (
	// Index answers spatial queries over the objects of a container as laid
	// out in a view. Frozen and temporarily deleted objects, and objects the
	// view does not accept, are left out.
	Index struct {
		view    View
		vp      *Viewport
		prefs   Preferences
		entries []entry
		// scratch buffers for curve hit testing
		xs, ys []float32
	}

	entry struct {
		obj  timeline.Object
		rect Rect
		// start and end span the ticks the entry can be hit at; for
		// automation points this reaches until the next point
		start, end float64
		next       int
	}

	// Hit is the result of a point query. OnCurve is set when an automation
	// point was hit on the curve following it rather than on its handle.
	Hit struct {
		Object  timeline.Object
		Rect    Rect
		OnCurve bool
	}
)

func NewIndex(view View, vp *Viewport, prefs Preferences, c timeline.Container) *Index {
	x := &Index{view: view, vp: vp, prefs: prefs}
	if c == nil {
		return x
	}
	for o := range c.Objects() {
		b := o.Base()
		if b.Frozen || b.TemporarilyDeleted {
			continue
		}
		r, ok := vp.Rect(view, o)
		if !ok {
			continue
		}
		start, end := timeline.Bounds(o)
		// point objects are drawn wider than their ticks span
		x.entries = append(x.entries, entry{
			obj:   o,
			rect:  r,
			start: math.Min(start.Ticks, vp.TicksAt(r.TopLeft.X)),
			end:   math.Max(end.Ticks, vp.TicksAt(r.BottomRight.X)),
			next:  -1,
		})
	}
	if view == AutomationView {
		x.linkCurves()
	}
	return x
}

func (x *Index) linkCurves() {
	order := make([]int, len(x.entries))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return x.entries[a].obj.Base().Start.Compare(x.entries[b].obj.Base().Start)
	})
	for k := 0; k+1 < len(order); k++ {
		e := &x.entries[order[k]]
		e.next = order[k+1]
		e.end = math.Max(e.end, x.entries[e.next].start)
	}
}

// Len returns the number of objects in the index.
func (x *Index) Len() int { return len(x.entries) }

// reject is the cheap test done before comparing rectangles: entries that
// end before the range or start well after it are skipped. The look-behind
// accounts for handles and labels drawn left of the start.
func (x *Index) reject(e *entry, start, end float64) bool {
	lookBehind := x.prefs.LookBehind / x.vp.PixelsPerTick
	return e.end+lookBehind < start || e.start-lookBehind > end
}

// ObjectsOverlapping returns the objects within the ticks range from start
// to end whose rectangle intersects r. r is in content coordinates.
func (x *Index) ObjectsOverlapping(start, end timeline.Position, r Rect) []timeline.Object {
	r = RectFrom(r.TopLeft, r.BottomRight)
	var ret []timeline.Object
	for i := range x.entries {
		e := &x.entries[i]
		if x.reject(e, start.Ticks, end.Ticks) || !e.rect.Intersects(r) {
			continue
		}
		ret = append(ret, e.obj)
	}
	return ret
}

// ObjectsInRect is ObjectsOverlapping with the ticks range derived from r.
func (x *Index) ObjectsInRect(r Rect) []timeline.Object {
	r = RectFrom(r.TopLeft, r.BottomRight)
	start := x.vp.TicksAt(r.TopLeft.X)
	end := x.vp.TicksAt(r.BottomRight.X)
	return x.ObjectsOverlapping(timeline.Position{Ticks: start}, timeline.Position{Ticks: end}, r)
}

// BestHitAt returns the object under p, which is in content coordinates.
// When several objects are under p, the one drawn last wins.
func (x *Index) BestHitAt(p Point) (timeline.Object, bool) {
	h, ok := x.HitAt(p)
	return h.Object, ok
}

// HitAt is like BestHitAt, but tells also where the object was hit. Handles
// of automation points take precedence over the curves between them.
func (x *Index) HitAt(p Point) (Hit, bool) {
	ticks := x.vp.TicksAt(p.X)
	for i := len(x.entries) - 1; i >= 0; i-- {
		e := &x.entries[i]
		if !x.reject(e, ticks, ticks) && e.rect.Contains(p) {
			return Hit{Object: e.obj, Rect: e.rect}, true
		}
	}
	for i := len(x.entries) - 1; i >= 0; i-- {
		e := &x.entries[i]
		if e.next >= 0 && !x.reject(e, ticks, ticks) && x.curveHit(e, p) {
			return Hit{Object: e.obj, Rect: e.rect, OnCurve: true}, true
		}
	}
	return Hit{}, false
}

// curveHit samples the curve from the automation point of e to the next one
// and reports whether p is within the curve tolerance of any sample.
func (x *Index) curveHit(e *entry, p Point) bool {
	a, ok := e.obj.(*timeline.AutomationPoint)
	if !ok {
		return false
	}
	b, ok := x.entries[e.next].obj.(*timeline.AutomationPoint)
	if !ok {
		return false
	}
	x0, x1 := x.vp.XAt(a.Start.Ticks), x.vp.XAt(b.Start.Ticks)
	tol := x.prefs.CurveTolerance
	if p.X < x0-tol || p.X > x1+tol {
		return false
	}
	n := max(x.prefs.CurveSamples, 2)
	if cap(x.xs) < n {
		x.xs = make([]float32, n)
		x.ys = make([]float32, n)
	}
	xs, ys := x.xs[:n], x.ys[:n]
	for k := range n {
		t := float64(k) / float64(n-1)
		v := a.Value + (b.Value-a.Value)*CurveAt(t, a.Curviness)
		xs[k] = float32(x0 + t*(x1-x0))
		ys[k] = float32((1 - v) * x.vp.LaneHeight)
	}
	vek32.SubNumber_Inplace(xs, float32(p.X))
	vek32.SubNumber_Inplace(ys, float32(p.Y))
	vek32.Mul_Inplace(xs, xs)
	vek32.Mul_Inplace(ys, ys)
	vek32.Add_Inplace(xs, ys)
	return float64(vek32.Min(xs)) <= tol*tol
}

// CurveAt returns the shape of an automation curve with the given curviness
// at t in [0, 1]. Zero curviness is a straight line.
func CurveAt(t, curviness float64) float64 {
	c := math.Max(-0.99, math.Min(0.99, curviness))
	return math.Pow(t, (1+c)/(1-c))
}

// All returns every object in the index, in drawing order.
func (x *Index) All() []timeline.Object {
	ret := make([]timeline.Object, len(x.entries))
	for i, e := range x.entries {
		ret[i] = e.obj
	}
	return ret
}
