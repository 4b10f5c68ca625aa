package editor

import (
	"github.com/vsariola/timeline"
)

// zone tells which part of an object the pointer was pressed on.
type zone struct {
	left, right  bool
	loop         bool
	fadeIn       bool // on the fade in handle
	fadeOut      bool
	fadeInOuter  bool // above the fade in curve
	fadeOutOuter bool
	rename       bool
	onCurve      bool
	top          bool
}

func (s *Session) zoneOf(env Env, h Hit, p Point, mods Modifiers) zone {
	var z zone
	o, r := h.Object, h.Rect
	caps := timeline.CapabilitiesOf(o)
	z.onCurve = h.OnCurve
	z.top = p.Y-r.TopLeft.Y < s.prefs.EdgeWidth
	if caps.HasLength {
		edge := s.prefs.EdgeWidth
		if r.Width() < 2*edge {
			edge = r.Width() / 2
		}
		z.left = p.X < r.TopLeft.X+edge
		z.right = !z.left && p.X > r.BottomRight.X-edge
	}
	upper := p.Y < r.TopLeft.Y+r.Height()/2
	if caps.CanLoop && !mods.Contain(ModCtrl) {
		audio := false
		if reg, ok := o.(*timeline.Region); ok {
			audio = reg.Kind == timeline.AudioRegion
		}
		z.loop = !upper || timeline.IsLooped(o) || (audio && env.Tool != StretchTool)
	}
	if reg, ok := o.(*timeline.Region); ok && caps.CanFade {
		ppt := env.Viewport.PixelsPerTick
		half := s.prefs.FadeHandleSize / 2
		inX := r.TopLeft.X + reg.FadeIn.Ticks*ppt
		outX := r.BottomRight.X - reg.FadeOut.Ticks*ppt
		nearTop := p.Y-r.TopLeft.Y <= s.prefs.FadeHandleSize
		z.fadeIn = nearTop && p.X >= inX-half && p.X <= inX+half
		z.fadeOut = nearTop && !z.fadeIn && p.X >= outX-half && p.X <= outX+half
		z.fadeInOuter = upper && p.X < inX
		z.fadeOutOuter = upper && p.X > outX
	}
	if name := nameOf(o); name != "" {
		width := float64(len(name)+2) * s.prefs.NameCharWidth
		z.rename = p.Y-r.TopLeft.Y < s.prefs.NameHeight && p.X-r.TopLeft.X < width && !z.left
	}
	return z
}

func nameOf(o timeline.Object) string {
	switch o := o.(type) {
	case *timeline.Region:
		return o.Name
	case *timeline.Marker:
		return o.Name
	}
	return ""
}

// actionFor decides what pressing on an object does.
func actionFor(o timeline.Object, z zone, tool Tool, mods Modifiers) Action {
	switch tool {
	case CutTool:
		if timeline.CapabilitiesOf(o).HasLength {
			return Cutting
		}
		return None
	case EraserTool:
		return StartingErasing
	case AuditionTool:
		return StartingAuditioning
	case RampTool:
		if _, ok := o.(*timeline.Velocity); ok {
			return StartingRamping
		}
		return None
	}
	stretch := tool == StretchTool
	switch o.(type) {
	case *timeline.Region:
		switch {
		case z.fadeIn && !stretch:
			return ResizingLFade
		case z.fadeOut && !stretch:
			return ResizingRFade
		case z.left && stretch:
			return StretchingL
		case z.right && stretch:
			return StretchingR
		case z.left && z.loop:
			return ResizingLLoop
		case z.left:
			return ResizingL
		case z.right && z.loop:
			return ResizingRLoop
		case z.right:
			return ResizingR
		case z.rename:
			return Renaming
		case mods.Contain(ModAlt) && tool == SelectTool:
			return Cutting
		case z.fadeInOuter:
			return ResizingUpFadeIn
		case z.fadeOutOuter:
			return ResizingUpFadeOut
		}
		return StartingMoving
	case *timeline.MidiNote:
		switch {
		case z.left:
			return pick(stretch, StretchingL, ResizingL)
		case z.right:
			return pick(stretch, StretchingR, ResizingR)
		case mods.Contain(ModAlt) && tool == SelectTool:
			return Cutting
		}
		return StartingMoving
	case *timeline.AutomationPoint:
		if z.onCurve {
			return ResizingUp
		}
		return StartingMoving
	case *timeline.Velocity:
		if z.top {
			return ResizingUp
		}
		return None
	case *timeline.Marker:
		if z.rename {
			return Renaming
		}
		return StartingMoving
	}
	return StartingMoving
}

// narrow adjusts the action chosen for the hit object so that it is
// possible for every object of the prospective selection, or rejects the
// gesture. A rejection returns the action that was refused.
func (s *Session) narrow(a Action, z zone, sel []timeline.Object, hit timeline.Object, env Env, mods Modifiers) (Action, error) {
	all := func(f func(timeline.Capabilities) bool) bool {
		for _, o := range sel {
			if !f(timeline.CapabilitiesOf(o)) {
				return false
			}
		}
		return true
	}
	if (a == ResizingLFade || a == ResizingRFade || a.fadeUp()) && !all(func(c timeline.Capabilities) bool { return c.CanFade }) {
		z.fadeIn, z.fadeOut, z.fadeInOuter, z.fadeOutOuter = false, false, false, false
		a = actionFor(hit, z, env.Tool, mods)
	}
	edge, variant, ok := a.resize()
	if !ok {
		return a, nil
	}
	if !all(func(c timeline.Capabilities) bool { return c.HasLength }) {
		return a, reject(ErrResizeWithoutLength, a, "Cannot resize because the selection contains objects without length.")
	}
	canLoop := all(func(c timeline.Capabilities) bool { return c.CanLoop })
	switch variant {
	case timeline.ResizeLoop:
		if !canLoop {
			return resizeAction(edge, timeline.ResizePlain), nil
		}
	case timeline.ResizePlain:
		anyLooped := false
		for _, o := range sel {
			anyLooped = anyLooped || timeline.IsLooped(o)
		}
		if anyLooped {
			if !canLoop {
				return a, reject(ErrLoopMismatch, a, "Cannot resize because the selection contains a mix of looped and unloopable objects.")
			}
			if s.prefs.LoopPromotion {
				return resizeAction(edge, timeline.ResizeLoop), nil
			}
		}
	}
	return a, nil
}
