// Package gioinput connects an edit session to gio pointer and key events.
package gioinput

import (
	"image"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"github.com/vsariola/timeline/editor"
)

type (
	C = layout.Context
	D = layout.Dimensions

	// Input feeds the events of one widget area to an edit session. Only one
	// pointer drives a gesture at a time.
	Input struct {
		Session *editor.Session

		pressed   bool
		pointerID pointer.ID
		clicks    int
		lastPress time.Duration
		lastPos   f32.Point
	}
)

const (
	doubleClickTime     = 400 * time.Millisecond
	doubleClickDistance = 4
)

// Layout handles the events queued for the input and registers the area for
// the next frame. Rejected gestures are already shown to the user as alerts
// of the session, so their errors are not returned.
func (in *Input) Layout(gtx C, env editor.Env) D {
	filters := make([]event.Filter, 0, len(keyFilters)+1)
	filters = append(filters, pointer.Filter{Target: in, Kinds: pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel})
	for _, f := range keyFilters {
		f.Focus = in
		filters = append(filters, f)
	}
	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		switch e := ev.(type) {
		case pointer.Event:
			if e.Kind == pointer.Press {
				gtx.Execute(key.FocusCmd{Tag: in})
			}
			in.Pointer(env, e)
		case key.Event:
			in.Key(env, e)
		}
	}
	rect := image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)
	area := clip.Rect(rect).Push(gtx.Ops)
	event.Op(gtx.Ops, in)
	area.Pop()
	return D{Size: rect.Max}
}

// Pointer translates a pointer event to the session. Positions are relative
// to the widget.
func (in *Input) Pointer(env editor.Env, e pointer.Event) error {
	p := editor.Point{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	mods := modifiers(e.Modifiers)
	switch e.Kind {
	case pointer.Press:
		if in.pressed {
			return nil
		}
		in.pressed, in.pointerID = true, e.PointerID
		in.countClick(e)
		return in.Session.Begin(env, editor.Press{Point: p, Button: button(e.Buttons), Modifiers: mods, Clicks: in.clicks})
	case pointer.Drag:
		if in.pressed && e.PointerID == in.pointerID {
			in.Session.Update(env, editor.Motion{Point: p, Modifiers: mods})
		}
	case pointer.Release:
		if in.pressed && e.PointerID == in.pointerID {
			in.pressed = false
			return in.Session.End(env, editor.Release{Point: p, Modifiers: mods})
		}
	case pointer.Cancel:
		if in.pressed {
			in.pressed = false
			in.Session.Key(env, editor.KeyEvent{Key: editor.KeyEscape})
			return in.Session.End(env, editor.Release{Point: p})
		}
	}
	return nil
}

// Key translates a bound key press to the session.
func (in *Input) Key(env editor.Env, e key.Event) error {
	if e.State != key.Press {
		return nil
	}
	action, ok := keyBindingMap[e]
	if !ok {
		return nil
	}
	k, ok := actionKeys[action]
	if !ok {
		return nil
	}
	return in.Session.Key(env, k)
}

func (in *Input) countClick(e pointer.Event) {
	d := e.Position.Sub(in.lastPos)
	near := math.Hypot(float64(d.X), float64(d.Y)) <= doubleClickDistance
	if in.clicks > 0 && near && e.Time-in.lastPress <= doubleClickTime {
		in.clicks++
	} else {
		in.clicks = 1
	}
	in.lastPress, in.lastPos = e.Time, e.Position
}

func button(b pointer.Buttons) editor.Button {
	switch {
	case b.Contain(pointer.ButtonSecondary):
		return editor.SecondaryButton
	case b.Contain(pointer.ButtonTertiary):
		return editor.MiddleButton
	}
	return editor.PrimaryButton
}

func modifiers(m key.Modifiers) editor.Modifiers {
	var ret editor.Modifiers
	if m.Contain(key.ModShift) {
		ret |= editor.ModShift
	}
	if m.Contain(key.ModShortcut) {
		ret |= editor.ModCtrl
	}
	if m.Contain(key.ModAlt) {
		ret |= editor.ModAlt
	}
	return ret
}
