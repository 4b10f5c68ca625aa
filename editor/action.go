package editor

import (
	"github.com/vsariola/timeline"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Action is the state of the edit session. Actions named Starting... are
// entered on press and promoted to their dragging counterpart once the
// pointer has moved beyond the drag threshold.
type Action int

const (
	None Action = iota
	StartingSelection
	Selecting
	StartingDeleteSelection
	DeleteSelecting
	StartingErasing
	Erasing
	StartingMoving
	Moving
	MovingCopy
	MovingLink
	ResizingL
	ResizingR
	ResizingLLoop
	ResizingRLoop
	ResizingLFade
	ResizingRFade
	ResizingUp
	ResizingUpFadeIn
	ResizingUpFadeOut
	StretchingL
	StretchingR
	StartingPanning
	Panning
	StartingRamping
	Ramping
	Cutting
	Renaming
	StartingAuditioning
	Auditioning
	AutoFilling
	CreatingMoving
	CreatingResizingR
)

var actionNames = [...]string{
	None:                    "none",
	StartingSelection:       "starting selection",
	Selecting:               "selecting",
	StartingDeleteSelection: "starting delete selection",
	DeleteSelecting:         "delete selecting",
	StartingErasing:         "starting erasing",
	Erasing:                 "erasing",
	StartingMoving:          "starting moving",
	Moving:                  "moving",
	MovingCopy:              "copying",
	MovingLink:              "linking",
	ResizingL:               "resizing left",
	ResizingR:               "resizing right",
	ResizingLLoop:           "loop resizing left",
	ResizingRLoop:           "loop resizing right",
	ResizingLFade:           "resizing fade in",
	ResizingRFade:           "resizing fade out",
	ResizingUp:              "resizing up",
	ResizingUpFadeIn:        "bending fade in",
	ResizingUpFadeOut:       "bending fade out",
	StretchingL:             "stretching left",
	StretchingR:             "stretching right",
	StartingPanning:         "starting panning",
	Panning:                 "panning",
	StartingRamping:         "starting ramping",
	Ramping:                 "ramping",
	Cutting:                 "cutting",
	Renaming:                "renaming",
	StartingAuditioning:     "starting auditioning",
	Auditioning:             "auditioning",
	AutoFilling:             "autofilling",
	CreatingMoving:          "creating",
	CreatingResizingR:       "creating",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown action"
	}
	return actionNames[a]
}

// Title returns the name of the action in title case, for messages shown to
// the user.
func (a Action) Title() string {
	return cases.Title(language.English).String(a.String())
}

// resize returns the edge and variant of a horizontal resize action.
func (a Action) resize() (edge timeline.ResizeEdge, variant timeline.ResizeVariant, ok bool) {
	switch a {
	case ResizingL:
		return timeline.EdgeLeft, timeline.ResizePlain, true
	case ResizingR:
		return timeline.EdgeRight, timeline.ResizePlain, true
	case ResizingLLoop:
		return timeline.EdgeLeft, timeline.ResizeLoop, true
	case ResizingRLoop:
		return timeline.EdgeRight, timeline.ResizeLoop, true
	case ResizingLFade:
		return timeline.EdgeLeft, timeline.ResizeFade, true
	case ResizingRFade:
		return timeline.EdgeRight, timeline.ResizeFade, true
	case StretchingL:
		return timeline.EdgeLeft, timeline.ResizeStretch, true
	case StretchingR:
		return timeline.EdgeRight, timeline.ResizeStretch, true
	}
	return 0, 0, false
}

func resizeAction(edge timeline.ResizeEdge, variant timeline.ResizeVariant) Action {
	left := edge == timeline.EdgeLeft
	switch variant {
	case timeline.ResizeLoop:
		return pick(left, ResizingLLoop, ResizingRLoop)
	case timeline.ResizeFade:
		return pick(left, ResizingLFade, ResizingRFade)
	case timeline.ResizeStretch:
		return pick(left, StretchingL, StretchingR)
	}
	return pick(left, ResizingL, ResizingR)
}

func pick(cond bool, a, b Action) Action {
	if cond {
		return a
	}
	return b
}

func (a Action) moving() bool {
	return a == Moving || a == MovingCopy || a == MovingLink
}

func (a Action) fadeUp() bool {
	return a == ResizingUpFadeIn || a == ResizingUpFadeOut
}

// scrollAxes tells in which directions the editor scrolls automatically
// when the pointer is dragged near its border during the action.
func (a Action) scrollAxes() (horizontal, vertical bool) {
	switch a {
	case Moving, MovingCopy, MovingLink, CreatingMoving, Selecting, DeleteSelecting, Erasing, Ramping:
		return true, true
	case ResizingL, ResizingR, ResizingLLoop, ResizingRLoop, ResizingLFade, ResizingRFade,
		StretchingL, StretchingR, CreatingResizingR, AutoFilling, Auditioning:
		return true, false
	case ResizingUp:
		return false, true
	}
	return false, false
}
