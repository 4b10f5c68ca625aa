// Package editor implements the pointer and keyboard interaction of the
// arranger editors: the timeline, the piano roll, the automation, chord and
// velocity editors.
//
// A Session is a state machine driven by Begin, Update and End, which are
// called on pointer press, drag and release, and Key, which is called on
// key presses. While a gesture is in progress, the objects being edited are
// clones kept by the session; the store is only changed when the gesture
// ends, by handing a single timeline.Intent to an Executor. Pressing escape
// during a gesture drops the clones and restores the selection.
//
// The session does not draw anything. Renderers read the live view of the
// objects from Session.Objects and the gesture state from Session.Action,
// Session.Highlight and Session.Range.
package editor
