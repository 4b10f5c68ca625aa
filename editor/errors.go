package editor

import (
	"errors"
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

const (
	// Rejected tags errors of gestures refused on press; nothing was changed.
	Rejected ftag.Kind = "rejected"
	// CommitFailed tags errors returned by the executor at the end of a
	// gesture.
	CommitFailed ftag.Kind = "commit_failed"
)

var (
	ErrResizeWithoutLength = errors.New("resize of objects without length")
	ErrLoopMismatch        = errors.New("resize of looped and unloopable objects")
	ErrGestureActive       = errors.New("gesture already in progress")
	ErrUndeletable         = errors.New("selection contains undeletable objects")
)

func reject(err error, a Action, userMessage string) error {
	return fault.Wrap(err,
		fmsg.WithDesc(a.String(), userMessage),
		ftag.With(Rejected),
	)
}

func commitFailed(err error, name string) error {
	return fault.Wrap(err,
		fmsg.WithDesc(fmt.Sprintf("commit %s", name), fmt.Sprintf("Could not %s the selection.", name)),
		ftag.With(CommitFailed),
	)
}

// UserMessage returns the message of err meant to be shown to the user.
func UserMessage(err error) string {
	if msg := fmsg.GetIssue(err); msg != "" {
		return msg
	}
	return err.Error()
}
