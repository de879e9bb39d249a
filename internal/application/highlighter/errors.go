package highlighter

import (
	"errors"
	"fmt"

	"github.com/bnema/linkmark/internal/application/port"
)

var (
	// ErrHistoryTimeout is returned when the history store does not answer in time.
	ErrHistoryTimeout = errors.New("history lookup timed out")

	// ErrMissingDependency is returned by NewSession when a required port is nil.
	ErrMissingDependency = errors.New("highlighter: missing dependency")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("highlighter: session already started")

	// ErrNotRunning is returned by control calls on a session that is not ready.
	ErrNotRunning = errors.New("highlighter: session not running")

	// ErrNoReceiver means no session is attached to a dispatcher. Callers
	// treat it as "not applicable on this page", not as a failure.
	ErrNoReceiver = errors.New("highlighter: no session attached")

	// ErrUnknownAction is returned for control messages nobody handles.
	ErrUnknownAction = errors.New("highlighter: unknown action")
)

// HistoryStoreError wraps a failure reported by the history store.
type HistoryStoreError struct {
	Err error
}

func (e *HistoryStoreError) Error() string {
	return fmt.Sprintf("history store: %v", e.Err)
}

func (e *HistoryStoreError) Unwrap() error { return e.Err }

// PresentationError reports a failed DOM mutation on one link.
type PresentationError struct {
	Element port.ElementID
	Op      string
	Err     error
}

func (e *PresentationError) Error() string {
	return fmt.Sprintf("present element %d: %s: %v", e.Element, e.Op, e.Err)
}

func (e *PresentationError) Unwrap() error { return e.Err }
