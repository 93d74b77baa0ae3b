package store

import (
	"errors"
	"fmt"
)

// ErrGameNotFound reports an operation naming a game id the store does
// not track.
var ErrGameNotFound = errors.New("game not found")

// PersistenceError wraps a failure from the archive collaborator during
// finalize. The in-memory completed transition is not rolled back; the
// caller decides whether to retry the archive hand-off.
type PersistenceError struct {
	GameID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("archive finalized game %s: %v", e.GameID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// AsPersistenceError attempts to unwrap an error into a PersistenceError.
func AsPersistenceError(err error) (*PersistenceError, bool) {
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
