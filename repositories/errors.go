package repositories

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Record store failure taxonomy. Callers classify with errors.Is; the
// handlers translate these into HTTP statuses.
var (
	// ErrNotFound marks a stale reference to a deleted or unknown record.
	ErrNotFound = stderrors.New("record not found")
	// ErrStoreUnavailable marks a backing-service failure. Recoverable;
	// retries are user-initiated, never automatic.
	ErrStoreUnavailable = stderrors.New("record store unavailable")
)

// storeError maps a gorm error onto the store taxonomy, keeping the
// original failure in the message.
func storeError(op string, err error) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, op)
	}
	return errors.Wrapf(ErrStoreUnavailable, "%s: %v", op, err)
}
