package services

import (
	"errors"
	"log"
)

var (
	// ErrAmountOutOfRange rejects a payment amount that is not positive or
	// exceeds the transaction's remaining balance. Surfaced inline by the
	// UI; the operation has no side effects when this is returned.
	ErrAmountOutOfRange = errors.New("amount out of range")

	// ErrValidationRejected marks a request missing a required field or
	// carrying an unknown enum value.
	ErrValidationRejected = errors.New("validation rejected")
)

// Cache invalidation failures after a committed write are logged, not
// returned: the database is already consistent and the stale keys expire.
func logCacheError(err error) {
	log.Printf("Failed to invalidate cache: %v", err)
}
