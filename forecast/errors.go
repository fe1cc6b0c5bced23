/*
errors.go - Error types for the forecast engine

PURPOSE:
  Only structural failures abort a forecast run: an unknown account or a
  failing data source. Business-level conditions - overdraft usage,
  advance-ceiling breach, illogical record dates - are data carried in
  the output structures, never errors.

USAGE:
  Callers branch with errors.Is / the helpers below:

    if forecast.IsNotFound(err) {
        // 404, caller error - do not retry
    }
*/
package forecast

import (
	"errors"
	"fmt"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountNotFound is returned when a forecast is requested for an
	// unknown account id. Caller error, not retried.
	ErrAccountNotFound = errors.New("account not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AccountNotFoundError identifies which account id was unknown.
type AccountNotFoundError struct {
	AccountID treasury.AccountID
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.AccountID)
}

func (e *AccountNotFoundError) Unwrap() error {
	return ErrAccountNotFound
}

// IsNotFound returns true if the error indicates a missing account.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}
