package treasury

import "context"

// =============================================================================
// DATA SOURCE - Read-only view the engine pulls records from
// =============================================================================

// DataSource is the storage contract the forecast engine depends on.
// The engine places no requirement on the storage technology; it only
// requires that the reads are consistent for the duration of one run.
// The caller is responsible for supplying a stable snapshot - the engine
// performs no locking.
type DataSource interface {
	// Account returns the account record for id.
	// Returns (nil, nil) when the account does not exist.
	Account(ctx context.Context, id AccountID) (*Account, error)

	// Accounts returns all known accounts, ordered by ID.
	Accounts(ctx context.Context) ([]Account, error)

	// Receivables returns every receivable for the account, settled or not.
	Receivables(ctx context.Context, accountID AccountID) ([]Receivable, error)

	// Payables returns every payable for the account, settled or not.
	Payables(ctx context.Context, accountID AccountID) ([]Payable, error)
}
