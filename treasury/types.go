/*
Package treasury defines the data model for the liquidity-forecasting engine.

PURPOSE:
  This package holds the records the engine computes over: bank accounts
  with their credit lines, outstanding receivables (optionally carrying
  invoice-discounting advance terms), and outstanding payables. The
  forecast package consumes these as immutable snapshots; nothing here
  mutates after being loaded.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: identity + current balance + the two credit-line ceilings
  - Receivable: an invoice we expect to collect, with optional advance legs
  - Payable: an invoice we expect to pay
  - Typed IDs: AccountID, ReceivableID, PayableID

DESIGN PRINCIPLES:
  1. Precision: all money is decimal.Decimal, never float
  2. Snapshot semantics: records are value types, copied freely
  3. Authoritative source data: illogical dates or flags are carried
     as-is; the engine processes them literally and surfaces the result

SEE ALSO:
  - source.go: the read-only DataSource the engine pulls records from
  - forecast/: the pipeline that turns these records into projections
*/
package treasury

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AccountID string
type ReceivableID string
type PayableID string

// =============================================================================
// MONEY HELPERS
// =============================================================================

// MustMoney parses a decimal amount, returning zero on malformed input.
// Intended for literals in tests and scenario seeds.
func MustMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Date constructs a UTC day-granularity time, the canonical form for all
// due/draw/reversal/settlement dates in this model.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// ACCOUNT - Bank account with credit lines
// =============================================================================

// Account is a bank account snapshot. Immutable for the duration of one
// forecast run; owned by external storage.
type Account struct {
	ID   AccountID
	Name string

	// Balance as of the snapshot. Seeds the running-balance projection.
	CurrentBalance decimal.Decimal

	// Maximum total of simultaneously open invoice-discounting advances.
	AdvanceCeiling decimal.Decimal

	// Maximum negative balance tolerated before the account is over its
	// facility. Reported against, never enforced.
	OverdraftCeiling decimal.Decimal
}

// =============================================================================
// RECEIVABLE - Invoice expected to be collected
// =============================================================================

// Receivable is an issued invoice. When AdvanceAmount is positive the
// invoice has been (or will be) partially financed through invoice
// discounting: cash is drawn early at AdvanceDrawDate and the advance is
// reversed at AdvanceReversalDate when the invoice is formally collected.
//
// The fold flags mark advance legs that are already reflected in the
// account's ordinary balance. A folded leg must not generate a separate
// projected event, and a receivable folded at draw does not consume the
// discounting ceiling.
type Receivable struct {
	ID               ReceivableID
	AccountID        AccountID
	CounterpartyName string
	InvoiceAmount    decimal.Decimal
	DueDate          time.Time
	Settled          bool
	SettledDate      *time.Time

	AdvanceAmount           decimal.Decimal
	AdvanceDrawDate         *time.Time
	AdvanceReversalDate     *time.Time
	AdvanceFoldedAtDraw     bool
	AdvanceFoldedAtReversal bool
}

// HasAdvance reports whether the receivable carries advance terms.
func (r Receivable) HasAdvance() bool {
	return r.AdvanceAmount.IsPositive()
}

// Outstanding reports whether the receivable still has a future cash
// effect. Settlement is purely an exclusion filter: a settled invoice
// produces no events regardless of its dates.
func (r Receivable) Outstanding() bool {
	return !r.Settled
}

// =============================================================================
// PAYABLE - Invoice expected to be paid
// =============================================================================

type Payable struct {
	ID               PayableID
	AccountID        AccountID
	CounterpartyName string
	Amount           decimal.Decimal
	DueDate          time.Time
	Settled          bool
	SettledDate      *time.Time
}

// Outstanding reports whether the payable still has a future cash effect.
func (p Payable) Outstanding() bool {
	return !p.Settled
}
