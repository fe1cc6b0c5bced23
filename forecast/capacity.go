package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// ADVANCE CAPACITY TRACKER - Credit-line headroom per month
// =============================================================================

// CapacityReport describes invoice-discounting credit-line usage for one
// account in one calendar month. A negative AvailableCapacity means the
// ceiling is breached for that month - a reportable condition, not an
// error.
type CapacityReport struct {
	AccountID treasury.AccountID
	Month     Month

	// Sum of advances drawn but not yet reversed during the month.
	OpenAdvances decimal.Decimal

	// AdvanceCeiling - OpenAdvances. May be negative.
	AvailableCapacity decimal.Decimal
}

// Breached reports whether open advances exceed the ceiling.
func (c CapacityReport) Breached() bool {
	return c.AvailableCapacity.IsNegative()
}

// OpenAdvances sums the advances open during the given month.
//
// An advance is open when the receivable carries advance terms, is not
// folded at draw, was drawn on or before the last day of the month, and
// is either never reversed or reversed on or after the first day of the
// month. Folded advances are excluded regardless of dates: they consume
// ordinary balance, not the discounting ceiling. Settlement does not
// matter here - the advance window is defined by its own dates.
func OpenAdvances(receivables []treasury.Receivable, accountID treasury.AccountID, month Month) decimal.Decimal {
	first := month.First()
	last := month.Last()

	open := decimal.Zero
	for _, rec := range receivables {
		if rec.AccountID != accountID || !rec.HasAdvance() || rec.AdvanceFoldedAtDraw {
			continue
		}
		if rec.AdvanceDrawDate == nil || rec.AdvanceDrawDate.After(last) {
			continue
		}
		if rec.AdvanceReversalDate != nil && rec.AdvanceReversalDate.Before(first) {
			continue
		}
		open = open.Add(rec.AdvanceAmount)
	}
	return open
}

// Capacity computes the capacity report for one account and month.
func Capacity(account treasury.Account, receivables []treasury.Receivable, month Month) CapacityReport {
	open := OpenAdvances(receivables, account.ID, month)
	return CapacityReport{
		AccountID:         account.ID,
		Month:             month,
		OpenAdvances:      open,
		AvailableCapacity: account.AdvanceCeiling.Sub(open),
	}
}
