/*
consolidate.go - Cross-account month x category pivot

PURPOSE:
  Runs the union of all accounts' monthly horizons and produces, for each
  month and reporting category, the per-account value and the group
  total. Per-account monthly buckets (with their drill-down lines) are
  retained so a reporting layer can expand any cell.

DESIGN DECISIONS:
  - Credit lines stay account-local: the OverdraftUsed total is a plain
    sum across accounts. A surplus on one account is never netted against
    an overdraft on another.
  - Months an account has no movement in are synthesized as zero-movement
    buckets carrying the account's own prior closing balance (or its
    current balance when no prior month exists for it yet).

SEE ALSO:
  - monthly.go: the per-account buckets consolidated here
  - engine.go: drives per-account aggregation and calls Consolidate
*/
package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// CATEGORIES - Rows of the consolidated pivot
// =============================================================================

type Category string

const (
	CategoryAdvancedInvoices  Category = "advanced_invoice_amount"
	CategoryAvailableCapacity Category = "available_advance_capacity"
	CategoryOpeningBalance    Category = "opening_balance"
	CategoryInflow            Category = "inflow"
	CategoryPayments          Category = "payments"
	CategoryClosingBalance    Category = "closing_balance"
	CategoryOverdraftUsed     Category = "overdraft_used"
)

// Categories returns the pivot rows in presentation order.
func Categories() []Category {
	return []Category{
		CategoryAdvancedInvoices,
		CategoryAvailableCapacity,
		CategoryOpeningBalance,
		CategoryInflow,
		CategoryPayments,
		CategoryClosingBalance,
		CategoryOverdraftUsed,
	}
}

// =============================================================================
// PIVOT - month x category matrix with per-account breakdown
// =============================================================================

// AccountValue is one account's contribution to a pivot cell. Kept as an
// ordered slice rather than a map so serialized output is reproducible.
type AccountValue struct {
	AccountID treasury.AccountID
	Value     decimal.Decimal
}

// PivotCell holds the per-account breakdown and the cross-account total
// for one month and category. Invariant: Total equals the sum of the
// per-account values.
type PivotCell struct {
	PerAccount []AccountValue
	Total      decimal.Decimal
}

// PivotMonth is one column of the pivot.
type PivotMonth struct {
	Month Month
	Cells map[Category]PivotCell
}

// Pivot is the consolidated forecast: built fresh on every request,
// never persisted, always a full recompute from source records.
type Pivot struct {
	AccountIDs []treasury.AccountID
	Months     []PivotMonth

	// Per-account monthly buckets over the union horizon, including the
	// synthesized zero-movement months, for drill-down and export.
	Series map[treasury.AccountID][]MonthlyBucket
}

// =============================================================================
// CONSOLIDATOR
// =============================================================================

// AccountSeries is the per-account input to consolidation: the account,
// its aggregated buckets, and its receivables (needed to compute advance
// capacity for union months outside the account's own horizon).
type AccountSeries struct {
	Account     treasury.Account
	Buckets     []MonthlyBucket
	Receivables []treasury.Receivable
}

// Consolidate merges the per-account series into the consolidated pivot.
// Accounts are reported in the order given; callers pass a deterministic
// order (the engine sorts by account ID).
func Consolidate(series []AccountSeries) Pivot {
	pivot := Pivot{
		AccountIDs: make([]treasury.AccountID, 0, len(series)),
		Series:     make(map[treasury.AccountID][]MonthlyBucket, len(series)),
	}

	var horizon Horizon
	haveHorizon := false
	for _, s := range series {
		pivot.AccountIDs = append(pivot.AccountIDs, s.Account.ID)
		if len(s.Buckets) == 0 {
			continue
		}
		accountHorizon := Horizon{From: s.Buckets[0].Month, To: s.Buckets[len(s.Buckets)-1].Month}
		horizon, haveHorizon = horizon.union(accountHorizon, haveHorizon, true)
	}
	if !haveHorizon {
		return pivot
	}

	// Extend every account's series across the union horizon, then sum.
	extended := make([][]MonthlyBucket, len(series))
	for i, s := range series {
		extended[i] = extendSeries(s, horizon)
		pivot.Series[s.Account.ID] = extended[i]
	}

	months := horizon.Months()
	pivot.Months = make([]PivotMonth, 0, len(months))
	for mi, month := range months {
		column := PivotMonth{Month: month, Cells: make(map[Category]PivotCell, len(Categories()))}
		for _, category := range Categories() {
			cell := PivotCell{PerAccount: make([]AccountValue, 0, len(series)), Total: decimal.Zero}
			for si, s := range series {
				value := categoryValue(extended[si][mi], category)
				cell.PerAccount = append(cell.PerAccount, AccountValue{AccountID: s.Account.ID, Value: value})
				cell.Total = cell.Total.Add(value)
			}
			column.Cells[category] = cell
		}
		pivot.Months = append(pivot.Months, column)
	}
	return pivot
}

// extendSeries fills the union horizon with the account's own buckets
// where they exist and zero-movement carry buckets elsewhere.
func extendSeries(s AccountSeries, horizon Horizon) []MonthlyBucket {
	byMonth := make(map[Month]MonthlyBucket, len(s.Buckets))
	for _, b := range s.Buckets {
		byMonth[b.Month] = b
	}

	carry := s.Account.CurrentBalance
	var out []MonthlyBucket
	for _, month := range horizon.Months() {
		bucket, ok := byMonth[month]
		if !ok {
			capacity := Capacity(s.Account, s.Receivables, month)
			bucket = MonthlyBucket{
				AccountID:         s.Account.ID,
				Month:             month,
				OpeningBalance:    carry,
				Inflow:            decimal.Zero,
				Payments:          decimal.Zero,
				ClosingBalance:    carry,
				OverdraftUsed:     overdraftUsed(carry),
				OpenAdvances:      capacity.OpenAdvances,
				AvailableCapacity: capacity.AvailableCapacity,
			}
		}
		out = append(out, bucket)
		carry = bucket.ClosingBalance
	}
	return out
}

func categoryValue(b MonthlyBucket, category Category) decimal.Decimal {
	switch category {
	case CategoryAdvancedInvoices:
		return b.OpenAdvances
	case CategoryAvailableCapacity:
		return b.AvailableCapacity
	case CategoryOpeningBalance:
		return b.OpeningBalance
	case CategoryInflow:
		return b.Inflow
	case CategoryPayments:
		return b.Payments
	case CategoryClosingBalance:
		return b.ClosingBalance
	case CategoryOverdraftUsed:
		return b.OverdraftUsed
	default:
		return decimal.Zero
	}
}
