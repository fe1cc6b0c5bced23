/*
monthly.go - Calendar-month aggregation with carry-forward balances

PURPOSE:
  Buckets a projected timeline into calendar months, sums inflows and
  payments per month, and carries each month's closing balance forward
  as the next month's opening balance. Capacity figures from the advance
  tracker are attached per month so the consolidated pivot can report
  credit-line headroom alongside cash movements.

INVARIANTS:
  closing = opening + inflow - payments
  opening(month N+1) = closing(month N)
  opening(first month) = account.CurrentBalance (plus any events folded
  in by an explicit horizon lower bound, see Aggregate)

SEE ALSO:
  - projector.go: produces the annotated timeline consumed here
  - capacity.go: per-month credit-line figures
  - consolidate.go: cross-account union of these buckets
*/
package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// MONTHLY BUCKET - One account-month of aggregated movement
// =============================================================================

// DetailLine is the drill-down record behind an aggregate figure. Amount
// keeps the event's sign so a caller can re-derive the aggregates.
type DetailLine struct {
	Date     Month
	On       string // ISO day the movement falls on
	Kind     EventKind
	Label    string
	SourceID string
	Amount   decimal.Decimal
}

// MonthlyBucket aggregates one calendar month for one account.
type MonthlyBucket struct {
	AccountID treasury.AccountID
	Month     Month

	OpeningBalance decimal.Decimal
	Inflow         decimal.Decimal
	Payments       decimal.Decimal
	ClosingBalance decimal.Decimal

	// max(0, -ClosingBalance): how deep into the overdraft line the
	// account sits at month end.
	OverdraftUsed decimal.Decimal

	// Advance credit-line figures for the month.
	OpenAdvances      decimal.Decimal
	AvailableCapacity decimal.Decimal

	// Drill-down detail, inflow and payment side kept separate so a
	// caller can expand either independently.
	InflowLines  []DetailLine
	PaymentLines []DetailLine
}

// =============================================================================
// MONTHLY AGGREGATOR
// =============================================================================

// Aggregate buckets the timeline into calendar months over the derived
// horizon (earliest event month through latest event month), clamped by
// the optional explicit bounds. An empty timeline yields no buckets.
//
// When a lower bound cuts off earlier events, their net effect is folded
// into the first month's opening balance so balance continuity holds at
// the horizon edge. Events beyond an upper bound are ignored.
func Aggregate(account treasury.Account, timeline Timeline, receivables []treasury.Receivable, fromBound, toBound *Month) []MonthlyBucket {
	if len(timeline.Events) == 0 {
		return nil
	}

	derived := Horizon{
		From: MonthOf(timeline.Events[0].Date),
		To:   MonthOf(timeline.Events[len(timeline.Events)-1].Date),
	}
	horizon := derived.Clamp(fromBound, toBound)
	if horizon.To.Before(horizon.From) {
		return nil
	}

	opening := timeline.OpeningBalance
	for _, e := range timeline.Events {
		if MonthOf(e.Date).Before(horizon.From) {
			opening = opening.Add(e.Amount)
		}
	}

	var buckets []MonthlyBucket
	for _, month := range horizon.Months() {
		bucket := MonthlyBucket{
			AccountID:      account.ID,
			Month:          month,
			OpeningBalance: opening,
			Inflow:         decimal.Zero,
			Payments:       decimal.Zero,
		}

		for _, e := range timeline.Events {
			if !month.Contains(e.Date) {
				continue
			}
			line := DetailLine{
				Date:     month,
				On:       e.Date.Format("2006-01-02"),
				Kind:     e.Kind,
				Label:    e.Label,
				SourceID: e.SourceID,
				Amount:   e.Amount,
			}
			if e.Amount.IsNegative() {
				bucket.Payments = bucket.Payments.Add(e.Amount.Abs())
				bucket.PaymentLines = append(bucket.PaymentLines, line)
			} else {
				bucket.Inflow = bucket.Inflow.Add(e.Amount)
				bucket.InflowLines = append(bucket.InflowLines, line)
			}
		}

		bucket.ClosingBalance = bucket.OpeningBalance.Add(bucket.Inflow).Sub(bucket.Payments)
		bucket.OverdraftUsed = overdraftUsed(bucket.ClosingBalance)

		capacity := Capacity(account, receivables, month)
		bucket.OpenAdvances = capacity.OpenAdvances
		bucket.AvailableCapacity = capacity.AvailableCapacity

		buckets = append(buckets, bucket)
		opening = bucket.ClosingBalance
	}
	return buckets
}

func overdraftUsed(closing decimal.Decimal) decimal.Decimal {
	if closing.IsNegative() {
		return closing.Neg()
	}
	return decimal.Zero
}
