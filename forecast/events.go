/*
Package forecast implements the treasury liquidity-forecasting pipeline.

PURPOSE:
  Given a snapshot of bank accounts with their outstanding receivables
  and payables, the pipeline reconstructs a forward-looking timeline of
  expected cash movements, computes running balances with overdraft
  detection, tracks invoice-discounting credit-line usage, aggregates
  everything into calendar-month buckets with carry-forward balances,
  and consolidates the buckets across accounts into a month-by-category
  pivot with per-account breakdowns.

PIPELINE:
  records -> Generate (events.go)
          -> Project (projector.go)
          -> Aggregate (monthly.go)   [capacity.go feeds per-month figures]
          -> Consolidate (consolidate.go)

KEY CONCEPTS IN THIS FILE (events.go):
  - EventKind: Collection, Payment, AdvanceDrawdown, AdvanceReversal
  - Event: a dated, signed cash movement (positive = inflow)
  - Generate: turns unsettled records into events per the domain rules

DESIGN PRINCIPLES:
  1. Pure functions over explicit snapshots - no clock reads, no storage
  2. Business conditions (overdraft, ceiling breach) are data, not errors
  3. Determinism: identical inputs produce byte-identical outputs

SEE ALSO:
  - projector.go: chronological ordering + running balances
  - monthly.go: calendar-month aggregation with carry-forward
  - consolidate.go: cross-account pivot
*/
package forecast

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// EVENT - A dated, signed expected cash movement
// =============================================================================

type EventKind string

const (
	// KindCollection is the full invoice value received at its due date.
	KindCollection EventKind = "collection"

	// KindPayment is an outgoing settlement of a payable at its due date.
	KindPayment EventKind = "payment"

	// KindAdvanceDrawdown is the early cash draw against a discounted
	// invoice. Not emitted when the draw is folded into the ordinary
	// balance.
	KindAdvanceDrawdown EventKind = "advance_drawdown"

	// KindAdvanceReversal is the debit closing out an advance when the
	// invoice is formally collected. Not emitted when folded.
	KindAdvanceReversal EventKind = "advance_reversal"
)

// Event is a projected cash movement. Amount is signed: positive amounts
// flow into the account.
type Event struct {
	Date      time.Time
	Kind      EventKind
	Amount    decimal.Decimal
	SourceID  string
	Label     string
	AccountID treasury.AccountID
}

// sortRank fixes the intra-day ordering of event kinds so that repeated
// runs over identical inputs produce identical timelines.
func (k EventKind) sortRank() int {
	switch k {
	case KindAdvanceDrawdown:
		return 0
	case KindAdvanceReversal:
		return 1
	case KindCollection:
		return 2
	case KindPayment:
		return 3
	default:
		return 4
	}
}

// =============================================================================
// EVENT GENERATOR - Records to events
// =============================================================================

// Generate turns the receivables and payables of one account into the
// list of projected cash-movement events.
//
// Rules:
//   - Settled records are excluded entirely; settlement dates themselves
//     never produce events.
//   - A receivable with advance terms emits up to three events: the
//     draw-down leg (+advance, unless folded at draw or undated), the
//     reversal leg (-advance, unless folded at reversal or undated), and
//     always the full-invoice collection at the due date. The legs and
//     the collection are deliberately not netted against each other.
//   - A plain receivable emits a single collection event at its due date.
//   - A payable emits a single payment event of -amount at its due date.
func Generate(accountID treasury.AccountID, receivables []treasury.Receivable, payables []treasury.Payable) []Event {
	var events []Event

	for _, rec := range receivables {
		if rec.AccountID != accountID || !rec.Outstanding() {
			continue
		}

		if rec.HasAdvance() {
			if rec.AdvanceDrawDate != nil && !rec.AdvanceFoldedAtDraw {
				events = append(events, Event{
					Date:      *rec.AdvanceDrawDate,
					Kind:      KindAdvanceDrawdown,
					Amount:    rec.AdvanceAmount,
					SourceID:  string(rec.ID),
					Label:     fmt.Sprintf("Advance draw-down - %s", rec.CounterpartyName),
					AccountID: accountID,
				})
			}
			if rec.AdvanceReversalDate != nil && !rec.AdvanceFoldedAtReversal {
				events = append(events, Event{
					Date:      *rec.AdvanceReversalDate,
					Kind:      KindAdvanceReversal,
					Amount:    rec.AdvanceAmount.Neg(),
					SourceID:  string(rec.ID),
					Label:     fmt.Sprintf("Advance reversal - %s", rec.CounterpartyName),
					AccountID: accountID,
				})
			}
		}

		events = append(events, Event{
			Date:      rec.DueDate,
			Kind:      KindCollection,
			Amount:    rec.InvoiceAmount,
			SourceID:  string(rec.ID),
			Label:     fmt.Sprintf("Collection - %s", rec.CounterpartyName),
			AccountID: accountID,
		})
	}

	for _, pay := range payables {
		if pay.AccountID != accountID || !pay.Outstanding() {
			continue
		}
		events = append(events, Event{
			Date:      pay.DueDate,
			Kind:      KindPayment,
			Amount:    pay.Amount.Neg(),
			SourceID:  string(pay.ID),
			Label:     fmt.Sprintf("Payment - %s", pay.CounterpartyName),
			AccountID: accountID,
		})
	}

	return events
}
