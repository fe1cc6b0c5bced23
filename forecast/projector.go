package forecast

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// TIMELINE - Ordered events annotated with running balances
// =============================================================================

// ProjectedEvent is an event annotated with the balance that results
// from applying it.
type ProjectedEvent struct {
	Event

	// Balance after this event has been applied.
	RunningBalance decimal.Decimal

	// True when RunningBalance is negative, i.e. the overdraft credit
	// line is in use after this event.
	Overdraft bool
}

// Timeline is the chronological projection for a single account.
// Invariant: Events are sorted by date ascending with a stable,
// deterministic tie-break, and each RunningBalance equals the previous
// one plus the event amount, seeded by OpeningBalance.
type Timeline struct {
	AccountID      treasury.AccountID
	OpeningBalance decimal.Decimal
	Events         []ProjectedEvent
}

// ClosingBalance returns the balance after the final event, or the
// opening balance for an empty timeline.
func (t Timeline) ClosingBalance() decimal.Decimal {
	if len(t.Events) == 0 {
		return t.OpeningBalance
	}
	return t.Events[len(t.Events)-1].RunningBalance
}

// =============================================================================
// BALANCE PROJECTOR - Sort + left fold
// =============================================================================

// Project sorts the events chronologically and folds them against the
// account's current balance, tagging each with the resulting running
// balance and an overdraft flag. Purely functional: the input slice is
// not modified.
func Project(account treasury.Account, events []Event) Timeline {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sortEvents(ordered)

	timeline := Timeline{
		AccountID:      account.ID,
		OpeningBalance: account.CurrentBalance,
		Events:         make([]ProjectedEvent, 0, len(ordered)),
	}

	balance := account.CurrentBalance
	for _, e := range ordered {
		balance = balance.Add(e.Amount)
		timeline.Events = append(timeline.Events, ProjectedEvent{
			Event:          e,
			RunningBalance: balance,
			Overdraft:      balance.IsNegative(),
		})
	}
	return timeline
}

// sortEvents orders events by date ascending, then by kind rank; the
// stable sort preserves input order for full ties, so repeated runs over
// the same snapshot are reproducible.
func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Kind.sortRank() < events[j].Kind.sortRank()
	})
}
