package forecast_test

import (
	"reflect"
	"testing"

	"github.com/ledgerline/treasury-engine/forecast"
	"github.com/ledgerline/treasury-engine/treasury"
)

func TestProject_SimpleReceivable_RunningBalance(t *testing.T) {
	// GIVEN: Balance 1000 and a single +500 collection
	// WHEN: Projecting
	// THEN: Running balance 1500, closing 1500, no overdraft

	acc := account("1000")
	events := forecast.Generate(acc.ID, []treasury.Receivable{receivable("r-1", "500", 15)}, nil)

	timeline := forecast.Project(acc, events)

	if !eq(timeline.OpeningBalance, money("1000")) {
		t.Errorf("opening: got %v", timeline.OpeningBalance)
	}
	if len(timeline.Events) != 1 {
		t.Fatalf("expected 1 projected event, got %d", len(timeline.Events))
	}
	if !eq(timeline.Events[0].RunningBalance, money("1500")) {
		t.Errorf("running balance: got %v", timeline.Events[0].RunningBalance)
	}
	if timeline.Events[0].Overdraft {
		t.Errorf("overdraft flagged on a positive balance")
	}
	if !eq(timeline.ClosingBalance(), money("1500")) {
		t.Errorf("closing: got %v", timeline.ClosingBalance())
	}
}

func TestProject_AdvanceTriple_RunningBalances(t *testing.T) {
	// GIVEN: Balance 0 and an advanced invoice: +300 draw day 5,
	//        -300 reversal day 20, +1000 collection day 25
	// WHEN: Projecting
	// THEN: Running balances 300, 0, 1000 in date order

	acc := account("0")
	rec := advancedReceivable("r-1", "1000", "300", 5, 20, 25)
	timeline := forecast.Project(acc, forecast.Generate(acc.ID, []treasury.Receivable{rec}, nil))

	if len(timeline.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(timeline.Events))
	}
	want := []string{"300", "0", "1000"}
	for i, w := range want {
		if !eq(timeline.Events[i].RunningBalance, money(w)) {
			t.Errorf("event %d: running balance got %v, want %s", i, timeline.Events[i].RunningBalance, w)
		}
	}
	if !eq(timeline.ClosingBalance(), money("1000")) {
		t.Errorf("closing: got %v", timeline.ClosingBalance())
	}
}

func TestProject_OverdraftFlagged(t *testing.T) {
	// GIVEN: Balance 200 and a 500 payment
	// WHEN: Projecting
	// THEN: The resulting -300 balance carries the overdraft flag

	acc := account("200")
	timeline := forecast.Project(acc, forecast.Generate(acc.ID, nil, []treasury.Payable{payable("p-1", "500", 10)}))

	if len(timeline.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(timeline.Events))
	}
	if !eq(timeline.Events[0].RunningBalance, money("-300")) {
		t.Errorf("running balance: got %v", timeline.Events[0].RunningBalance)
	}
	if !timeline.Events[0].Overdraft {
		t.Errorf("overdraft not flagged on a negative balance")
	}
}

func TestProject_SameDayOrdering_ByKind(t *testing.T) {
	// GIVEN: A reversal, a collection and a payment all on the same day
	// WHEN: Projecting
	// THEN: Draw-down legs come first, then reversals, collections, payments

	acc := account("0")
	rec := advancedReceivable("r-1", "1000", "300", 10, 10, 10)
	events := forecast.Generate(acc.ID,
		[]treasury.Receivable{rec},
		[]treasury.Payable{payable("p-1", "100", 10)},
	)

	timeline := forecast.Project(acc, events)

	wantKinds := []forecast.EventKind{
		forecast.KindAdvanceDrawdown,
		forecast.KindAdvanceReversal,
		forecast.KindCollection,
		forecast.KindPayment,
	}
	if len(timeline.Events) != len(wantKinds) {
		t.Fatalf("expected %d events, got %d", len(wantKinds), len(timeline.Events))
	}
	for i, k := range wantKinds {
		if timeline.Events[i].Kind != k {
			t.Errorf("position %d: got %s, want %s", i, timeline.Events[i].Kind, k)
		}
	}
}

func TestProject_Deterministic(t *testing.T) {
	// GIVEN: A snapshot with same-day ties
	// WHEN: Projecting twice
	// THEN: The timelines are identical

	acc := account("750")
	events := forecast.Generate(acc.ID,
		[]treasury.Receivable{
			advancedReceivable("r-1", "1000", "300", 5, 20, 25),
			receivable("r-2", "400", 20),
			receivable("r-3", "400", 20),
		},
		[]treasury.Payable{payable("p-1", "150", 20)},
	)

	first := forecast.Project(acc, events)
	second := forecast.Project(acc, events)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated projection produced different timelines")
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	// GIVEN: An unsorted event slice
	// WHEN: Projecting
	// THEN: The caller's slice keeps its original order

	acc := account("0")
	events := forecast.Generate(acc.ID,
		[]treasury.Receivable{receivable("r-late", "100", 28), receivable("r-early", "100", 2)},
		nil,
	)
	firstBefore := events[0].SourceID

	forecast.Project(acc, events)

	if events[0].SourceID != firstBefore {
		t.Errorf("input slice was reordered")
	}
}

func TestProject_Empty_ClosingEqualsOpening(t *testing.T) {
	acc := account("1234.56")
	timeline := forecast.Project(acc, nil)

	if len(timeline.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(timeline.Events))
	}
	if !eq(timeline.ClosingBalance(), money("1234.56")) {
		t.Errorf("closing: got %v", timeline.ClosingBalance())
	}
}
