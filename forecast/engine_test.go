package forecast_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ledgerline/treasury-engine/forecast"
	"github.com/ledgerline/treasury-engine/store/memory"
	"github.com/ledgerline/treasury-engine/treasury"
)

func newTestEngine() (*forecast.Engine, *memory.Store) {
	store := memory.New()
	return forecast.NewEngine(store), store
}

func seedGroup(store *memory.Store) {
	store.PutAccount(treasury.Account{
		ID: "acc-a", Name: "Operating", CurrentBalance: money("1000"),
		AdvanceCeiling: money("5000"), OverdraftCeiling: money("2000"),
	})
	store.PutAccount(treasury.Account{
		ID: "acc-b", Name: "Payroll", CurrentBalance: money("200"),
		AdvanceCeiling: money("1000"), OverdraftCeiling: money("500"),
	})
	store.PutReceivable(treasury.Receivable{
		ID: "r-a1", AccountID: "acc-a", CounterpartyName: "Alfa Retail",
		InvoiceAmount: money("500"), DueDate: day(15),
	})
	store.PutPayable(treasury.Payable{
		ID: "p-b1", AccountID: "acc-b", CounterpartyName: "Zeta Suppliers",
		Amount: money("500"), DueDate: day(12),
	})
}

func TestEngine_ProjectAccount_UnknownAccount(t *testing.T) {
	// GIVEN: An empty data source
	// WHEN: Projecting an unknown account
	// THEN: The run aborts with the not-found error, matchable both as
	//       the sentinel and as the structured type

	engine, _ := newTestEngine()

	_, err := engine.ProjectAccount(context.Background(), "nope", forecast.Request{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !forecast.IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
	var nf *forecast.AccountNotFoundError
	if !errors.As(err, &nf) || nf.AccountID != "nope" {
		t.Errorf("structured error not matchable: %v", err)
	}
}

func TestEngine_ProjectAccount_Timeline(t *testing.T) {
	engine, store := newTestEngine()
	seedGroup(store)

	timeline, err := engine.ProjectAccount(context.Background(), "acc-a", forecast.Request{AsOf: day(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eq(timeline.ClosingBalance(), money("1500")) {
		t.Errorf("closing: got %v", timeline.ClosingBalance())
	}
}

func TestEngine_Forecast_ConsolidatesAllAccounts(t *testing.T) {
	// GIVEN: Two seeded accounts, one ending in overdraft
	// WHEN: Running the consolidated forecast
	// THEN: Both accounts appear in ID order; closing and overdraft totals
	//       reflect per-account figures with no cross-account netting

	engine, store := newTestEngine()
	seedGroup(store)

	pivot, err := engine.Forecast(context.Background(), forecast.Request{AsOf: day(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []treasury.AccountID{"acc-a", "acc-b"}
	if !reflect.DeepEqual(pivot.AccountIDs, want) {
		t.Errorf("account order: got %v", pivot.AccountIDs)
	}
	if len(pivot.Months) != 1 {
		t.Fatalf("expected 1 month, got %d", len(pivot.Months))
	}

	closing := pivot.Months[0].Cells[forecast.CategoryClosingBalance]
	if !eq(closing.Total, money("1200")) {
		t.Errorf("closing total: got %v, want 1200", closing.Total)
	}
	overdraft := pivot.Months[0].Cells[forecast.CategoryOverdraftUsed]
	if !eq(overdraft.Total, money("300")) {
		t.Errorf("overdraft total: got %v, want 300", overdraft.Total)
	}
}

func TestEngine_Forecast_Deterministic(t *testing.T) {
	// GIVEN: A seeded group
	// WHEN: Running the forecast twice with the same request
	// THEN: The pivots are identical

	engine, store := newTestEngine()
	seedGroup(store)
	adv := advancedReceivable("r-adv", "1000", "300", 5, 20, 25)
	adv.AccountID = "acc-a"
	store.PutReceivable(adv)

	req := forecast.Request{AsOf: day(1)}
	first, err := engine.Forecast(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Forecast(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs produced different pivots")
	}
}

func TestEngine_Forecast_CancelledContext(t *testing.T) {
	engine, store := newTestEngine()
	seedGroup(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Forecast(ctx, forecast.Request{AsOf: day(1)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEngine_CapacityFor_DefaultsToAsOfMonth(t *testing.T) {
	// GIVEN: An advance open in March and an as-of date inside March
	// WHEN: Asking for capacity with a zero month
	// THEN: The report covers March

	engine, store := newTestEngine()
	seedGroup(store)
	adv := advancedReceivable("r-adv", "1000", "2000", 5, 20, 25)
	adv.AccountID = "acc-a"
	store.PutReceivable(adv)

	report, err := engine.CapacityFor(context.Background(), "acc-a", forecast.Month{}, day(16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Month != march() {
		t.Errorf("month: got %s", report.Month)
	}
	if !eq(report.OpenAdvances, money("2000")) || !eq(report.AvailableCapacity, money("3000")) {
		t.Errorf("capacity: open %v available %v", report.OpenAdvances, report.AvailableCapacity)
	}
}

func TestEngine_MonthlyForecast_HorizonBounds(t *testing.T) {
	engine, store := newTestEngine()
	seedGroup(store)

	to := march()
	buckets, err := engine.MonthlyForecast(context.Background(), "acc-a", forecast.Request{AsOf: day(1), HorizonTo: &to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Month != march() {
		t.Fatalf("expected the single march bucket, got %d", len(buckets))
	}
}
