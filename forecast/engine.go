/*
engine.go - Orchestration of the forecasting pipeline

PURPOSE:
  Wires the pipeline stages to a treasury.DataSource: load one account's
  records, generate events, project the timeline, aggregate months, and
  consolidate across all accounts. One forecast run is a pure function of
  (accounts, receivables, payables, as-of date); the engine holds no
  state between runs and allocates fresh outputs every time.

CONCURRENCY:
  Single run, single goroutine. Concurrent runs are independent since all
  inputs are read-only snapshots. The per-account loop in Forecast checks
  ctx between accounts - the natural cancellation cut point for large
  account sets.

SEE ALSO:
  - events.go, projector.go, monthly.go, consolidate.go: the stages
  - treasury/source.go: the data source contract
*/
package forecast

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// REQUEST - Parameters of one forecast run
// =============================================================================

// Request carries the caller-supplied parameters of a run. AsOf is the
// snapshot reference date: the engine never reads a system clock, so two
// runs with identical inputs and AsOf produce identical outputs. The
// optional bounds clamp the data-derived month horizon.
type Request struct {
	AsOf        time.Time
	HorizonFrom *Month
	HorizonTo   *Month
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs forecasts against a read-only data source.
type Engine struct {
	Source treasury.DataSource
}

// NewEngine creates an engine over the given data source.
func NewEngine(source treasury.DataSource) *Engine {
	return &Engine{Source: source}
}

// ProjectAccount returns the annotated event timeline for one account:
// the "projected balance" list view.
func (e *Engine) ProjectAccount(ctx context.Context, id treasury.AccountID, req Request) (Timeline, error) {
	account, receivables, payables, err := e.load(ctx, id)
	if err != nil {
		return Timeline{}, err
	}
	events := Generate(account.ID, receivables, payables)
	return Project(*account, events), nil
}

// MonthlyForecast returns the ordered monthly buckets for one account,
// including per-month advance-capacity figures and drill-down lines.
func (e *Engine) MonthlyForecast(ctx context.Context, id treasury.AccountID, req Request) ([]MonthlyBucket, error) {
	account, receivables, payables, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	events := Generate(account.ID, receivables, payables)
	timeline := Project(*account, events)
	return Aggregate(*account, timeline, receivables, req.HorizonFrom, req.HorizonTo), nil
}

// CapacityFor reports advance credit-line usage for one account and
// month. Zero month defaults to the month of asOf.
func (e *Engine) CapacityFor(ctx context.Context, id treasury.AccountID, month Month, asOf time.Time) (CapacityReport, error) {
	if month.IsZero() {
		month = MonthOf(asOf)
	}
	account, receivables, _, err := e.load(ctx, id)
	if err != nil {
		return CapacityReport{}, err
	}
	return Capacity(*account, receivables, month), nil
}

// Forecast runs the full pipeline for every account and consolidates the
// results into the month x category pivot. Accounts are processed in
// ID order so repeated runs are byte-identical.
func (e *Engine) Forecast(ctx context.Context, req Request) (Pivot, error) {
	accounts, err := e.Source.Accounts(ctx)
	if err != nil {
		return Pivot{}, fmt.Errorf("list accounts: %w", err)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	series := make([]AccountSeries, 0, len(accounts))
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return Pivot{}, err
		}

		receivables, err := e.Source.Receivables(ctx, account.ID)
		if err != nil {
			return Pivot{}, fmt.Errorf("load receivables for %s: %w", account.ID, err)
		}
		payables, err := e.Source.Payables(ctx, account.ID)
		if err != nil {
			return Pivot{}, fmt.Errorf("load payables for %s: %w", account.ID, err)
		}

		events := Generate(account.ID, receivables, payables)
		timeline := Project(account, events)
		buckets := Aggregate(account, timeline, receivables, req.HorizonFrom, req.HorizonTo)

		series = append(series, AccountSeries{
			Account:     account,
			Buckets:     buckets,
			Receivables: receivables,
		})
	}

	return Consolidate(series), nil
}

// load fetches one account's snapshot, failing fast on unknown ids.
func (e *Engine) load(ctx context.Context, id treasury.AccountID) (*treasury.Account, []treasury.Receivable, []treasury.Payable, error) {
	account, err := e.Source.Account(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load account %s: %w", id, err)
	}
	if account == nil {
		return nil, nil, nil, &AccountNotFoundError{AccountID: id}
	}

	receivables, err := e.Source.Receivables(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load receivables for %s: %w", id, err)
	}
	payables, err := e.Source.Payables(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load payables for %s: %w", id, err)
	}
	return account, receivables, payables, nil
}
