/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Populates the database with small, self-contained treasury datasets
  for demos and manual testing. Each scenario resets the database first,
  then seeds accounts with receivables/payables that exercise a specific
  engine behavior.

AVAILABLE SCENARIOS:
  single-collection:    one plain receivable, balance steps up once
  discounted-invoice:   advance draw/reversal legs plus full collection
  folded-advance:       advance folded into the ordinary balance
  capacity-breach:      two overlapping advances exceeding the ceiling
  overdraft-month:      payments push a month's closing balance negative
  group-consolidation:  two accounts with different horizons

NOTE:
  Scenarios reset the database. Only use in development/demo
  environments.

SEE ALSO:
  - handlers.go: ListScenarios, LoadScenario, ResetDatabase routing
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "single-collection",
		Name:        "Single Collection",
		Description: "One outstanding receivable, no advance: a single balance step",
	},
	{
		ID:          "discounted-invoice",
		Name:        "Discounted Invoice",
		Description: "Advance draw-down and reversal legs plus the full collection",
	},
	{
		ID:          "folded-advance",
		Name:        "Folded Advance",
		Description: "Advance already folded into the balance: only the collection projects",
	},
	{
		ID:          "capacity-breach",
		Name:        "Capacity Breach",
		Description: "Two overlapping advances push past the discounting ceiling",
	},
	{
		ID:          "overdraft-month",
		Name:        "Overdraft Month",
		Description: "Payments exceed funds: overdraft usage is reported per month",
	},
	{
		ID:          "group-consolidation",
		Name:        "Group Consolidation",
		Description: "Two accounts with different horizons consolidated into one pivot",
	},
}

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and seeds the selected scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "single-collection":
		err = h.loadSingleCollection(ctx)
	case "discounted-invoice":
		err = h.loadDiscountedInvoice(ctx)
	case "folded-advance":
		err = h.loadFoldedAdvance(ctx)
	case "capacity-breach":
		err = h.loadCapacityBreach(ctx)
	case "overdraft-month":
		err = h.loadOverdraftMonth(ctx)
	case "group-consolidation":
		err = h.loadGroupConsolidation(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetDatabase clears all records.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// nextMonth returns the first day of the month after now. Seeded dates
// are anchored here so a freshly loaded demo always projects forward.
func nextMonth() time.Time {
	now := time.Now().UTC()
	return treasury.Date(now.Year(), now.Month(), 1).AddDate(0, 1, 0)
}

func (h *Handler) loadSingleCollection(ctx context.Context) error {
	base := nextMonth()
	account := treasury.Account{
		ID:               "acc-main",
		Name:             "Main Operating Account",
		CurrentBalance:   treasury.MustMoney("1000"),
		AdvanceCeiling:   treasury.MustMoney("5000"),
		OverdraftCeiling: treasury.MustMoney("2000"),
	}
	if err := h.Store.SaveAccount(ctx, account); err != nil {
		return err
	}
	return h.Store.SaveReceivable(ctx, treasury.Receivable{
		ID:               treasury.ReceivableID(uuid.NewString()),
		AccountID:        account.ID,
		CounterpartyName: "Alfa Retail",
		InvoiceAmount:    treasury.MustMoney("500"),
		DueDate:          base.AddDate(0, 0, 14),
	})
}

func (h *Handler) loadDiscountedInvoice(ctx context.Context) error {
	base := nextMonth()
	account := treasury.Account{
		ID:               "acc-main",
		Name:             "Main Operating Account",
		CurrentBalance:   treasury.MustMoney("0"),
		AdvanceCeiling:   treasury.MustMoney("5000"),
		OverdraftCeiling: treasury.MustMoney("2000"),
	}
	if err := h.Store.SaveAccount(ctx, account); err != nil {
		return err
	}

	draw := base.AddDate(0, 0, 4)
	reversal := base.AddDate(0, 0, 19)
	return h.Store.SaveReceivable(ctx, treasury.Receivable{
		ID:                  treasury.ReceivableID(uuid.NewString()),
		AccountID:           account.ID,
		CounterpartyName:    "Beta Manufacturing",
		InvoiceAmount:       treasury.MustMoney("1000"),
		DueDate:             base.AddDate(0, 0, 24),
		AdvanceAmount:       treasury.MustMoney("300"),
		AdvanceDrawDate:     &draw,
		AdvanceReversalDate: &reversal,
	})
}

func (h *Handler) loadFoldedAdvance(ctx context.Context) error {
	base := nextMonth()
	account := treasury.Account{
		ID:               "acc-main",
		Name:             "Main Operating Account",
		CurrentBalance:   treasury.MustMoney("300"),
		AdvanceCeiling:   treasury.MustMoney("5000"),
		OverdraftCeiling: treasury.MustMoney("2000"),
	}
	if err := h.Store.SaveAccount(ctx, account); err != nil {
		return err
	}

	draw := base.AddDate(0, 0, 4)
	reversal := base.AddDate(0, 0, 19)
	return h.Store.SaveReceivable(ctx, treasury.Receivable{
		ID:                      treasury.ReceivableID(uuid.NewString()),
		AccountID:               account.ID,
		CounterpartyName:        "Beta Manufacturing",
		InvoiceAmount:           treasury.MustMoney("1000"),
		DueDate:                 base.AddDate(0, 0, 24),
		AdvanceAmount:           treasury.MustMoney("300"),
		AdvanceDrawDate:         &draw,
		AdvanceReversalDate:     &reversal,
		AdvanceFoldedAtDraw:     true,
		AdvanceFoldedAtReversal: true,
	})
}

func (h *Handler) loadCapacityBreach(ctx context.Context) error {
	base := nextMonth()
	account := treasury.Account{
		ID:               "acc-main",
		Name:             "Main Operating Account",
		CurrentBalance:   treasury.MustMoney("500"),
		AdvanceCeiling:   treasury.MustMoney("5000"),
		OverdraftCeiling: treasury.MustMoney("2000"),
	}
	if err := h.Store.SaveAccount(ctx, account); err != nil {
		return err
	}

	firstDraw := base.AddDate(0, 0, 2)
	secondDraw := base.AddDate(0, 0, 9)
	reversal := base.AddDate(0, 2, 0)
	seeds := []treasury.Receivable{
		{
			ID:                  treasury.ReceivableID(uuid.NewString()),
			AccountID:           account.ID,
			CounterpartyName:    "Gamma Logistics",
			InvoiceAmount:       treasury.MustMoney("3000"),
			DueDate:             base.AddDate(0, 2, 10),
			AdvanceAmount:       treasury.MustMoney("2000"),
			AdvanceDrawDate:     &firstDraw,
			AdvanceReversalDate: &reversal,
		},
		{
			ID:                  treasury.ReceivableID(uuid.NewString()),
			AccountID:           account.ID,
			CounterpartyName:    "Delta Wholesale",
			InvoiceAmount:       treasury.MustMoney("6000"),
			DueDate:             base.AddDate(0, 2, 20),
			AdvanceAmount:       treasury.MustMoney("4000"),
			AdvanceDrawDate:     &secondDraw,
			AdvanceReversalDate: &reversal,
		},
	}
	for _, rec := range seeds {
		if err := h.Store.SaveReceivable(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadOverdraftMonth(ctx context.Context) error {
	base := nextMonth()
	account := treasury.Account{
		ID:               "acc-main",
		Name:             "Main Operating Account",
		CurrentBalance:   treasury.MustMoney("200"),
		AdvanceCeiling:   treasury.MustMoney("5000"),
		OverdraftCeiling: treasury.MustMoney("2000"),
	}
	if err := h.Store.SaveAccount(ctx, account); err != nil {
		return err
	}
	return h.Store.SavePayable(ctx, treasury.Payable{
		ID:               treasury.PayableID(uuid.NewString()),
		AccountID:        account.ID,
		CounterpartyName: "Office Landlord",
		Amount:           treasury.MustMoney("500"),
		DueDate:          base.AddDate(0, 0, 9),
	})
}

func (h *Handler) loadGroupConsolidation(ctx context.Context) error {
	base := nextMonth()

	operating := treasury.Account{
		ID:               "acc-operating",
		Name:             "Operating Account",
		CurrentBalance:   treasury.MustMoney("2500"),
		AdvanceCeiling:   treasury.MustMoney("10000"),
		OverdraftCeiling: treasury.MustMoney("3000"),
	}
	payroll := treasury.Account{
		ID:               "acc-payroll",
		Name:             "Payroll Account",
		CurrentBalance:   treasury.MustMoney("800"),
		AdvanceCeiling:   treasury.MustMoney("0"),
		OverdraftCeiling: treasury.MustMoney("1000"),
	}
	for _, account := range []treasury.Account{operating, payroll} {
		if err := h.Store.SaveAccount(ctx, account); err != nil {
			return err
		}
	}

	draw := base.AddDate(0, 0, 6)
	reversal := base.AddDate(0, 1, 14)
	if err := h.Store.SaveReceivable(ctx, treasury.Receivable{
		ID:                  treasury.ReceivableID(uuid.NewString()),
		AccountID:           operating.ID,
		CounterpartyName:    "Epsilon Group",
		InvoiceAmount:       treasury.MustMoney("4000"),
		DueDate:             base.AddDate(0, 1, 19),
		AdvanceAmount:       treasury.MustMoney("1500"),
		AdvanceDrawDate:     &draw,
		AdvanceReversalDate: &reversal,
	}); err != nil {
		return err
	}
	if err := h.Store.SavePayable(ctx, treasury.Payable{
		ID:               treasury.PayableID(uuid.NewString()),
		AccountID:        operating.ID,
		CounterpartyName: "Zeta Suppliers",
		Amount:           treasury.MustMoney("1200"),
		DueDate:          base.AddDate(0, 0, 24),
	}); err != nil {
		return err
	}
	// Payroll runs two months of salary payments only.
	for i := 0; i < 2; i++ {
		if err := h.Store.SavePayable(ctx, treasury.Payable{
			ID:               treasury.PayableID(uuid.NewString()),
			AccountID:        payroll.ID,
			CounterpartyName: "Monthly Payroll",
			Amount:           treasury.MustMoney("600"),
			DueDate:          base.AddDate(0, i, 27),
		}); err != nil {
			return err
		}
	}
	return nil
}
