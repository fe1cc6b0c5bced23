/*
handlers.go - HTTP API handlers for the treasury forecasting service

PURPOSE:
  Exposes the forecast engine and the record registry via REST. Handles
  HTTP request/response, JSON serialization, and delegates to the
  forecast pipeline.

ENDPOINTS:
  Accounts:
    GET    /api/accounts                        List accounts
    POST   /api/accounts                        Register account
    GET    /api/accounts/{id}                   Account details
    GET    /api/accounts/{id}/receivables       List receivables
    POST   /api/accounts/{id}/receivables       Record receivable
    GET    /api/accounts/{id}/payables          List payables
    POST   /api/accounts/{id}/payables          Record payable

  Forecast:
    GET    /api/accounts/{id}/timeline?as_of=   Projected-balance view
    GET    /api/accounts/{id}/months?as_of=&from=&to=  Monthly buckets
    GET    /api/accounts/{id}/capacity?month=   Advance credit-line usage
    GET    /api/forecast?as_of=&from=&to=       Consolidated pivot

  Scenarios:
    GET    /api/scenarios                       List demo scenarios
    POST   /api/scenarios/load                  Load a demo scenario
    POST   /api/scenarios/reset                 Clear all records

ERROR HANDLING:
  - 400: malformed body, dates, or amounts
  - 404: unknown account (forecast.IsNotFound)
  - 500: storage failures

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
  - forecast/engine.go: the pipeline behind the forecast endpoints
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/treasury-engine/forecast"
	"github.com/ledgerline/treasury-engine/store/sqlite"
	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *forecast.Engine

	// Track currently loaded demo scenario
	currentScenario string
}

// NewHandler creates a new handler over the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:  store,
		Engine: forecast.NewEngine(store),
	}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns all accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.Accounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list accounts", err)
		return
	}

	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAccountDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAccount returns a single account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := treasury.AccountID(chi.URLParam(r, "id"))

	account, err := h.Store.Account(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get account", err)
		return
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(*account))
}

// CreateAccount registers a new account.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	balance, err := parseMoney(req.CurrentBalance)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid current_balance", err)
		return
	}
	advCeiling, err := parseMoney(req.AdvanceCeiling)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid advance_ceiling", err)
		return
	}
	odCeiling, err := parseMoney(req.OverdraftCeiling)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid overdraft_ceiling", err)
		return
	}

	account := treasury.Account{
		ID:               treasury.AccountID(orNewID(req.ID)),
		Name:             req.Name,
		CurrentBalance:   balance,
		AdvanceCeiling:   advCeiling,
		OverdraftCeiling: odCeiling,
	}
	if err := h.Store.SaveAccount(r.Context(), account); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(account))
}

// =============================================================================
// RECEIVABLE / PAYABLE HANDLERS
// =============================================================================

// ListReceivables returns all receivables for an account.
func (h *Handler) ListReceivables(w http.ResponseWriter, r *http.Request) {
	id := treasury.AccountID(chi.URLParam(r, "id"))

	receivables, err := h.Store.Receivables(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list receivables", err)
		return
	}
	dtos := make([]ReceivableDTO, len(receivables))
	for i, rec := range receivables {
		dtos[i] = toReceivableDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateReceivable records a receivable for an account.
func (h *Handler) CreateReceivable(w http.ResponseWriter, r *http.Request) {
	accountID := treasury.AccountID(chi.URLParam(r, "id"))
	if !h.requireAccount(w, r, accountID) {
		return
	}

	var req CreateReceivableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	invoiceAmount, err := parseMoney(req.InvoiceAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice_amount", err)
		return
	}
	dueDate, err := time.Parse(dayFormat, req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid due_date format (use YYYY-MM-DD)", err)
		return
	}
	advanceAmount := decimal.Zero
	if req.AdvanceAmount != "" {
		if advanceAmount, err = parseMoney(req.AdvanceAmount); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid advance_amount", err)
			return
		}
	}
	settledDate, err := parseOptionalDay(req.SettledDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settled_date", err)
		return
	}
	drawDate, err := parseOptionalDay(req.AdvanceDrawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid advance_draw_date", err)
		return
	}
	reversalDate, err := parseOptionalDay(req.AdvanceReversalDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid advance_reversal_date", err)
		return
	}

	rec := treasury.Receivable{
		ID:                      treasury.ReceivableID(orNewID(req.ID)),
		AccountID:               accountID,
		CounterpartyName:        req.Counterparty,
		InvoiceAmount:           invoiceAmount,
		DueDate:                 dueDate,
		Settled:                 req.Settled,
		SettledDate:             settledDate,
		AdvanceAmount:           advanceAmount,
		AdvanceDrawDate:         drawDate,
		AdvanceReversalDate:     reversalDate,
		AdvanceFoldedAtDraw:     req.AdvanceFoldedAtDraw,
		AdvanceFoldedAtReversal: req.AdvanceFoldedAtReversal,
	}
	if err := h.Store.SaveReceivable(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create receivable", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReceivableDTO(rec))
}

// ListPayables returns all payables for an account.
func (h *Handler) ListPayables(w http.ResponseWriter, r *http.Request) {
	id := treasury.AccountID(chi.URLParam(r, "id"))

	payables, err := h.Store.Payables(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payables", err)
		return
	}
	dtos := make([]PayableDTO, len(payables))
	for i, pay := range payables {
		dtos[i] = toPayableDTO(pay)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePayable records a payable for an account.
func (h *Handler) CreatePayable(w http.ResponseWriter, r *http.Request) {
	accountID := treasury.AccountID(chi.URLParam(r, "id"))
	if !h.requireAccount(w, r, accountID) {
		return
	}

	var req CreatePayableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	dueDate, err := time.Parse(dayFormat, req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid due_date format (use YYYY-MM-DD)", err)
		return
	}
	settledDate, err := parseOptionalDay(req.SettledDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settled_date", err)
		return
	}

	pay := treasury.Payable{
		ID:               treasury.PayableID(orNewID(req.ID)),
		AccountID:        accountID,
		CounterpartyName: req.Counterparty,
		Amount:           amount,
		DueDate:          dueDate,
		Settled:          req.Settled,
		SettledDate:      settledDate,
	}
	if err := h.Store.SavePayable(r.Context(), pay); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create payable", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayableDTO(pay))
}

// =============================================================================
// FORECAST HANDLERS
// =============================================================================

// GetTimeline returns the annotated event timeline for one account.
// GET /api/accounts/{id}/timeline?as_of=YYYY-MM-DD
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id := treasury.AccountID(chi.URLParam(r, "id"))

	req, err := forecastRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid forecast parameters", err)
		return
	}

	timeline, err := h.Engine.ProjectAccount(r.Context(), id, req)
	if err != nil {
		writeForecastError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimelineDTO(timeline))
}

// GetMonthlyForecast returns the monthly buckets for one account.
// GET /api/accounts/{id}/months?as_of=YYYY-MM-DD&from=YYYY-MM&to=YYYY-MM
func (h *Handler) GetMonthlyForecast(w http.ResponseWriter, r *http.Request) {
	id := treasury.AccountID(chi.URLParam(r, "id"))

	req, err := forecastRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid forecast parameters", err)
		return
	}

	buckets, err := h.Engine.MonthlyForecast(r.Context(), id, req)
	if err != nil {
		writeForecastError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthBucketDTOs(buckets))
}

// GetCapacity returns advance credit-line usage for one account-month.
// GET /api/accounts/{id}/capacity?month=YYYY-MM&as_of=YYYY-MM-DD
func (h *Handler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	id := treasury.AccountID(chi.URLParam(r, "id"))

	var month forecast.Month
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := forecast.ParseMonth(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
			return
		}
		month = parsed
	}
	asOf, err := parseAsOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of (use YYYY-MM-DD)", err)
		return
	}

	report, err := h.Engine.CapacityFor(r.Context(), id, month, asOf)
	if err != nil {
		writeForecastError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CapacityDTO{
		AccountID:         string(report.AccountID),
		Month:             report.Month.String(),
		OpenAdvances:      report.OpenAdvances.String(),
		AvailableCapacity: report.AvailableCapacity.String(),
		Breached:          report.Breached(),
	})
}

// GetConsolidatedForecast returns the month x category pivot across all
// accounts.
// GET /api/forecast?as_of=YYYY-MM-DD&from=YYYY-MM&to=YYYY-MM
func (h *Handler) GetConsolidatedForecast(w http.ResponseWriter, r *http.Request) {
	req, err := forecastRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid forecast parameters", err)
		return
	}

	pivot, err := h.Engine.Forecast(r.Context(), req)
	if err != nil {
		writeForecastError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPivotDTO(pivot))
}

// =============================================================================
// REQUEST PARSING HELPERS
// =============================================================================

// forecastRequest builds the engine request from query parameters. The
// as_of default is the only clock read in the service, and it happens
// here at the HTTP boundary - the engine itself never touches the clock.
func forecastRequest(r *http.Request) (forecast.Request, error) {
	asOf, err := parseAsOf(r)
	if err != nil {
		return forecast.Request{}, err
	}

	req := forecast.Request{AsOf: asOf}
	if raw := r.URL.Query().Get("from"); raw != "" {
		month, err := forecast.ParseMonth(raw)
		if err != nil {
			return forecast.Request{}, err
		}
		req.HorizonFrom = &month
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		month, err := forecast.ParseMonth(raw)
		if err != nil {
			return forecast.Request{}, err
		}
		req.HorizonTo = &month
	}
	return req, nil
}

func parseAsOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		now := time.Now().UTC()
		return treasury.Date(now.Year(), now.Month(), now.Day()), nil
	}
	return time.Parse(dayFormat, raw)
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseOptionalDay(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dayFormat, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// requireAccount writes a 404 and returns false when the account does
// not exist.
func (h *Handler) requireAccount(w http.ResponseWriter, r *http.Request, id treasury.AccountID) bool {
	account, err := h.Store.Account(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get account", err)
		return false
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return false
	}
	return true
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeForecastError(w http.ResponseWriter, err error) {
	if forecast.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Account not found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Forecast failed", err)
}
