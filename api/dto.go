/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

CONVENTIONS:
  - Money is serialized as decimal strings ("1234.56"), never floats
  - Days are "2006-01-02", months are "2006-01"
  - *DTO: response types; *Request: request bodies

SEE ALSO:
  - handlers.go: uses these types
  - forecast/: the structures being serialized
*/
package api

import (
	"time"

	"github.com/ledgerline/treasury-engine/forecast"
	"github.com/ledgerline/treasury-engine/treasury"
)

const dayFormat = "2006-01-02"

// =============================================================================
// ACCOUNT / RECEIVABLE / PAYABLE
// =============================================================================

// AccountDTO represents an account in API responses.
type AccountDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	CurrentBalance   string `json:"current_balance"`
	AdvanceCeiling   string `json:"advance_ceiling"`
	OverdraftCeiling string `json:"overdraft_ceiling"`
}

// CreateAccountRequest is the request to register an account.
type CreateAccountRequest struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	CurrentBalance   string `json:"current_balance"`
	AdvanceCeiling   string `json:"advance_ceiling"`
	OverdraftCeiling string `json:"overdraft_ceiling"`
}

// ReceivableDTO represents a receivable in API responses.
type ReceivableDTO struct {
	ID                      string  `json:"id"`
	AccountID               string  `json:"account_id"`
	Counterparty            string  `json:"counterparty"`
	InvoiceAmount           string  `json:"invoice_amount"`
	DueDate                 string  `json:"due_date"`
	Settled                 bool    `json:"settled"`
	SettledDate             *string `json:"settled_date,omitempty"`
	AdvanceAmount           string  `json:"advance_amount"`
	AdvanceDrawDate         *string `json:"advance_draw_date,omitempty"`
	AdvanceReversalDate     *string `json:"advance_reversal_date,omitempty"`
	AdvanceFoldedAtDraw     bool    `json:"advance_folded_at_draw"`
	AdvanceFoldedAtReversal bool    `json:"advance_folded_at_reversal"`
}

// CreateReceivableRequest is the request to record a receivable.
type CreateReceivableRequest struct {
	ID                      string  `json:"id,omitempty"`
	Counterparty            string  `json:"counterparty"`
	InvoiceAmount           string  `json:"invoice_amount"`
	DueDate                 string  `json:"due_date"`
	Settled                 bool    `json:"settled"`
	SettledDate             *string `json:"settled_date,omitempty"`
	AdvanceAmount           string  `json:"advance_amount,omitempty"`
	AdvanceDrawDate         *string `json:"advance_draw_date,omitempty"`
	AdvanceReversalDate     *string `json:"advance_reversal_date,omitempty"`
	AdvanceFoldedAtDraw     bool    `json:"advance_folded_at_draw"`
	AdvanceFoldedAtReversal bool    `json:"advance_folded_at_reversal"`
}

// PayableDTO represents a payable in API responses.
type PayableDTO struct {
	ID           string  `json:"id"`
	AccountID    string  `json:"account_id"`
	Counterparty string  `json:"counterparty"`
	Amount       string  `json:"amount"`
	DueDate      string  `json:"due_date"`
	Settled      bool    `json:"settled"`
	SettledDate  *string `json:"settled_date,omitempty"`
}

// CreatePayableRequest is the request to record a payable.
type CreatePayableRequest struct {
	ID           string  `json:"id,omitempty"`
	Counterparty string  `json:"counterparty"`
	Amount       string  `json:"amount"`
	DueDate      string  `json:"due_date"`
	Settled      bool    `json:"settled"`
	SettledDate  *string `json:"settled_date,omitempty"`
}

// =============================================================================
// FORECAST OUTPUTS
// =============================================================================

// ProjectedEventDTO is one line of the projected-balance view.
type ProjectedEventDTO struct {
	Date           string `json:"date"`
	Kind           string `json:"kind"`
	Amount         string `json:"amount"`
	Label          string `json:"label"`
	SourceID       string `json:"source_id"`
	RunningBalance string `json:"running_balance"`
	Overdraft      bool   `json:"overdraft"`
}

// TimelineDTO is the annotated single-account timeline.
type TimelineDTO struct {
	AccountID      string              `json:"account_id"`
	OpeningBalance string              `json:"opening_balance"`
	ClosingBalance string              `json:"closing_balance"`
	Events         []ProjectedEventDTO `json:"events"`
}

// DetailLineDTO is a drill-down line behind a monthly aggregate.
type DetailLineDTO struct {
	Date     string `json:"date"`
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	SourceID string `json:"source_id"`
	Amount   string `json:"amount"`
}

// MonthBucketDTO is one aggregated account-month.
type MonthBucketDTO struct {
	Month             string          `json:"month"`
	OpeningBalance    string          `json:"opening_balance"`
	Inflow            string          `json:"inflow"`
	Payments          string          `json:"payments"`
	ClosingBalance    string          `json:"closing_balance"`
	OverdraftUsed     string          `json:"overdraft_used"`
	OpenAdvances      string          `json:"open_advances"`
	AvailableCapacity string          `json:"available_capacity"`
	InflowLines       []DetailLineDTO `json:"inflow_lines"`
	PaymentLines      []DetailLineDTO `json:"payment_lines"`
}

// CapacityDTO reports credit-line headroom for one account-month.
type CapacityDTO struct {
	AccountID         string `json:"account_id"`
	Month             string `json:"month"`
	OpenAdvances      string `json:"open_advances"`
	AvailableCapacity string `json:"available_capacity"`
	Breached          bool   `json:"breached"`
}

// AccountValueDTO is one account's contribution to a pivot cell.
type AccountValueDTO struct {
	AccountID string `json:"account_id"`
	Value     string `json:"value"`
}

// PivotRowDTO is one category row within a pivot month.
type PivotRowDTO struct {
	Category   string            `json:"category"`
	Total      string            `json:"total"`
	PerAccount []AccountValueDTO `json:"per_account"`
}

// PivotMonthDTO is one column of the consolidated pivot.
type PivotMonthDTO struct {
	Month string        `json:"month"`
	Rows  []PivotRowDTO `json:"rows"`
}

// PivotDTO is the consolidated month x category forecast.
type PivotDTO struct {
	Accounts []string                    `json:"accounts"`
	Months   []PivotMonthDTO             `json:"months"`
	Series   map[string][]MonthBucketDTO `json:"series"`
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toAccountDTO(a treasury.Account) AccountDTO {
	return AccountDTO{
		ID:               string(a.ID),
		Name:             a.Name,
		CurrentBalance:   a.CurrentBalance.String(),
		AdvanceCeiling:   a.AdvanceCeiling.String(),
		OverdraftCeiling: a.OverdraftCeiling.String(),
	}
}

func toReceivableDTO(r treasury.Receivable) ReceivableDTO {
	return ReceivableDTO{
		ID:                      string(r.ID),
		AccountID:               string(r.AccountID),
		Counterparty:            r.CounterpartyName,
		InvoiceAmount:           r.InvoiceAmount.String(),
		DueDate:                 r.DueDate.Format(dayFormat),
		Settled:                 r.Settled,
		SettledDate:             formatDay(r.SettledDate),
		AdvanceAmount:           r.AdvanceAmount.String(),
		AdvanceDrawDate:         formatDay(r.AdvanceDrawDate),
		AdvanceReversalDate:     formatDay(r.AdvanceReversalDate),
		AdvanceFoldedAtDraw:     r.AdvanceFoldedAtDraw,
		AdvanceFoldedAtReversal: r.AdvanceFoldedAtReversal,
	}
}

func toPayableDTO(p treasury.Payable) PayableDTO {
	return PayableDTO{
		ID:           string(p.ID),
		AccountID:    string(p.AccountID),
		Counterparty: p.CounterpartyName,
		Amount:       p.Amount.String(),
		DueDate:      p.DueDate.Format(dayFormat),
		Settled:      p.Settled,
		SettledDate:  formatDay(p.SettledDate),
	}
}

func toTimelineDTO(t forecast.Timeline) TimelineDTO {
	dto := TimelineDTO{
		AccountID:      string(t.AccountID),
		OpeningBalance: t.OpeningBalance.String(),
		ClosingBalance: t.ClosingBalance().String(),
		Events:         make([]ProjectedEventDTO, 0, len(t.Events)),
	}
	for _, e := range t.Events {
		dto.Events = append(dto.Events, ProjectedEventDTO{
			Date:           e.Date.Format(dayFormat),
			Kind:           string(e.Kind),
			Amount:         e.Amount.String(),
			Label:          e.Label,
			SourceID:       e.SourceID,
			RunningBalance: e.RunningBalance.String(),
			Overdraft:      e.Overdraft,
		})
	}
	return dto
}

func toDetailLineDTOs(lines []forecast.DetailLine) []DetailLineDTO {
	dtos := make([]DetailLineDTO, 0, len(lines))
	for _, l := range lines {
		dtos = append(dtos, DetailLineDTO{
			Date:     l.On,
			Kind:     string(l.Kind),
			Label:    l.Label,
			SourceID: l.SourceID,
			Amount:   l.Amount.String(),
		})
	}
	return dtos
}

func toMonthBucketDTO(b forecast.MonthlyBucket) MonthBucketDTO {
	return MonthBucketDTO{
		Month:             b.Month.String(),
		OpeningBalance:    b.OpeningBalance.String(),
		Inflow:            b.Inflow.String(),
		Payments:          b.Payments.String(),
		ClosingBalance:    b.ClosingBalance.String(),
		OverdraftUsed:     b.OverdraftUsed.String(),
		OpenAdvances:      b.OpenAdvances.String(),
		AvailableCapacity: b.AvailableCapacity.String(),
		InflowLines:       toDetailLineDTOs(b.InflowLines),
		PaymentLines:      toDetailLineDTOs(b.PaymentLines),
	}
}

func toMonthBucketDTOs(buckets []forecast.MonthlyBucket) []MonthBucketDTO {
	dtos := make([]MonthBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		dtos = append(dtos, toMonthBucketDTO(b))
	}
	return dtos
}

func toPivotDTO(p forecast.Pivot) PivotDTO {
	dto := PivotDTO{
		Accounts: make([]string, 0, len(p.AccountIDs)),
		Months:   make([]PivotMonthDTO, 0, len(p.Months)),
		Series:   make(map[string][]MonthBucketDTO, len(p.Series)),
	}
	for _, id := range p.AccountIDs {
		dto.Accounts = append(dto.Accounts, string(id))
		dto.Series[string(id)] = toMonthBucketDTOs(p.Series[id])
	}
	for _, pm := range p.Months {
		monthDTO := PivotMonthDTO{Month: pm.Month.String(), Rows: make([]PivotRowDTO, 0, len(forecast.Categories()))}
		for _, category := range forecast.Categories() {
			cell := pm.Cells[category]
			row := PivotRowDTO{
				Category:   string(category),
				Total:      cell.Total.String(),
				PerAccount: make([]AccountValueDTO, 0, len(cell.PerAccount)),
			}
			for _, av := range cell.PerAccount {
				row.PerAccount = append(row.PerAccount, AccountValueDTO{
					AccountID: string(av.AccountID),
					Value:     av.Value.String(),
				})
			}
			monthDTO.Rows = append(monthDTO.Rows, row)
		}
		dto.Months = append(dto.Months, monthDTO)
	}
	return dto
}

func formatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dayFormat)
	return &s
}
