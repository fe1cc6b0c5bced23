package forecast_test

import (
	"testing"
	"time"

	"github.com/ledgerline/treasury-engine/forecast"
)

func TestMonth_ParseAndString_RoundTrip(t *testing.T) {
	m, err := forecast.ParseMonth("2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != (forecast.Month{Year: 2026, Month: time.March}) {
		t.Errorf("parsed: got %+v", m)
	}
	if m.String() != "2026-03" {
		t.Errorf("string: got %s", m.String())
	}

	if _, err := forecast.ParseMonth("March 2026"); err == nil {
		t.Errorf("expected parse error for free-form input")
	}
}

func TestMonth_BoundsAndNext(t *testing.T) {
	feb := forecast.Month{Year: 2028, Month: time.February}

	if got := feb.First(); !got.Equal(time.Date(2028, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first: got %v", got)
	}
	// 2028 is a leap year.
	if got := feb.Last(); !got.Equal(time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last: got %v", got)
	}

	dec := forecast.Month{Year: 2026, Month: time.December}
	if dec.Next() != (forecast.Month{Year: 2027, Month: time.January}) {
		t.Errorf("next across year boundary: got %+v", dec.Next())
	}
}

func TestHorizon_MonthsEnumeration(t *testing.T) {
	h := forecast.Horizon{
		From: forecast.Month{Year: 2026, Month: time.November},
		To:   forecast.Month{Year: 2027, Month: time.February},
	}

	months := h.Months()
	if len(months) != 4 {
		t.Fatalf("expected 4 months, got %d", len(months))
	}
	if months[0] != h.From || months[3] != h.To {
		t.Errorf("enumeration bounds wrong: %v", months)
	}

	inverted := forecast.Horizon{From: h.To, To: h.From}
	if inverted.Months() != nil {
		t.Errorf("inverted horizon should enumerate nothing")
	}
}

func TestHorizon_Clamp(t *testing.T) {
	h := forecast.Horizon{
		From: forecast.Month{Year: 2026, Month: time.March},
		To:   forecast.Month{Year: 2026, Month: time.August},
	}

	from := forecast.Month{Year: 2026, Month: time.May}
	to := forecast.Month{Year: 2026, Month: time.June}
	clamped := h.Clamp(&from, &to)
	if clamped.From != from || clamped.To != to {
		t.Errorf("clamped: got %s", clamped)
	}

	// Bounds outside the horizon leave it untouched.
	wide := forecast.Month{Year: 2025, Month: time.January}
	wideTo := forecast.Month{Year: 2027, Month: time.December}
	if h.Clamp(&wide, &wideTo) != h {
		t.Errorf("wider bounds should not extend the horizon")
	}
}
