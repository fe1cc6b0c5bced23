package treasury

import (
	"testing"
	"time"
)

func TestMustMoney(t *testing.T) {
	if !MustMoney("1234.56").Equal(MustMoney("1234.560")) {
		t.Errorf("decimal equality should ignore trailing zeros")
	}
	if !MustMoney("garbage").IsZero() {
		t.Errorf("unparseable input should yield zero")
	}
}

func TestDate_UTCMidnight(t *testing.T) {
	d := Date(2026, time.March, 5)
	if d.Hour() != 0 || d.Location() != time.UTC {
		t.Errorf("expected UTC midnight, got %v", d)
	}
}

func TestReceivable_Flags(t *testing.T) {
	rec := Receivable{InvoiceAmount: MustMoney("100"), AdvanceAmount: MustMoney("0")}
	if rec.HasAdvance() {
		t.Errorf("zero advance amount must not count as advance terms")
	}
	if !rec.Outstanding() {
		t.Errorf("unsettled receivable should be outstanding")
	}

	rec.AdvanceAmount = MustMoney("30")
	rec.Settled = true
	if !rec.HasAdvance() {
		t.Errorf("positive advance amount should count as advance terms")
	}
	if rec.Outstanding() {
		t.Errorf("settled receivable must not be outstanding")
	}
}
