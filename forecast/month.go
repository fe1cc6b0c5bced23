package forecast

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH - Typed calendar-month value used as the aggregation key
// =============================================================================

// Month identifies a calendar month. It replaces string-keyed buckets so
// that ordering and arithmetic are structural; locale formatting belongs
// to the presentation boundary.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses the canonical "2006-01" form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// First returns the first calendar day of the month (UTC midnight).
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last calendar day of the month (UTC midnight).
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// Compare orders months chronologically: -1, 0, or +1.
func (m Month) Compare(other Month) int {
	switch {
	case m.Year != other.Year:
		if m.Year < other.Year {
			return -1
		}
		return 1
	case m.Month != other.Month:
		if m.Month < other.Month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (m Month) Before(other Month) bool { return m.Compare(other) < 0 }
func (m Month) After(other Month) bool  { return m.Compare(other) > 0 }

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// =============================================================================
// HORIZON - Inclusive month range covered by a forecast
// =============================================================================

// Horizon is an inclusive range of calendar months.
type Horizon struct {
	From Month
	To   Month
}

// Months enumerates the horizon in chronological order.
func (h Horizon) Months() []Month {
	if h.To.Before(h.From) {
		return nil
	}
	var months []Month
	for m := h.From; !m.After(h.To); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// Clamp narrows the horizon to the given optional bounds.
func (h Horizon) Clamp(from, to *Month) Horizon {
	clamped := h
	if from != nil && from.After(clamped.From) {
		clamped.From = *from
	}
	if to != nil && to.Before(clamped.To) {
		clamped.To = *to
	}
	return clamped
}

func (h Horizon) String() string {
	return "[" + h.From.String() + ", " + h.To.String() + "]"
}

// union widens h to include other. Either side may be the zero Horizon.
func (h Horizon) union(other Horizon, hasSelf, hasOther bool) (Horizon, bool) {
	switch {
	case !hasSelf && !hasOther:
		return Horizon{}, false
	case !hasSelf:
		return other, true
	case !hasOther:
		return h, true
	}
	merged := h
	if other.From.Before(merged.From) {
		merged.From = other.From
	}
	if other.To.After(merged.To) {
		merged.To = other.To
	}
	return merged, true
}
