package enums

import "fmt"

// QuoteStatus tracks where a quote sits in the review lifecycle.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusReady    QuoteStatus = "ready"
	QuoteStatusRevised  QuoteStatus = "revised"
	QuoteStatusDeclined QuoteStatus = "declined"
	// QuoteStatusPlaced is written by the checkout collaborator once the
	// customer completes an order; the lifecycle engine preserves it but
	// never sets it.
	QuoteStatusPlaced QuoteStatus = "placed"
	// QuoteStatusExpired is a display state derived from expirationDate.
	// It is never persisted.
	QuoteStatusExpired QuoteStatus = "expired"
)

var validQuoteStatuses = []QuoteStatus{
	QuoteStatusPending,
	QuoteStatusReady,
	QuoteStatusRevised,
	QuoteStatusDeclined,
	QuoteStatusPlaced,
	QuoteStatusExpired,
}

// String implements fmt.Stringer.
func (q QuoteStatus) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuoteStatus.
func (q QuoteStatus) IsValid() bool {
	for _, candidate := range validQuoteStatuses {
		if candidate == q {
			return true
		}
	}
	return false
}

// IsPersistable reports whether the status may be written to the store.
func (q QuoteStatus) IsPersistable() bool {
	return q.IsValid() && q != QuoteStatusExpired
}

// ParseQuoteStatus converts raw input into a QuoteStatus.
func ParseQuoteStatus(value string) (QuoteStatus, error) {
	for _, candidate := range validQuoteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote status %q", value)
}
