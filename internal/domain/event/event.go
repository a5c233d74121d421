package event

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Notification is a webhook event that has passed signature verification.
// The only way to construct one from raw provider input is through the
// provider package's verifier, so reconciliation never sees an unverified
// payload.
type Notification struct {
	EventID     string
	Type        Type
	RawType     string // original provider string, kept for unknown types
	ChargeID    string
	Settlements []SettlementLine
	RawJSON     []byte
	ReceivedAt  time.Time
}

// Type represents the provider event types the engine reacts to
type Type string

const (
	TypeConfirmed Type = "charge:confirmed"
	TypeResolved  Type = "charge:resolved"
	TypePending   Type = "charge:pending"
	TypeFailed    Type = "charge:failed"
	TypeUnknown   Type = "unknown"
)

// ParseType maps a provider event type string to the closed enum.
// Unrecognized types map to TypeUnknown rather than failing, so new
// provider event types pass through as acknowledged no-ops.
func ParseType(s string) Type {
	switch Type(strings.TrimSpace(s)) {
	case TypeConfirmed, TypeResolved, TypePending, TypeFailed:
		return Type(strings.TrimSpace(s))
	default:
		return TypeUnknown
	}
}

// SettlementLine is one reported amount/currency pair within a charge.
// Amounts arrive as decimal strings ("5.50") in the charge's local currency.
type SettlementLine struct {
	Amount   string
	Currency string
}

// MinorUnits converts the line amount to the currency's smallest unit,
// assuming two-decimal fiat. Malformed amounts count as zero.
func (l SettlementLine) MinorUnits() int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(l.Amount), 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}

// SettledMinorUnits sums all settlement lines in minor units.
func (n *Notification) SettledMinorUnits() int64 {
	var total int64
	for _, l := range n.Settlements {
		total += l.MinorUnits()
	}
	return total
}
