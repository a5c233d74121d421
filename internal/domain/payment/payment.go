package payment

import (
	"fmt"
	"strings"
	"time"
)

// Payment represents a charge we expect the provider to settle.
type Payment struct {
	ID            int64
	ChargeID      string // provider-side charge id, immutable once assigned
	Description   string
	Amount        Money // expected amount
	SettledAmount Money // actual settled amount, set when resolved
	Currency      Currency
	Status        Status
	Method        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Money is a monetary amount in the currency's smallest unit (cents).
type Money int64

// Format renders a Money value as a two-decimal string ("5.50").
func (m Money) Format() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
}

// Currency represents a currency code
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// Status represents payment status
type Status string

const (
	StatusCreated   Status = "created"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusUnderpaid Status = "underpaid"
	StatusOverpaid  Status = "overpaid"
	StatusCancelled Status = "cancelled"
)

// ZeroChargeID marks payments settled manually or free of charge; they never
// existed on the provider side and must not be looked up there.
const ZeroChargeID = "00000000-0000-0000-0000-000000000000"

// NewPayment creates a new payment with validation
func NewPayment(chargeID, description string, amount Money, currency Currency, method string) (*Payment, error) {
	if strings.TrimSpace(chargeID) == "" {
		return nil, fmt.Errorf("charge ID is required")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %d", amount)
	}
	if currency == "" {
		return nil, fmt.Errorf("currency is required")
	}

	return &Payment{
		ChargeID:    chargeID,
		Description: description,
		Amount:      amount,
		Currency:    currency,
		Status:      StatusCreated,
		Method:      method,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// IsSettled checks whether a settlement outcome has already been recorded.
func (p *Payment) IsSettled() bool {
	return p.Status == StatusPaid || p.Status == StatusUnderpaid || p.Status == StatusOverpaid
}

// IsTerminal checks whether the payment can take no further transitions.
func (p *Payment) IsTerminal() bool {
	return p.IsSettled() || p.Status == StatusCancelled
}

// CanCancel checks whether the payment may still be cancelled.
func (p *Payment) CanCancel() bool {
	return p.Status == StatusCreated || p.Status == StatusPending || p.Status == StatusApproved
}

// IsManuallySettled reports whether the payment carries the reserved
// all-zero charge id.
func (p *Payment) IsManuallySettled() bool {
	return p.ChargeID == ZeroChargeID
}
