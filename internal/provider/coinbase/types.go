package coinbase

import "chargesync/internal/domain/event"

// ChargeStatus is the provider-side charge lifecycle status, taken from the
// last timeline entry of the charge resource.
type ChargeStatus string

const (
	ChargeNew       ChargeStatus = "NEW"
	ChargePending   ChargeStatus = "PENDING"
	ChargeConfirmed ChargeStatus = "CONFIRMED"
	ChargeResolved  ChargeStatus = "RESOLVED"
	ChargeExpired   ChargeStatus = "EXPIRED"
	ChargeCanceled  ChargeStatus = "CANCELED"
)

// Settled reports whether the provider considers the charge fully settled.
// RESOLVED covers charges that settled after an over/under-payment dispute.
func (s ChargeStatus) Settled() bool {
	return s == ChargeConfirmed || s == ChargeResolved
}

// Charge is the provider-side representation of a requested payment
type Charge struct {
	ID          string
	Code        string
	HostedURL   string
	Status      ChargeStatus
	Settlements []event.SettlementLine
}

// CreateChargeReq describes a fixed-price one-time charge to create
type CreateChargeReq struct {
	Name        string
	Description string
	Amount      string // decimal string, e.g. "5.50"
	Currency    string
	RedirectURL string
	CancelURL   string
}

// Wire shapes of the Commerce API. Responses wrap the resource in "data".

type chargeEnvelope struct {
	Data chargeData `json:"data"`
	Err  *apiError  `json:"error"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type chargeData struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	HostedURL string `json:"hosted_url"`
	Timeline  []struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	} `json:"timeline"`
	Payments []paymentLine `json:"payments"`
}

type paymentLine struct {
	Value struct {
		Local struct {
			Amount   string `json:"amount"`
			Currency string `json:"currency"`
		} `json:"local"`
	} `json:"value"`
}

func (d chargeData) status() ChargeStatus {
	if len(d.Timeline) == 0 {
		return ChargeNew
	}
	return ChargeStatus(d.Timeline[len(d.Timeline)-1].Status)
}

func (d chargeData) toCharge() *Charge {
	lines := make([]event.SettlementLine, 0, len(d.Payments))
	for _, p := range d.Payments {
		lines = append(lines, event.SettlementLine{
			Amount:   p.Value.Local.Amount,
			Currency: p.Value.Local.Currency,
		})
	}
	return &Charge{
		ID:          d.ID,
		Code:        d.Code,
		HostedURL:   d.HostedURL,
		Status:      d.status(),
		Settlements: lines,
	}
}
