package postgres

import (
	"context"

	"chargesync/internal/store/repositories"
)

// unsupported answers every optional provider capability with an explicit
// ErrUnsupported result. Coinbase Commerce has no refund or customer API in
// this adapter, and these must never fault their way into the webhook path.
type unsupported struct{}

// NewUnsupportedCapabilities creates the stub capability set
func NewUnsupportedCapabilities() repositories.UnsupportedCapabilities {
	return unsupported{}
}

func (unsupported) RefundPayment(context.Context, int64) error      { return repositories.ErrUnsupported }
func (unsupported) CreateCustomer(context.Context, string) error    { return repositories.ErrUnsupported }
func (unsupported) UpdateCustomer(context.Context, string) error    { return repositories.ErrUnsupported }
func (unsupported) DeleteCustomer(context.Context, string) error    { return repositories.ErrUnsupported }
func (unsupported) CreateSubscription(context.Context, int64) error { return repositories.ErrUnsupported }
