package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount: a resolved event whose settlement lines sum to zero is
	// malformed or adversarial and must not proceed as paid.
	ErrInvalidAmount = errors.New("invalid settlement amount")

	// ErrNotConfirmed: the provider does not report the charge as settled.
	ErrNotConfirmed = errors.New("payment not confirmed")
)

// ProviderError wraps a transport or provider-side failure from the charge
// client, keeping the underlying cause for diagnostics.
type ProviderError struct {
	ChargeID string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider failure for charge %s: %v", e.ChargeID, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
