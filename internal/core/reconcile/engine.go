package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chargesync/internal/domain/event"
	"chargesync/internal/domain/payment"
	"chargesync/internal/provider/coinbase"
	"chargesync/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// ChargeRetriever is the slice of the provider client the engine needs.
type ChargeRetriever interface {
	RetrieveCharge(ctx context.Context, externalID string) (*coinbase.Charge, error)
}

// OutcomeKind classifies the amount reconciliation result
type OutcomeKind string

const (
	OutcomeExact OutcomeKind = "exact"
	OutcomeUnder OutcomeKind = "under"
	OutcomeOver  OutcomeKind = "over"
)

// Outcome is the amount reconciliation classification; Delta is the absolute
// difference in minor units for under/over payments.
type Outcome struct {
	Kind  OutcomeKind
	Delta payment.Money
}

// Result reports what a reconciliation attempt did.
type Result struct {
	Applied bool   // a store mutation was committed
	Message string // response text for the provider envelope
	Status  payment.Status
	Outcome *Outcome // set only for resolved events
}

func noop(msg string) Result {
	return Result{Applied: false, Message: "Hook success, but nothing to do: " + msg}
}

// Engine turns verified notifications into at-most-one payment transition
// each. It holds no locks and no mutable state; concurrent deliveries for the
// same charge serialize through the store's status-guarded updates.
type Engine struct {
	payments repositories.PaymentStore
	charges  ChargeRetriever
	timeout  time.Duration
}

// NewEngine creates a reconciliation engine. timeout bounds each provider
// confirmation call.
func NewEngine(payments repositories.PaymentStore, charges ChargeRetriever, timeout time.Duration) *Engine {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &Engine{payments: payments, charges: charges, timeout: timeout}
}

// Process applies the lifecycle transition implied by the notification.
// Redelivered events and lookup misses come back as successful no-ops:
// failing them would only make the provider redeliver harder.
func (e *Engine) Process(ctx context.Context, n *event.Notification) (Result, error) {
	if n.Type == event.TypeUnknown {
		log.Debug().Str("type", n.RawType).Str("charge_id", n.ChargeID).Msg("ignoring unknown event type")
		return noop(n.RawType), nil
	}

	p, err := e.payments.FindByChargeID(ctx, n.ChargeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return noop("payment " + n.ChargeID + " not found"), nil
	}
	if err != nil {
		return Result{}, err
	}

	switch n.Type {
	case event.TypeConfirmed:
		return e.confirmed(ctx, p)
	case event.TypeResolved:
		return e.resolved(ctx, p, n)
	case event.TypePending:
		return e.pending(ctx, p)
	case event.TypeFailed:
		return e.failed(ctx, p)
	default:
		return noop(n.RawType), nil
	}
}

// confirmed handles charge:confirmed: verify the charge with the provider,
// then approve and settle at the expected amount.
func (e *Engine) confirmed(ctx context.Context, p *payment.Payment) (Result, error) {
	if p.IsSettled() {
		return e.alreadyApproved(p), nil
	}
	if p.Status == payment.StatusCancelled {
		return Result{}, fmt.Errorf("%w: charge confirmed for cancelled payment %d", repositories.ErrConflict, p.ID)
	}

	if err := e.confirmCheckout(ctx, p); err != nil {
		return Result{}, err
	}

	if res, err := e.approve(ctx, p); err != nil || !res.Applied {
		return res, err
	}
	if err := e.payments.MarkPaid(ctx, p.ID, p.Amount); err != nil {
		return e.settleResult(p, err)
	}

	log.Info().Int64("payment_id", p.ID).Str("charge_id", p.ChargeID).Msg("payment confirmed and paid")
	return Result{Applied: true, Message: "Hook success", Status: payment.StatusPaid}, nil
}

// resolved handles charge:resolved: verify the charge, then reconcile the
// reported settlement lines against the expected amount.
func (e *Engine) resolved(ctx context.Context, p *payment.Payment, n *event.Notification) (Result, error) {
	if p.IsSettled() {
		return e.alreadyApproved(p), nil
	}

	settled := payment.Money(n.SettledMinorUnits())
	if settled == 0 {
		return Result{}, ErrInvalidAmount
	}

	if err := e.confirmCheckout(ctx, p); err != nil {
		return Result{}, err
	}

	if res, err := e.approve(ctx, p); err != nil || !res.Applied {
		return res, err
	}

	outcome := classify(p.Amount, settled)
	var err error
	var status payment.Status
	switch outcome.Kind {
	case OutcomeExact:
		status = payment.StatusPaid
		err = e.payments.MarkPaid(ctx, p.ID, settled)
	case OutcomeUnder:
		status = payment.StatusUnderpaid
		err = e.payments.RecordUnderpaid(ctx, p.ID, settled)
	case OutcomeOver:
		status = payment.StatusOverpaid
		err = e.payments.RecordOverpaid(ctx, p.ID, settled)
	}
	if err != nil {
		return e.settleResult(p, err)
	}

	log.Info().
		Int64("payment_id", p.ID).
		Str("charge_id", p.ChargeID).
		Str("outcome", string(outcome.Kind)).
		Int64("expected", int64(p.Amount)).
		Int64("settled", int64(settled)).
		Msg("payment resolved")

	return Result{Applied: true, Message: "Hook success", Status: status, Outcome: &outcome}, nil
}

func (e *Engine) pending(ctx context.Context, p *payment.Payment) (Result, error) {
	if p.Status != payment.StatusCreated {
		// holding state already reached, or the payment moved on
		return noop("payment already " + string(p.Status)), nil
	}
	if err := e.payments.MarkPending(ctx, p.ID); err != nil {
		return Result{}, err
	}
	return Result{Applied: true, Message: "Hook success", Status: payment.StatusPending}, nil
}

func (e *Engine) failed(ctx context.Context, p *payment.Payment) (Result, error) {
	if p.Status == payment.StatusCancelled {
		return noop("payment already cancelled"), nil
	}
	if err := e.payments.Cancel(ctx, p.ID); err != nil {
		return Result{}, err
	}
	log.Info().Int64("payment_id", p.ID).Str("charge_id", p.ChargeID).Msg("payment cancelled")
	return Result{Applied: true, Message: "Hook success", Status: payment.StatusCancelled}, nil
}

// confirmCheckout re-fetches the authoritative charge status from the
// provider. Manually settled payments (all-zero charge id) short-circuit to
// success without touching the network. The call carries its own timeout and
// runs before any store mutation, so no row is held while waiting.
func (e *Engine) confirmCheckout(ctx context.Context, p *payment.Payment) error {
	if p.IsManuallySettled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	charge, err := e.charges.RetrieveCharge(ctx, p.ChargeID)
	if err != nil {
		return &ProviderError{ChargeID: p.ChargeID, Err: err}
	}
	if !charge.Status.Settled() {
		return fmt.Errorf("%w: charge %s status is %s", ErrNotConfirmed, p.ChargeID, charge.Status)
	}
	return nil
}

// approve applies the approval transition, folding the store's
// already-approved signal into an idempotent no-op result.
func (e *Engine) approve(ctx context.Context, p *payment.Payment) (Result, error) {
	err := e.payments.Approve(ctx, p.ID)
	if errors.Is(err, repositories.ErrAlreadyApproved) {
		return e.alreadyApproved(p), nil
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Applied: true}, nil
}

func (e *Engine) alreadyApproved(p *payment.Payment) Result {
	res := noop("payment already approved")
	res.Status = p.Status
	return res
}

// settleResult maps a settlement-step store error; a concurrent delivery that
// won the race surfaces as ErrAlreadyApproved and becomes a no-op.
func (e *Engine) settleResult(p *payment.Payment, err error) (Result, error) {
	if errors.Is(err, repositories.ErrAlreadyApproved) {
		return e.alreadyApproved(p), nil
	}
	return Result{}, err
}

func classify(expected, settled payment.Money) Outcome {
	switch {
	case settled == expected:
		return Outcome{Kind: OutcomeExact}
	case settled < expected:
		return Outcome{Kind: OutcomeUnder, Delta: expected - settled}
	default:
		return Outcome{Kind: OutcomeOver, Delta: settled - expected}
	}
}
