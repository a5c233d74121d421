package repositories

import (
	"context"
	"errors"
	"time"

	"chargesync/internal/domain/event"
	"chargesync/internal/domain/payment"
)

var (
	// ErrNotFound signals a lookup miss. The webhook path recovers it into a
	// success no-op so provider redeliveries for purged payments stop.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyApproved signals that an approval-type transition was already
	// applied; callers treat it as an idempotent no-op, never a failure.
	ErrAlreadyApproved = errors.New("payment already approved")

	// ErrConflict signals a transition whose precondition no longer holds
	// (e.g. cancelling a paid payment).
	ErrConflict = errors.New("payment state conflicts with requested transition")

	// ErrUnsupported marks capabilities this adapter does not implement.
	ErrUnsupported = errors.New("operation not supported")
)

// PaymentStore defines the mutations the reconciliation engine needs. Each
// mutation is a status-guarded update so concurrent redeliveries for the same
// charge serialize in the database, not in the engine.
type PaymentStore interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByChargeID(ctx context.Context, chargeID string) (*payment.Payment, error)
	List(ctx context.Context, limit, offset int) ([]*payment.Payment, error)

	Approve(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
	MarkPending(ctx context.Context, id int64) error
	MarkPaid(ctx context.Context, id int64, settled payment.Money) error
	RecordUnderpaid(ctx context.Context, id int64, settled payment.Money) error
	RecordOverpaid(ctx context.Context, id int64, settled payment.Money) error
}

// EventLog is the append-only audit of verified webhook notifications.
type EventLog interface {
	Append(ctx context.Context, n *event.Notification) (int64, error)
	MarkProcessed(ctx context.Context, id int64, status ProcessingStatus, detail string) error
	FindQueued(ctx context.Context, limit int) ([]LoggedEvent, error)
	Requeue(ctx context.Context, ids []int64) (int, error)
	RequeueWindow(ctx context.Context, since, until *time.Time, max int) (int, error)
}

// ProcessingStatus of a logged webhook event
type ProcessingStatus string

const (
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingFailed    ProcessingStatus = "failed"
	ProcessingQueued    ProcessingStatus = "queued"
)

// LoggedEvent is an event-log row handed to the replay worker.
type LoggedEvent struct {
	ID         int64
	EventID    string
	EventType  string
	ChargeID   string
	RawJSON    []byte
	ReceivedAt time.Time
}

// UnsupportedCapabilities covers the provider operations this adapter
// deliberately does not implement. Callers get an explicit ErrUnsupported
// result instead of a fault, so missing capabilities never block
// reconciliation.
type UnsupportedCapabilities interface {
	RefundPayment(ctx context.Context, paymentID int64) error
	CreateCustomer(ctx context.Context, externalID string) error
	UpdateCustomer(ctx context.Context, externalID string) error
	DeleteCustomer(ctx context.Context, externalID string) error
	CreateSubscription(ctx context.Context, paymentID int64) error
}
