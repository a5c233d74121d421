package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chargesync/internal/domain/payment"
	"chargesync/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// paymentRepository implements repositories.PaymentStore on Postgres.
// Every lifecycle mutation is a compare-and-set UPDATE guarded by the current
// status, so racing redeliveries of the same event commit at most one
// transition.
type paymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *pgxpool.Pool) repositories.PaymentStore {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO payments (charge_id, description, amount, settled_amount, currency, status, method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		p.ChargeID, p.Description, int64(p.Amount), int64(p.SettledAmount),
		string(p.Currency), string(p.Status), p.Method, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *paymentRepository) FindByChargeID(ctx context.Context, chargeID string) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, charge_id, description, amount, settled_amount, currency, status, method, created_at, updated_at
		FROM payments
		WHERE charge_id = $1`, chargeID)

	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return p, err
}

func (r *paymentRepository) List(ctx context.Context, limit, offset int) ([]*payment.Payment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, charge_id, description, amount, settled_amount, currency, status, method, created_at, updated_at
		FROM payments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Approve moves a payment into approved. Already-settled payments report
// repositories.ErrAlreadyApproved so callers can treat redelivery as a no-op.
func (r *paymentRepository) Approve(ctx context.Context, id int64) error {
	return r.transition(ctx, id, `
		UPDATE payments SET status = 'approved', updated_at = now()
		WHERE id = $1 AND status IN ('created', 'pending')`)
}

func (r *paymentRepository) Cancel(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status IN ('created', 'pending', 'approved')`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	status, err := r.currentStatus(ctx, id)
	if err != nil {
		return err
	}
	if status == payment.StatusCancelled {
		// second charge:failed delivery, nothing left to do
		return nil
	}
	return fmt.Errorf("%w: cannot cancel payment in status %s", repositories.ErrConflict, status)
}

func (r *paymentRepository) MarkPending(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE payments SET status = 'pending', updated_at = now()
		WHERE id = $1 AND status = 'created'`, id)
	return err
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id int64, settled payment.Money) error {
	return r.settle(ctx, id, payment.StatusPaid, settled)
}

func (r *paymentRepository) RecordUnderpaid(ctx context.Context, id int64, settled payment.Money) error {
	return r.settle(ctx, id, payment.StatusUnderpaid, settled)
}

func (r *paymentRepository) RecordOverpaid(ctx context.Context, id int64, settled payment.Money) error {
	return r.settle(ctx, id, payment.StatusOverpaid, settled)
}

func (r *paymentRepository) settle(ctx context.Context, id int64, status payment.Status, settled payment.Money) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments SET status = $2, settled_amount = $3, updated_at = now()
		WHERE id = $1 AND status = 'approved'`, id, string(status), int64(settled))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := r.currentStatus(ctx, id)
	if err != nil {
		return err
	}
	if current == status {
		return repositories.ErrAlreadyApproved
	}
	return fmt.Errorf("%w: cannot settle payment in status %s", repositories.ErrConflict, current)
}

func (r *paymentRepository) transition(ctx context.Context, id int64, query string) error {
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	status, err := r.currentStatus(ctx, id)
	if err != nil {
		return err
	}
	switch status {
	case payment.StatusApproved, payment.StatusPaid, payment.StatusUnderpaid, payment.StatusOverpaid:
		return repositories.ErrAlreadyApproved
	default:
		return fmt.Errorf("%w: cannot approve payment in status %s", repositories.ErrConflict, status)
	}
}

func (r *paymentRepository) currentStatus(ctx context.Context, id int64) (payment.Status, error) {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM payments WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repositories.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return payment.Status(status), nil
}

// scanPayment scans a row into the payment domain object
func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var description sql.NullString
	var amount, settled int64

	err := row.Scan(
		&p.ID, &p.ChargeID, &description, &amount, &settled,
		&p.Currency, &p.Status, &p.Method, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Amount = payment.Money(amount)
	p.SettledAmount = payment.Money(settled)
	if description.Valid {
		p.Description = description.String
	}
	return &p, nil
}
