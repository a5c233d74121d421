package postgres

import (
	"context"
	"time"

	"chargesync/internal/domain/event"
	"chargesync/internal/store/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// eventRepository implements repositories.EventLog on Postgres. Only verified
// notifications are ever appended, so replay can trust stored payloads.
type eventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event log repository
func NewEventRepository(db *pgxpool.Pool) repositories.EventLog {
	return &eventRepository{db: db}
}

func (r *eventRepository) Append(ctx context.Context, n *event.Notification) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO hook_events (event_id, event_type, charge_id, payload_json, received_at, processing_status)
		VALUES ($1, $2, $3, $4, $5, 'completed')
		ON CONFLICT (event_id) DO UPDATE SET
			payload_json = EXCLUDED.payload_json,
			updated_at = now()
		RETURNING id`,
		n.EventID, n.RawType, n.ChargeID, n.RawJSON, n.ReceivedAt).Scan(&id)
	return id, err
}

func (r *eventRepository) MarkProcessed(ctx context.Context, id int64, status repositories.ProcessingStatus, detail string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE hook_events
		SET processing_status = $2, last_detail = $3, processed_at = now(), updated_at = now()
		WHERE id = $1`, id, string(status), detail)
	return err
}

func (r *eventRepository) FindQueued(ctx context.Context, limit int) ([]repositories.LoggedEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, event_id, event_type, charge_id, payload_json, received_at
		FROM hook_events
		WHERE processing_status = 'queued'
		ORDER BY received_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []repositories.LoggedEvent
	for rows.Next() {
		var e repositories.LoggedEvent
		if err := rows.Scan(&e.ID, &e.EventID, &e.EventType, &e.ChargeID, &e.RawJSON, &e.ReceivedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Requeue(ctx context.Context, ids []int64) (int, error) {
	count := 0
	for _, id := range ids {
		tag, err := r.db.Exec(ctx, `
			UPDATE hook_events
			SET processing_status = 'queued', processed_at = NULL, updated_at = now()
			WHERE id = $1`, id)
		if err != nil {
			return count, err
		}
		count += int(tag.RowsAffected())
	}
	return count, nil
}

func (r *eventRepository) RequeueWindow(ctx context.Context, since, until *time.Time, max int) (int, error) {
	if max <= 0 || max > 1000 {
		max = 200
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE hook_events
		SET processing_status = 'queued', processed_at = NULL, updated_at = now()
		WHERE id IN (
			SELECT id FROM hook_events
			WHERE ($1::timestamptz IS NULL OR received_at >= $1)
			  AND ($2::timestamptz IS NULL OR received_at <= $2)
			ORDER BY received_at ASC
			LIMIT $3
		)`, since, until, max)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
