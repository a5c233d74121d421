package replay

import (
	"context"
	"time"

	"chargesync/internal/store/repositories"
)

// Service requeues logged webhook events for re-reconciliation. Replay is
// operator-triggered only; automatic retries stay with the provider's own
// redelivery mechanism. The worker clears any dedup entry before reprocessing.
type Service struct {
	events repositories.EventLog
}

// NewService creates a replay service
func NewService(events repositories.EventLog) *Service {
	return &Service{events: events}
}

// Request selects events either by id or by received-at window.
type Request struct {
	EventIDs []int64    `json:"eventIds,omitempty"`
	Since    *time.Time `json:"since,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
	Max      int        `json:"max,omitempty"`
}

// Response reports how many events were requeued.
type Response struct {
	RequeuedCount int `json:"requeued"`
}

// Replay marks the selected events queued; the worker picks them up.
func (s *Service) Replay(ctx context.Context, req Request) (*Response, error) {
	var count int
	var err error

	if len(req.EventIDs) > 0 {
		count, err = s.events.Requeue(ctx, req.EventIDs)
	} else {
		count, err = s.events.RequeueWindow(ctx, req.Since, req.Until, req.Max)
	}
	if err != nil {
		return nil, err
	}

	return &Response{RequeuedCount: count}, nil
}
