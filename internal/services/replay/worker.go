package replay

import (
	"context"
	"time"

	"chargesync/internal/core/reconcile"
	"chargesync/internal/provider/coinbase"
	redisx "chargesync/internal/store/redis"
	"chargesync/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// Worker drains queued (replayed) events through the reconciliation engine.
// Stored payloads were signature-verified at ingest, so only envelope parsing
// is repeated here.
type Worker struct {
	events    repositories.EventLog
	engine    *reconcile.Engine
	dedup     *redisx.DedupCache
	pollEvery time.Duration
	batchSize int
}

// NewWorker creates a replay worker
func NewWorker(events repositories.EventLog, engine *reconcile.Engine, dedup *redisx.DedupCache, pollEvery time.Duration, batchSize int) *Worker {
	if pollEvery == 0 {
		pollEvery = 2 * time.Second
	}
	if batchSize == 0 {
		batchSize = 50
	}
	return &Worker{
		events:    events,
		engine:    engine,
		dedup:     dedup,
		pollEvery: pollEvery,
		batchSize: batchSize,
	}
}

// Run processes queued events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Info().
		Dur("poll_every", w.pollEvery).
		Int("batch_size", w.batchSize).
		Msg("replay worker started")

	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("replay worker stopping")
			return
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				log.Error().Err(err).Msg("replay batch failed")
			}
		}
	}
}

func (w *Worker) processBatch(ctx context.Context) error {
	queued, err := w.events.FindQueued(ctx, w.batchSize)
	if err != nil {
		return err
	}

	for _, e := range queued {
		w.processOne(ctx, e)
	}
	return nil
}

func (w *Worker) processOne(ctx context.Context, e repositories.LoggedEvent) {
	// a requeued event must not be swallowed by its own dedup entry
	w.dedup.Forget(ctx, e.EventID)

	n, err := coinbase.ParseEnvelope(e.RawJSON)
	if err != nil {
		log.Error().Err(err).Int64("log_id", e.ID).Msg("replay: stored payload unparseable")
		w.finish(ctx, e.ID, repositories.ProcessingFailed, err.Error())
		return
	}

	res, err := w.engine.Process(ctx, n)
	if err != nil {
		log.Error().Err(err).
			Int64("log_id", e.ID).
			Str("charge_id", e.ChargeID).
			Msg("replay: reconciliation failed")
		w.finish(ctx, e.ID, repositories.ProcessingFailed, err.Error())
		return
	}

	log.Info().
		Int64("log_id", e.ID).
		Str("charge_id", e.ChargeID).
		Bool("applied", res.Applied).
		Msg("replay: event reconciled")
	w.finish(ctx, e.ID, repositories.ProcessingCompleted, res.Message)
}

func (w *Worker) finish(ctx context.Context, id int64, status repositories.ProcessingStatus, detail string) {
	if err := w.events.MarkProcessed(ctx, id, status, detail); err != nil {
		log.Error().Err(err).Int64("log_id", id).Msg("replay: event log update failed")
	}
}
