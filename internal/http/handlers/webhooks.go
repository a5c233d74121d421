package handlers

import (
	"io"
	"net/http"

	"chargesync/internal/config"
	"chargesync/internal/core/reconcile"
	"chargesync/internal/provider/coinbase"
	redisx "chargesync/internal/store/redis"
	"chargesync/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// CoinbaseWebhook authenticates an inbound notification, logs it, and runs it
// through the reconciliation engine. Everything the provider should retry
// gets a 400 envelope; everything that must not be retried (lookup misses,
// redeliveries) gets a 200 no-op envelope.
func CoinbaseWebhook(cfg config.Cfg, engine *reconcile.Engine, events repositories.EventLog, dedup *redisx.DedupCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeHookFailed(w, "Hook failed.", "unreadable body")
			return
		}

		n, err := coinbase.VerifyWebhook(body, r.Header.Get(coinbase.SignatureHeader), cfg.Provider.WebhookSecret)
		if err != nil {
			log.Warn().Err(err).Msg("webhook rejected")
			writeHookFailed(w, "Hook failed. Invalid signature.", err.Error())
			return
		}

		if dedup.SeenOrMark(r.Context(), n.EventID) {
			writeHookOK(w, "Hook success, but nothing to do: duplicate delivery")
			return
		}

		logID, err := events.Append(r.Context(), n)
		if err != nil {
			// the audit trail is best-effort on the hot path
			log.Error().Err(err).Str("event_id", n.EventID).Msg("event log append failed")
		}

		res, err := engine.Process(r.Context(), n)
		if err != nil {
			// redelivery is the only retry path for a failed attempt, so the
			// event id must not stay registered as delivered
			dedup.Forget(r.Context(), n.EventID)
			e := events.MarkProcessed(r.Context(), logID, repositories.ProcessingFailed, err.Error())
			if e != nil {
				log.Error().Err(e).Int64("log_id", logID).Msg("event log update failed")
			}
			log.Error().Err(err).
				Str("event_id", n.EventID).
				Str("charge_id", n.ChargeID).
				Str("type", n.RawType).
				Msg("reconciliation failed")
			writeHookFailed(w, "Hook failed.", err.Error())
			return
		}

		if logID != 0 {
			if e := events.MarkProcessed(r.Context(), logID, repositories.ProcessingCompleted, res.Message); e != nil {
				log.Error().Err(e).Int64("log_id", logID).Msg("event log update failed")
			}
		}
		writeHookOK(w, res.Message)
	}
}
