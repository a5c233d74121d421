package httpx

import (
	"encoding/json"
	"net/http"

	"chargesync/internal/config"
	"chargesync/internal/core/reconcile"
	"chargesync/internal/http/handlers"
	middlewarex "chargesync/internal/http/middleware"
	"chargesync/internal/provider/coinbase"
	"chargesync/internal/services/replay"
	redisx "chargesync/internal/store/redis"
	"chargesync/internal/store/repositories"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config        config.Cfg
	Engine        *reconcile.Engine
	ChargeClient  *coinbase.Client
	Payments      repositories.PaymentStore
	Events        repositories.EventLog
	ReplayService *replay.Service
	Dedup         *redisx.DedupCache
	Capabilities  repositories.UnsupportedCapabilities
}

// NewRouter assembles the HTTP surface: the public webhook, the
// token-guarded charges API, and the admin replay endpoint.
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Webhook endpoint (public, gated by signature verification)
	r.Post("/hooks/coinbase", handlers.CoinbaseWebhook(deps.Config, deps.Engine, deps.Events, deps.Dedup))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.APIAuth(deps.Config))

		r.Post("/charges", handlers.CreateCharge(deps.Config, deps.ChargeClient, deps.Payments))
		r.Get("/payments", handlers.ListPayments(deps.Payments))
		r.Post("/payments/{id}/refund", handlers.RefundPayment(deps.Capabilities))
		r.Get("/methods", handlers.ListMethods(deps.Config))
		r.Get("/methods/{name}", handlers.GetMethod(deps.Config))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarex.AdminAuth(deps.Config))

		r.Post("/events/replay", handlers.ReplayEvents(deps.ReplayService))
	})

	return r
}
