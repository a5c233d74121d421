package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"chargesync/internal/config"
	"chargesync/internal/domain/payment"
	"chargesync/internal/provider/coinbase"
	"chargesync/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

type createChargeReq struct {
	Amount      int64  `json:"amount"` // minor units
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Method      string `json:"method"`
	RedirectURL string `json:"redirect_url"`
	CancelURL   string `json:"cancel_url"`
}

type createChargeResp struct {
	PaymentID int64  `json:"payment_id"`
	ChargeID  string `json:"charge_id"`
	HostedURL string `json:"hosted_url"`
}

// CreateCharge creates a one-time fixed-price charge at the provider and
// persists the matching payment in status created.
func CreateCharge(cfg config.Cfg, client *coinbase.Client, payments repositories.PaymentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createChargeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		if strings.TrimSpace(req.Currency) == "" {
			req.Currency = string(payment.EUR)
		}

		if req.Method != "" {
			m, ok := cfg.Provider.Methods[req.Method]
			if !ok || !m.Enabled {
				writeError(w, http.StatusBadRequest, "payment method not available")
				return
			}
			if req.Amount < m.Minimum || (m.Maximum > 0 && req.Amount > m.Maximum) {
				writeError(w, http.StatusBadRequest, "amount outside method limits")
				return
			}
		}

		charge, err := client.CreateCharge(r.Context(), coinbase.CreateChargeReq{
			Name:        cfg.App.Name,
			Description: req.Description,
			Amount:      payment.Money(req.Amount).Format(),
			Currency:    req.Currency,
			RedirectURL: req.RedirectURL,
			CancelURL:   req.CancelURL,
		})
		if err != nil {
			log.Error().Err(err).Int64("amount", req.Amount).Msg("charge creation failed")
			writeError(w, http.StatusBadGateway, "charge creation failed")
			return
		}

		p, err := payment.NewPayment(charge.ID, req.Description, payment.Money(req.Amount), payment.Currency(req.Currency), req.Method)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := payments.Create(r.Context(), p); err != nil {
			log.Error().Err(err).Str("charge_id", charge.ID).Msg("payment persist failed")
			writeError(w, http.StatusInternalServerError, "payment persist failed")
			return
		}

		writeJSON(w, http.StatusCreated, createChargeResp{
			PaymentID: p.ID,
			ChargeID:  charge.ID,
			HostedURL: charge.HostedURL,
		})
	}
}
