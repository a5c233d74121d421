package handlers

import (
	"net/http"
	"strconv"
	"time"

	"chargesync/internal/store/repositories"
)

type paymentView struct {
	ID            int64     `json:"id"`
	ChargeID      string    `json:"charge_id"`
	Description   string    `json:"description,omitempty"`
	Amount        int64     `json:"amount"`
	SettledAmount int64     `json:"settled_amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Method        string    `json:"method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListPayments returns payments for operational visibility.
func ListPayments(payments repositories.PaymentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		rows, err := payments.List(r.Context(), limit, offset)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list failed")
			return
		}

		views := make([]paymentView, 0, len(rows))
		for _, p := range rows {
			views = append(views, paymentView{
				ID:            p.ID,
				ChargeID:      p.ChargeID,
				Description:   p.Description,
				Amount:        int64(p.Amount),
				SettledAmount: int64(p.SettledAmount),
				Currency:      string(p.Currency),
				Status:        string(p.Status),
				Method:        p.Method,
				CreatedAt:     p.CreatedAt,
				UpdatedAt:     p.UpdatedAt,
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{"payments": views})
	}
}
