package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"chargesync/internal/store/repositories"

	"github.com/go-chi/chi/v5"
)

// RefundPayment exposes the refund capability. The Commerce adapter does not
// implement refunds, so this answers 501 instead of pretending the money
// moved; callers get a stable signal rather than a silent drop.
func RefundPayment(caps repositories.UnsupportedCapabilities) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid payment id")
			return
		}

		err = caps.RefundPayment(r.Context(), id)
		if errors.Is(err, repositories.ErrUnsupported) {
			writeError(w, http.StatusNotImplemented, "refunds are not supported")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "refund failed")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
