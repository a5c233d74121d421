package handlers

import (
	"encoding/json"
	"net/http"

	"chargesync/internal/services/replay"
)

// ReplayEvents requeues logged webhook events for re-reconciliation.
func ReplayEvents(svc *replay.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req replay.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		resp, err := svc.Replay(r.Context(), req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "replay failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
