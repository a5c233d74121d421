package handlers

import (
	"net/http"
	"strconv"

	"chargesync/internal/config"

	"github.com/go-chi/chi/v5"
)

type methodView struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name,omitempty"`
	Minimum     int64   `json:"minimum"`
	Maximum     int64   `json:"maximum"`
	Fee         float64 `json:"fee"`
}

// ListMethods returns the payment methods available for a given amount,
// filtered by the per-method enabled flag and min/max limits from config.
func ListMethods(cfg config.Cfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var amount int64
		if s := r.URL.Query().Get("amount"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil || v < 0 {
				writeError(w, http.StatusBadRequest, "invalid amount")
				return
			}
			amount = v
		}

		methods := make([]methodView, 0)
		for name, m := range cfg.Provider.Methods {
			if !m.Enabled {
				continue
			}
			if amount > 0 && (amount < m.Minimum || (m.Maximum > 0 && amount > m.Maximum)) {
				continue
			}
			methods = append(methods, methodView{
				Name:        name,
				DisplayName: m.DisplayName,
				Minimum:     m.Minimum,
				Maximum:     m.Maximum,
				Fee:         m.Fee,
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{"methods": methods})
	}
}

// GetMethod returns one method from the config table, or 404.
func GetMethod(cfg config.Cfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		m, ok := cfg.Provider.Methods[name]
		if !ok {
			writeError(w, http.StatusNotFound, "method not found")
			return
		}

		writeJSON(w, http.StatusOK, methodView{
			Name:        name,
			DisplayName: m.DisplayName,
			Minimum:     m.Minimum,
			Maximum:     m.Maximum,
			Fee:         m.Fee,
		})
	}
}
