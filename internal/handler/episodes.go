package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ugaemi/wantedsim-server/internal/store"
)

const maxEpisodeLimit = 500

// EpisodesHandler serves GET /episodes?session=CODE&limit=N.
func EpisodesHandler(es store.EpisodeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = min(n, maxEpisodeLimit)
		}
		code := strings.ToUpper(r.URL.Query().Get("session"))

		episodes, err := es.ListEpisodes(r.Context(), code, limit)
		if err != nil {
			slog.Error("list episodes failed", "session", code, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if episodes == nil {
			episodes = []*store.Episode{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(episodes); err != nil {
			slog.Warn("encode episodes failed", "error", err)
		}
	}
}
