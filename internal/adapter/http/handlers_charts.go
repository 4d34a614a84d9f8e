package adapthttp

import (
	"net/http"
)

func (s *Server) handleChartsWeight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := userFromContext(r)
	points, unit, err := s.charts.WeightTrend(r.Context(), user.ID, r.URL.Query().Get("unit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"unit":  unit,
		"items": points,
	})
}
