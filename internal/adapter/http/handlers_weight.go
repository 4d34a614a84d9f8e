package adapthttp

import (
	"net/http"

	"fitreport/internal/domain"
)

// unitQuery reads the display unit, defaulting to pounds.
func unitQuery(r *http.Request) string {
	if u := r.URL.Query().Get("unit"); u != "" {
		return u
	}
	return domain.UnitLb
}

func (s *Server) handleWeightToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(r)

	switch r.Method {
	case http.MethodGet:
		entry, today, err := s.weight.GetTodayWeight(ctx, user.ID, unitQuery(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"today": today, "entry": entry})

	case http.MethodPut:
		var body struct {
			Value float64 `json:"value"`
			Unit  string  `json:"unit"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, today, err := s.weight.RecordWeight(ctx, user.ID, body.Value, body.Unit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"today": today, "entry": entry})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleWeightRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := intQuery(r, "limit", 14)
	items, err := s.weight.ListRecent(r.Context(), userFromContext(r).ID, limit, unitQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleWeightUndoLast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleted, entry, today, err := s.weight.UndoLast(r.Context(), userFromContext(r).ID, unitQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted, "today": today, "entry": entry})
}
