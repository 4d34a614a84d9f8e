package adapthttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"fitreport/internal/app"
	"fitreport/internal/domain"
	"fitreport/internal/trend"
)

func (s *Server) handleReportWeeks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	weeks, err := s.report.Weeks(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeks": weeks})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	week, err := weekQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	report, err := s.report.Build(r.Context(), userFromContext(r).ID, week, r.URL.Query().Get("unit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleReportStream serves the report as Server-Sent Events, sending a new
// "report" event after every change to the user's records.
func (s *Server) handleReportStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	week, err := weekQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	unit := r.URL.Query().Get("unit")
	if unit != "" && domain.NormalizeUnit(unit) == "" {
		writeServiceError(w, r, fmt.Errorf("%w: unit must be %q or %q", app.ErrInvalidInput, domain.UnitLb, domain.UnitKg))
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	send := func(event string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}
		return rc.Flush()
	}

	user := userFromContext(r)
	err = s.report.Stream(r.Context(), user.ID, week, unit, func(report *trend.Report) error {
		return send("report", report)
	})
	if err != nil {
		log.WithError(err).WithField("user", user.ID).Warn("report stream failed")
		_ = send("error", map[string]any{"error": err.Error(), "status": statusFor(err)})
	}
}
