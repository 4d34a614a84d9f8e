package adapthttp

import (
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"

	"fitreport/internal/app"
	"fitreport/internal/metrics"
)

// LocalUserID is the user every request runs as when auth is disabled.
const LocalUserID = "local"

// Services are the application services the adapter drives.
type Services struct {
	Weight    *app.WeightService
	Nutrition *app.NutritionService
	Profile   *app.ProfileService
	Review    *app.ReviewService
	Report    *app.ReportService
	Charts    *app.ChartsService
	Auth      *app.AuthService
}

// OIDCConfig holds the SSO provider settings. The zero value disables SSO.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weight    *app.WeightService
	nutrition *app.NutritionService
	profile   *app.ProfileService
	review    *app.ReviewService
	report    *app.ReportService
	charts    *app.ChartsService
	authSvc   *app.AuthService

	oidcConfig  OIDCConfig
	forwardAuth bool
	disableAuth bool

	metrics  *metrics.Manager
	gatherer prometheus.Gatherer
	webDir   string
}

// New creates a Server wired to the given application services.
func New(svc Services, webDir string) *Server {
	return &Server{
		weight:    svc.Weight,
		nutrition: svc.Nutrition,
		profile:   svc.Profile,
		review:    svc.Review,
		report:    svc.Report,
		charts:    svc.Charts,
		authSvc:   svc.Auth,
		webDir:    webDir,
	}
}

// WithOIDC enables SSO login.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// WithForwardAuth trusts the Remote-User header set by a reverse proxy.
func (s *Server) WithForwardAuth() *Server {
	s.forwardAuth = true
	return s
}

// WithMetrics records request metrics in m and serves g on /metrics.
func (s *Server) WithMetrics(m *metrics.Manager, g prometheus.Gatherer) *Server {
	s.metrics = m
	s.gatherer = g
	return s
}

// WithoutAuth runs every request as LocalUserID.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/weight/today", s.handleWeightToday)
	protected.HandleFunc("/weight/recent", s.handleWeightRecent)
	protected.HandleFunc("/weight/undo-last", s.handleWeightUndoLast)

	protected.HandleFunc("/nutrition/day", s.handleNutritionDay)
	protected.HandleFunc("/nutrition/recent", s.handleNutritionRecent)
	protected.HandleFunc("/profile", s.handleProfile)
	protected.HandleFunc("/reviews", s.handleReviews)

	protected.HandleFunc("/report", s.handleReport)
	protected.HandleFunc("/report/weeks", s.handleReportWeeks)
	protected.HandleFunc("/report/stream", s.handleReportStream)
	protected.HandleFunc("/charts/weight", s.handleChartsWeight)

	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	if s.gatherer != nil {
		root.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	root.Handle("/", spaFromDisk(s.webDir))

	var h http.Handler = withNoCache(root)
	h = s.loggingMiddleware(h)
	h = s.metricsMiddleware(h)
	h = s.recoveryMiddleware(h)
	return h
}
