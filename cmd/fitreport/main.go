package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	adapthttp "fitreport/internal/adapter/http"
	"fitreport/internal/adapter/memory"
	"fitreport/internal/adapter/postgres"
	"fitreport/internal/app"
	"fitreport/internal/config"
	"fitreport/internal/domain"
	"fitreport/internal/feed"
	"fitreport/internal/logging"
	"fitreport/internal/metrics"
)

// store is everything the services need from a storage backend.
type store interface {
	domain.WeightRepository
	domain.NutritionRepository
	domain.ProfileRepository
	domain.ReviewRepository
	domain.SnapshotReader
	domain.UserRepository
}

type backend struct {
	store    store
	sessions domain.SessionRepository
	importer func(ctx context.Context, userID string, snap domain.Snapshot) error
	close    func() error
}

func main() {
	env := flag.String("env", "development", "environment [dev | development | prod | production]")
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	importPath := flag.String("import", "", "JSON export to load before serving")
	importUser := flag.String("import-user", "", "username that receives the import")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logsCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
	})
	defer func() {
		if logsCloser != nil {
			_ = logsCloser.Close()
		}
	}()

	if err := run(cfg, *importPath, *importUser); err != nil {
		log.Errorf("fitreport: %s", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, importPath, importUser string) error {
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("time zone: %w", err)
	}
	weekStart, err := domain.ParseWeekday(cfg.WeekStart)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	m := metrics.NewManager(cfg.MetricsNamespace, "main", reg)
	hub := feed.NewHub()

	b, err := openBackend(ctx, cfg, hub)
	if err != nil {
		return err
	}
	defer func() { _ = b.close() }()

	if importPath != "" {
		if err := importFile(ctx, cfg, b, importPath, importUser); err != nil {
			return err
		}
	}

	clock := app.SystemClock(loc)
	authSvc := app.NewAuthService(b.store, b.sessions)
	srv := adapthttp.New(adapthttp.Services{
		Weight:    app.NewWeightService(b.store, clock),
		Nutrition: app.NewNutritionService(b.store, clock),
		Profile:   app.NewProfileService(b.store, clock),
		Review:    app.NewReviewService(b.store, clock),
		Report:    app.NewReportService(b.store, hub, m, clock, weekStart),
		Charts:    app.NewChartsService(b.store, clock, weekStart),
		Auth:      authSvc,
	}, cfg.WebDir).WithMetrics(m, reg)

	switch {
	case cfg.DisableAuth:
		log.Warn("authentication disabled, every request runs as the local user")
		srv.WithoutAuth()
	case cfg.ForwardAuth:
		srv.WithForwardAuth()
	}
	if cfg.SSOEnabled() {
		oidcCfg, err := newOIDC(ctx, cfg)
		if err != nil {
			return err
		}
		srv.WithOIDC(oidcCfg)
	}

	go cleanupSessions(ctx, b.sessions)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		// Report streams end when ctx is cancelled so Shutdown can drain them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func openBackend(ctx context.Context, cfg *config.Config, hub *feed.Hub) (*backend, error) {
	if cfg.InMemory {
		log.Info("using in-memory storage")
		db := memory.New(hub)
		return &backend{
			store:    db,
			sessions: db.NewSessionRepo(),
			importer: func(_ context.Context, userID string, snap domain.Snapshot) error {
				db.Import(userID, snap)
				return nil
			},
			close: func() error { return nil },
		}, nil
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database_url is required unless in_memory is set")
	}
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	go func() {
		if err := postgres.Listen(ctx, cfg.DatabaseURL, hub); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("change listener stopped: %s", err)
		}
	}()
	return &backend{
		store:    db,
		sessions: postgres.NewSessionRepo(db),
		importer: db.Import,
		close:    db.Close,
	}, nil
}

// importFile replaces the records of the import user with a JSON export.
func importFile(ctx context.Context, cfg *config.Config, b *backend, path, username string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decode import %s: %w", path, err)
	}

	userID := adapthttp.LocalUserID
	if !cfg.DisableAuth {
		if username == "" {
			return errors.New("-import-user is required when auth is enabled")
		}
		u, err := b.store.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("import user %q: %w", username, app.ErrUserNotFound)
		}
		userID = u.ID
	}

	if err := b.importer(ctx, userID, snap); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"weights": len(snap.Weights),
		"days":    len(snap.Days),
		"reviews": len(snap.Reviews),
	}).Info("imported snapshot")
	return nil
}

func newOIDC(ctx context.Context, cfg *config.Config) (adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("oidc provider: %w", err)
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func cleanupSessions(ctx context.Context, sessions domain.SessionRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				log.Warnf("delete expired sessions: %s", err)
			}
		}
	}
}
