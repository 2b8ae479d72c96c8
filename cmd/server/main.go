package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clockgeo/internal/location/cache"
	"clockgeo/internal/location/capture"
	"clockgeo/internal/location/coordcrypt"
	"clockgeo/internal/location/facility"
	"clockgeo/internal/location/geofence"
	"clockgeo/internal/location/handler"
	locmetrics "clockgeo/internal/location/metrics"
	"clockgeo/internal/location/permission"
	"clockgeo/internal/location/retention"
	"clockgeo/internal/location/store/memory"
	pgstore "clockgeo/internal/location/store/postgres"
	"clockgeo/internal/location/verification"
	"clockgeo/internal/platform/config"
	"clockgeo/internal/platform/httpserver"
	"clockgeo/internal/platform/logger"
	httpmetrics "clockgeo/internal/platform/metrics"
	"clockgeo/internal/platform/postgres"
	"clockgeo/internal/platform/ratelimit"
	redisclient "clockgeo/internal/platform/redis"
	"clockgeo/internal/platform/token"
	audit "clockgeo/pkg/platform/audit"
	"clockgeo/pkg/platform/audit/publisher"
	"clockgeo/pkg/platform/audit/store/kafka"
	"clockgeo/pkg/platform/audit/store/logsink"
	auditmemory "clockgeo/pkg/platform/audit/store/memory"
	"clockgeo/pkg/platform/httputil"
	"clockgeo/pkg/platform/middleware/admin"
	"clockgeo/pkg/platform/middleware/auth"
	"clockgeo/pkg/platform/middleware/metadata"
	"clockgeo/pkg/platform/middleware/request"
	"clockgeo/pkg/platform/middleware/requesttime"
	"clockgeo/pkg/platform/tx"
)

// main wires dependencies, exposes the HTTP router and owns the server
// lifecycle. Business logic lives in internal/location.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type stores struct {
	sites         geofence.SiteLocationStore
	events        capture.ClockEventStore
	verifications verification.VerificationStore
	samples       verification.AccuracyLogStore
	permissions   permission.Store
	runner        tx.Runner
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := locmetrics.New(prometheus.DefaultRegisterer)

	st, db, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var (
		siteCache cache.Cache     = cache.NewMemoryCache()
		limits    ratelimit.Store = ratelimit.NewMemoryStore()
	)
	if rdb != nil {
		defer rdb.Close()
		log.Info("site cache and rate limits backed by redis")
		siteCache = cache.NewRedisCache(rdb)
		limits = ratelimit.NewRedisStore(rdb)
	}

	sealer, err := openKeyring(cfg, log)
	if err != nil {
		return err
	}

	auditStore, closeAudit, err := openAuditStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithLogger(log),
		publisher.WithAsyncBuffer(cfg.Audit.Buffer),
	)
	defer auditPublisher.Close()

	lookup, err := openFacilityLookup(cfg, m)
	if err != nil {
		return err
	}

	sites := cache.NewCachedSiteStore(st.sites, siteCache, cfg.Geofence.SiteCacheTTL,
		cache.WithLogger(log),
		cache.WithMetrics(m),
	)
	validator := geofence.NewValidator(geofence.NewLocator(sites),
		geofence.WithLogger(log),
		geofence.WithMetrics(m),
	)
	recorder := verification.NewRecorder(st.verifications, st.samples, sealer,
		verification.WithLogger(log),
		verification.WithMetrics(m),
	)
	tracker := permission.New(st.permissions,
		permission.WithLogger(log),
		permission.WithAuditPublisher(auditPublisher),
	)
	captureSvc, err := capture.New(st.events, validator, recorder, newTimeoutRunner(st.runner),
		capture.WithLogger(log),
		capture.WithMetrics(m),
		capture.WithAuditPublisher(auditPublisher),
		capture.WithStrictMode(cfg.Geofence.StrictMode),
		capture.WithPermissionTracker(tracker),
		capture.WithFacilityLookup(lookup, cfg.Facility.Timeout),
	)
	if err != nil {
		return fmt.Errorf("build capture service: %w", err)
	}
	retentionSvc := retention.New(recorder, cfg.Geofence.RetentionDays,
		retention.WithLogger(log),
		retention.WithAuditPublisher(auditPublisher),
	)

	tokens := token.NewService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	router := newRouter(cfg, log, httpmetrics.New(prometheus.DefaultRegisterer), tokens, limits,
		handler.New(captureSvc, tracker, log),
		handler.NewAdmin(retentionSvc, log),
	)

	srv := httpserver.New(cfg.Server.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting clockgeo",
			"addr", cfg.Server.Addr,
			"strict_mode", cfg.Geofence.StrictMode,
			"audit_sink", cfg.Audit.Sink,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, log *slog.Logger, hm *httpmetrics.HTTP, tokens auth.TokenValidator, limits ratelimit.Store, locations *handler.Handler, adminHandler *handler.AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(hm.Middleware)
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, log))
		r.Use(ratelimit.PerUser(limits, cfg.RateLimit.Requests, cfg.RateLimit.Window, log))
		locations.Register(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.Server.AdminToken, log))
		adminHandler.Register(r)
	})
	return r
}

// openStores returns PostgreSQL stores when DATABASE_URL is set and
// in-memory stores otherwise.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, *sql.DB, error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set; using in-memory stores")
		return stores{
			sites:         memory.NewSiteLocationStore(),
			events:        memory.NewClockEventStore(),
			verifications: memory.NewVerificationStore(),
			samples:       memory.NewAccuracyLogStore(),
			permissions:   memory.NewPermissionStore(),
			runner:        memory.NewTxRunner(),
		}, nil, nil
	}
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return stores{}, nil, err
	}
	return stores{
		sites:         pgstore.NewSiteLocationStore(db),
		events:        pgstore.NewClockEventStore(db),
		verifications: pgstore.NewVerificationStore(db),
		samples:       pgstore.NewAccuracyLogStore(db),
		permissions:   pgstore.NewPermissionStore(db),
		runner:        tx.NewSQLRunner(db),
	}, db, nil
}

func openKeyring(cfg config.Config, log *slog.Logger) (*coordcrypt.Keyring, error) {
	if len(cfg.Encryption.Keys) == 0 {
		log.Warn("LOCATION_KEYS not set; coordinates are stored unencrypted")
		return coordcrypt.NewPlaintext(), nil
	}
	k, err := coordcrypt.NewKeyring(cfg.Encryption.CurrentVersion, cfg.Encryption.Keys)
	if err != nil {
		return nil, fmt.Errorf("build coordinate keyring: %w", err)
	}
	return k, nil
}

func openAuditStore(ctx context.Context, cfg config.Config, log *slog.Logger) (audit.Store, func(), error) {
	switch cfg.Audit.Sink {
	case "kafka":
		s, err := kafka.New(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureTopic(ctx, 3, 1); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	case "memory":
		return auditmemory.NewInMemoryStore(), func() {}, nil
	default:
		return logsink.New(log), func() {}, nil
	}
}

func openFacilityLookup(cfg config.Config, m *locmetrics.Metrics) (capture.FacilityLookup, error) {
	if cfg.Facility.URL == "" {
		return facility.Noop{}, nil
	}
	c, err := facility.NewClient(cfg.Facility.URL, cfg.Facility.Timeout, facility.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("build facility client: %w", err)
	}
	return c, nil
}
