package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vulnshop/internal/commerce"
	"vulnshop/internal/commerce/cache"
	commercehandler "vulnshop/internal/commerce/handler"
	"vulnshop/internal/commerce/service"
	"vulnshop/internal/jwttoken"
	"vulnshop/internal/platform/config"
	"vulnshop/internal/platform/httpserver"
	"vulnshop/internal/platform/logger"
	"vulnshop/internal/platform/metrics"
	"vulnshop/internal/platform/middleware"
	platformredis "vulnshop/internal/platform/redis"
	"vulnshop/internal/render"
	"vulnshop/internal/security"
	securityhandler "vulnshop/internal/security/handler"
	securitymetrics "vulnshop/internal/security/metrics"
	"vulnshop/pkg/platform/httputil"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	requestMetrics := metrics.New()
	secMetrics := securitymetrics.New()

	auditLog := security.NewAuditLog()
	controller := security.NewController(security.ParseMode(cfg.InitialMode), auditLog, secMetrics)
	detector := security.NewDetector(auditLog, secMetrics)
	policy := render.NewPolicy(controller)

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		log.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		// The cache is best effort; the storefront runs without it.
		log.Warn("redis unavailable, product cache disabled", "error", err)
	}
	var productCache service.ProductCache
	var health healthChecker
	if pc := cache.New(redisClient, config.ProductCacheTTL, log); pc != nil {
		productCache = pc
		health = redisClient
		defer redisClient.Close()
	}

	commerceService := service.New(store, detector, productCache, log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "vulnshop", "vulnshop")
	requireAuth := middleware.RequireAuth(jwttoken.NewMiddlewareAdapter(jwtService), log)

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Logger(log),
		middleware.Timeout(30*time.Second),
		middleware.Latency(requestMetrics),
	)

	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		securityhandler.New(controller, log).Register(r)
		commercehandler.New(commerceService, policy, log).Register(r, requireAuth)
		r.Get("/healthz", healthzHandler(health))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting vulnshop", "addr", cfg.Addr, "mode", controller.Mode())

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// healthChecker is the optional dependency health probe; the redis client
// wrapper satisfies it.
type healthChecker interface {
	Health(ctx context.Context) error
}

// healthzHandler reports ok, or degraded when a configured dependency fails
// its health check. A nil checker means no optional dependency is wired.
func healthzHandler(check healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// buildStore picks the backing store: postgres when DATABASE_URL is set, the
// seeded in-memory catalog otherwise.
func buildStore(cfg config.Server) (commerce.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		store := commerce.NewInMemoryStore()
		commerce.SeedSampleCatalog(store)
		return store, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return commerce.NewPostgresStore(db), func() { _ = db.Close() }, nil
}
