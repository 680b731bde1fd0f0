package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	gatemetrics "hrportal/internal/gate/metrics"
	identityhandler "hrportal/internal/identity/handler"
	identitymetrics "hrportal/internal/identity/metrics"
	identityservice "hrportal/internal/identity/service"
	identitystore "hrportal/internal/identity/store"
	leavehandler "hrportal/internal/leave/handler"
	leavemetrics "hrportal/internal/leave/metrics"
	leaveservice "hrportal/internal/leave/service"
	leavestore "hrportal/internal/leave/store"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/httpserver"
	"hrportal/internal/platform/logger"
	"hrportal/internal/platform/postgres"
	"hrportal/internal/platform/redis"
	"hrportal/internal/session"
	"hrportal/internal/session/store/revocation"
	httptransport "hrportal/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres and Redis are optional: absent URLs select the in-memory
	// implementations, which is how local development runs.
	pool, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}

	var users identitystore.UserStore
	var leaves leavestore.LeaveStore
	if pool != nil {
		userStore := identitystore.NewPostgres(pool)
		leaveStore := leavestore.NewPostgres(pool)
		if err := userStore.EnsureSchema(ctx); err != nil {
			log.Error("users schema setup failed", "error", err)
			os.Exit(1)
		}
		if err := leaveStore.EnsureSchema(ctx); err != nil {
			log.Error("leaves schema setup failed", "error", err)
			os.Exit(1)
		}
		users, leaves = userStore, leaveStore
		log.Info("using postgres stores")
	} else {
		users, leaves = identitystore.NewInMemoryUserStore(), leavestore.NewInMemoryLeaveStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var revocations revocation.Store
	if redisClient != nil {
		revocations = revocation.NewRedisStore(redisClient.Client)
		log.Info("using redis revocation store")
	} else {
		revocations = revocation.NewInMemoryStore()
		log.Warn("REDIS_URL not set, using in-memory revocation store")
	}

	issuer := session.NewIssuer(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.SessionTTL)
	refresher := session.NewRefresher(users, issuer, log)

	identityMetrics := identitymetrics.New()
	leaveMetrics := leavemetrics.New()
	gateMetrics := gatemetrics.New()

	identitySvc := identityservice.New(users, identityMetrics, log)
	leaveSvc := leaveservice.New(leaves, users, leaveMetrics, log)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:        log,
		Issuer:        issuer,
		Revocations:   revocations,
		GateMetrics:   gateMetrics,
		Identity:      identityhandler.New(identitySvc, issuer, refresher, revocations, identityMetrics, cfg.SessionCookie, log),
		Leave:         leavehandler.New(leaveSvc, log),
		SessionCookie: cfg.SessionCookie,
	})

	checks := map[string]httptransport.HealthChecker{}
	if pool != nil {
		checks["postgres"] = httptransport.PoolChecker(pool)
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	srv := httpserver.New(cfg.Addr, router)
	opsSrv := httpserver.New(cfg.OpsAddr, httptransport.NewOpsRouter(checks))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting hr portal", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting ops listener", "addr", cfg.OpsAddr)
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		if err := opsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("ops shutdown failed", "error", err)
		}
		if pool != nil {
			pool.Close()
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
