// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the movie recommendation HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL and run migrations, when configured.
//  4. Connect to Redis, Badger and NATS, when configured.
//  5. Load the catalog through the provider chain.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/MORAX777/Movies-Recommendation-System/data"
	"github.com/MORAX777/Movies-Recommendation-System/internal/api"
	"github.com/MORAX777/Movies-Recommendation-System/internal/catalog"
	"github.com/MORAX777/Movies-Recommendation-System/internal/interaction"
	badgerstore "github.com/MORAX777/Movies-Recommendation-System/internal/platform/badger"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/config"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/migration"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/natsconn"
	pgstore "github.com/MORAX777/Movies-Recommendation-System/internal/platform/postgres"
	redisstore "github.com/MORAX777/Movies-Recommendation-System/internal/platform/redis"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/sec"
	"github.com/MORAX777/Movies-Recommendation-System/internal/recommend"
	"github.com/MORAX777/Movies-Recommendation-System/internal/users/account"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_backend", cfg.StoreBackend),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	var pool *pgxpool.Pool
	if cfg.UsesDatabase() {
		pool, err = pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		source := migration.FromFS(data.Migrations, data.MigrationsDir)
		if cfg.MigrationPath != "" {
			source = migration.FromDir(cfg.MigrationPath)
		}
		must(log, migration.RunUp(cfg.DatabaseURL, source, log), "run migrations")
	}

	// ── 4. Redis ──────────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Badger ─────────────────────────────────────────────────────────
	var embedded *badger.DB
	if cfg.StoreBackend == config.BackendBadger {
		embedded, err = badgerstore.Open(cfg.BadgerPath, log)
		must(log, err, "open badger")
		defer func() {
			log.Info("closing badger")
			if cerr := embedded.Close(); cerr != nil {
				log.Error("badger close error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 6. NATS ───────────────────────────────────────────────────────────
	var events *nats.Conn
	if cfg.NATSURL != "" {
		events, err = natsconn.Connect(natsconn.Options{URL: cfg.NATSURL}, log)
		must(log, err, "connect to nats")
		defer func() {
			log.Info("draining nats connection")
			if cerr := events.Drain(); cerr != nil {
				log.Error("nats drain error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 7. Catalog ────────────────────────────────────────────────────────
	holder := catalog.NewHolder(catalogChain(cfg, pool, log), log)
	loadCtx, loadCancel := context.WithTimeout(startupCtx, constants.CatalogLoadTimeout)
	_, err = holder.Reload(loadCtx)
	loadCancel()
	must(log, err, "load catalog")
	go holder.Run(rootCtx, cfg.CatalogReloadInterval)

	// ── 8. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	store, err := interaction.NewStore(cfg.StoreBackend, interaction.Deps{
		Pool:   pool,
		Redis:  universal(rdb),
		Badger: embedded,
	}, cfg.IsProduction())
	must(log, err, "initialize interaction store")

	publisher := interaction.NewNATSPublisher(events, cfg.NATSSubjectPrefix, log)
	interactionService := interaction.NewService(store, holder, publisher, log)

	engine := recommend.NewEngine(holder, store, recommend.Options{
		TopLabels: cfg.TopLabels,
		MinExact:  cfg.MinExact,
	})

	accountService := account.NewService(
		accountRepository(pool, log),
		attemptTracker(rdb),
		tokens,
		cfg.TokenTTL,
		log,
	)

	// ── 10. Health handlers ───────────────────────────────────────────────
	healthDeps := api.HealthDependencies{Catalog: holder}
	if pool != nil {
		healthDeps.CheckDatabase = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
	}
	if rdb != nil {
		healthDeps.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}
	if events != nil {
		healthDeps.CheckEvents = func(context.Context) error {
			if !events.IsConnected() {
				return fmt.Errorf("nats status %s", events.Status())
			}
			return nil
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 11. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Account:     account.NewHandler(accountService),
		Catalog:     catalog.NewHandler(catalog.NewService(holder, log)),
		Recommend:   recommend.NewHandler(engine, cfg.DefaultLimit),
		Interaction: interaction.NewHandler(interactionService),
	}

	server := api.NewServer(rootCtx, cfg, log, tokens, handlers)

	// ── 12. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	rootCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// catalogChain orders the configured catalog sources: database, files, URL, embedded seed.
func catalogChain(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) *catalog.Chain {
	var providers []catalog.Provider
	if cfg.CatalogFromDatabase && pool != nil {
		providers = append(providers, catalog.NewPostgresProvider(pool))
	}
	if len(cfg.CatalogFiles) > 0 {
		providers = append(providers, catalog.NewFileProvider(cfg.CatalogFiles...))
	}
	if cfg.CatalogURL != "" {
		providers = append(providers, catalog.NewHTTPProvider(cfg.CatalogURL, nil, log))
	}
	providers = append(providers, catalog.NewSeedProvider())

	return catalog.NewChain(log, providers...)
}

func accountRepository(pool *pgxpool.Pool, log *slog.Logger) account.AccountRepository {
	if pool == nil {
		log.Warn("accounts_in_memory", slog.String("effect", "accounts are lost on restart"))
		return account.NewMemoryAccountRepository()
	}
	return account.NewAccountRepository(pool)
}

func attemptTracker(rdb *redis.Client) account.AttemptTracker {
	if rdb == nil {
		return account.NewMemoryAttemptTracker(account.LockoutWindow)
	}
	return account.NewRedisAttemptTracker(rdb, account.LockoutWindow)
}

// universal avoids handing a typed nil *redis.Client to an interface field.
func universal(rdb *redis.Client) redis.UniversalClient {
	if rdb == nil {
		return nil
	}
	return rdb
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
