package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/johncpakin/pinged/internal/adapters/primary/events"
	"github.com/johncpakin/pinged/internal/adapters/primary/rest"
	"github.com/johncpakin/pinged/internal/adapters/secondary/eventbroker"
	"github.com/johncpakin/pinged/internal/adapters/secondary/repository"
	"github.com/johncpakin/pinged/internal/adapters/secondary/security"
	"github.com/johncpakin/pinged/internal/core/services"
	"github.com/johncpakin/pinged/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Démarre l'API HTTP et les consumers NATS",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("🚀 Starting Pinged API", "env", cfg.Env, "port", cfg.HTTPPort)

	// 1. Télémétrie
	tp, err := telemetry.InitTracer(ctx, cfg.Env, cfg.OtelEndpoint)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 2. Postgres
	dbConfig, err := pgxpool.ParseConfig(cfg.DBURL)
	if err != nil {
		return fmt.Errorf("parse db url: %w", err)
	}
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	slog.Info("✅ Connected to PostgreSQL")

	// 3. Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return fmt.Errorf("instrument redis: %w", err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("✅ Connected to Redis")

	// 4. Neo4j
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(context.Background())
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("verify neo4j: %w", err)
	}
	connRepo := repository.NewNeo4jConnectionRepo(driver)
	if err := connRepo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("neo4j schema: %w", err)
	}
	slog.Info("✅ Connected to Neo4j")

	// 5. NATS + JetStream
	nc, err := nats.Connect(cfg.NatsURL, nats.Name("pinged-api"))
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer nc.Close()
	identityBroker, err := eventbroker.NewJetStreamPublisher(ctx, nc)
	if err != nil {
		return fmt.Errorf("jetstream: %w", err)
	}
	slog.Info("✅ Connected to NATS")

	// 6. Sécurité
	tokens, err := security.NewJWTProviderFromFiles(cfg.RSAPrivateKeyPath, cfg.RSAPublicKeyPath)
	if err != nil {
		return fmt.Errorf("load rsa keys: %w", err)
	}
	hasher := security.NewArgon2Hasher(nil)

	// 7. Core
	userRepo := repository.NewPostgresUserRepo(pool)
	postRepo := repository.NewPostgresPostRepo(pool)
	onboardingRepo := repository.NewPostgresOnboardingRepo(pool)

	identitySvc := services.NewIdentityService(userRepo, hasher, tokens, identityBroker)
	postSvc := services.NewPostService(postRepo, eventbroker.NewNatsPublisher(nc))
	feedSvc := services.NewFeedService(repository.NewRedisFeedRepo(rdb), connRepo, postRepo, userRepo)

	h := &rest.Handler{
		Identity:    identitySvc,
		Profiles:    services.NewProfileService(userRepo, onboardingRepo, postRepo, connRepo),
		Posts:       postSvc,
		Feed:        feedSvc,
		Connections: services.NewConnectionService(connRepo, userRepo),
		Settings:    services.NewSettingsService(repository.NewRedisSettingsRepo(rdb)),
		EmbedParent: cfg.EmbedParent,

		TrustedProxies: cfg.TrustedProxies,
	}

	// 8. Consumers NATS
	consumer := events.NewEventHandler(feedSvc)
	subs, err := consumer.Subscribe(nc)
	if err != nil {
		return err
	}
	slog.Info("👂 Listening for events (NATS)")

	// 9. HTTP
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           rest.Wrap(rest.NewRouter(h, rest.NewRateLimiter(cfg.AuthRatePerMin)), cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("📡 HTTP API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	for _, sub := range subs {
		_ = sub.Drain()
	}
	consumer.Wait()

	slog.Info("👋 Server exited")
	return nil
}
