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

	"github.com/monostock/trust/internal/application/usecase"
	"github.com/monostock/trust/internal/domain/port"
	"github.com/monostock/trust/internal/domain/service"
	"github.com/monostock/trust/internal/infrastructure/config"
	"github.com/monostock/trust/internal/infrastructure/dispatch"
	"github.com/monostock/trust/internal/infrastructure/kafka"
	"github.com/monostock/trust/internal/infrastructure/postgres"
	"github.com/monostock/trust/internal/infrastructure/rediscache"
	grpcpresentation "github.com/monostock/trust/internal/presentation/grpc"
	"github.com/monostock/trust/internal/presentation/rest"
	"github.com/monostock/trust/pkg/auth"
	pkgkafka "github.com/monostock/trust/pkg/kafka"
	"github.com/monostock/trust/pkg/observability"
	pgpkg "github.com/monostock/trust/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("trust-service exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.Telemetry.ServiceName,
	})

	logger.Info("starting trust-service",
		slog.String("http_port", cfg.HTTPPort),
		slog.String("grpc_port", cfg.GRPCPort),
		slog.String("environment", cfg.Environment),
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		SampleRatio: cfg.Telemetry.SampleRatio,
		Insecure:    cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", slog.String("error", err.Error()))
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Warn("tracer shutdown error", slog.String("error", err.Error()))
			}
		}()
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgpkg.NewPool(dbCtx, pgpkg.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: int32(cfg.DBMaxConns),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.MigrationsDir != "" {
		if err := pgpkg.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			logger.Warn("failed to run migrations", slog.String("error", err.Error()))
		}
	}

	readiness := map[string]rest.Checker{
		"database": func(ctx context.Context) error { return pgpkg.HealthCheck(ctx, pool) },
	}

	// Wire infrastructure adapters.
	identityRepo := postgres.NewIdentityRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	flagRepo := postgres.NewFlagRepository(pool)

	var scoreRepo port.ScoreRepository = postgres.NewScoreRepository(pool)
	if cfg.Redis.Enabled() {
		rdb := rediscache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = rdb.Close() }()
		scoreRepo = rediscache.NewScoreRepository(scoreRepo, rdb, cfg.Scoring.CacheTTL, logger)
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("score cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	var publisher port.EventPublisher = kafka.NewLogPublisher(logger)
	var producer *pkgkafka.Producer
	if cfg.Kafka.Enabled() {
		producer, err = pkgkafka.NewProducer(kafkaConfig(cfg.Kafka))
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer func() { _ = producer.Close() }()
		publisher = kafka.NewPublisher(producer, cfg.Kafka.EventsTopic, logger)
	} else {
		logger.Info("kafka not configured, domain events are logged only")
	}

	// Wire use cases.
	collector := usecase.NewFactCollector(
		identityRepo, identityRepo, activityRepo, activityRepo, activityRepo, flagRepo, logger,
	)
	calculate := usecase.NewCalculateScore(collector, service.NewAggregator(), scoreRepo, publisher, logger)
	recalculate := usecase.NewRecalculateScore(calculate)

	recomputer := dispatch.NewRecomputer(recalculate, dispatch.Config{
		Workers:   cfg.Recompute.Workers,
		QueueSize: cfg.Recompute.QueueSize,
		Timeout:   cfg.Recompute.Timeout,
	}, logger)
	recomputer.Start(ctx)

	getScore := usecase.NewGetTrustScore(scoreRepo, calculate, cfg.Scoring.MaxAge, logger)
	addFlag := usecase.NewAddFlag(flagRepo, recomputer, publisher, logger)
	resolveFlag := usecase.NewResolveFlag(flagRepo, recomputer, publisher, logger)
	listFlags := usecase.NewListFlags(flagRepo)

	// Upstream change notifications feed the same recompute queue.
	var consumer *pkgkafka.Consumer
	if cfg.Kafka.Enabled() && cfg.Kafka.InputsTopic != "" {
		handler := kafka.NewInputChangeHandler(recomputer, logger)
		consumer, err = pkgkafka.NewConsumer(kafkaConfig(cfg.Kafka), cfg.Kafka.InputsTopic, handler.Handle, logger)
		if err != nil {
			return fmt.Errorf("failed to create kafka consumer: %w", err)
		}
	}

	validator, err := newTokenValidator(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to configure authentication: %w", err)
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewTrustServiceHandler(getScore, recalculate, addFlag, resolveFlag, listFlags, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerOptions{
		Address:         cfg.GRPCAddress(),
		TLSCertFile:     cfg.GRPC.TLSCertFile,
		TLSKeyFile:      cfg.GRPC.TLSKeyFile,
		TLSClientCAFile: cfg.GRPC.TLSClientCAFile,
		Reflection:      cfg.GRPC.Reflection,
	}, validator, logger)
	if err != nil {
		return fmt.Errorf("failed to create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	healthHandler := rest.NewHealthHandler(cfg.Telemetry.ServiceName, readiness, metricsHandler, logger)
	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if consumer != nil {
		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer error: %w", err)
			}
		}()
	}

	logger.Info("trust-service started",
		slog.String("grpc_address", cfg.GRPCAddress()),
		slog.String("http_address", cfg.HTTPAddress()),
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", slog.String("error", runErr.Error()))
	}

	// Graceful shutdown: stop intake first, then drain queued recomputes.
	logger.Info("shutting down trust-service")
	cancel()

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Warn("kafka consumer close error", slog.String("error", err.Error()))
		}
	}

	recomputer.Stop()

	logger.Info("trust-service stopped")
	return runErr
}

func kafkaConfig(k config.KafkaConfig) pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       k.Brokers,
		ConsumerGroup: k.ConsumerGroup,
		TLS:           k.TLS,
		SASLEnabled:   k.SASLEnabled,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
	}
}

// newTokenValidator prefers an RSA public key over the shared secret.
func newTokenValidator(a config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: a.JWTIssuer}
	if a.JWTPublicKeyFile != "" {
		key, err := auth.LoadKeyFromFile(a.JWTPublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(key)
	} else {
		jwtCfg.Secret = a.JWTSecret
	}
	return auth.NewJWTService(jwtCfg)
}
