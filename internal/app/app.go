package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/gigvault/escrowd/internal/config"
	"github.com/gigvault/escrowd/internal/event"
	handler "github.com/gigvault/escrowd/internal/handler/http"
	"github.com/gigvault/escrowd/internal/repository/postgres"
	redisrepo "github.com/gigvault/escrowd/internal/repository/redis"
	"github.com/gigvault/escrowd/internal/service"
	"github.com/gigvault/escrowd/internal/treasury"
	"github.com/gigvault/escrowd/migrations"
	"github.com/gigvault/escrowd/pkg/database"
	"github.com/gigvault/escrowd/pkg/health"
	"github.com/gigvault/escrowd/pkg/httpclient"
	pkgkafka "github.com/gigvault/escrowd/pkg/kafka"
	"github.com/gigvault/escrowd/pkg/tracing"
)

// escrowHeldTotal tracks the sum of all escrow balances currently held,
// refreshed periodically from the database.
var escrowHeldTotal = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "escrow_held_total",
	Help: "Total funds currently held in escrow across all services.",
})

// App wires together all dependencies and runs the marketplace service.
type App struct {
	cfg                *config.Config
	logger             *slog.Logger
	pool               *pgxpool.Pool
	rdb                *redis.Client
	producer           *pkgkafka.Producer
	httpServer         *http.Server
	paymentReleased    *pkgkafka.Consumer
	clientRefunded     *pkgkafka.Consumer
	marketplaceService *service.MarketplaceService
	tracerShutdown     func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "marketplace",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "marketplace")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Initialize Redis for the rating summary cache.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer with connection validation and retry.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
		logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	repo := postgres.NewMarketplaceRepository(pool)
	ratingCache := redisrepo.NewRatingCache(rdb, time.Duration(cfg.RatingCacheTTL)*time.Second)
	eventProducer := event.NewProducer(producer, logger)
	marketplaceService := service.NewMarketplaceService(repo, ratingCache, eventProducer, logger)

	// Treasury client with retries and a circuit breaker for transfer calls.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	})

	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         "marketplace-treasury",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}
	cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger)
	logger.Info("circuit breaker initialized",
		slog.String("name", cbCfg.Name),
		slog.Uint64("max_requests", uint64(cbCfg.MaxRequests)),
		slog.Uint64("min_requests", uint64(cbCfg.MinRequests)),
	)

	treasuryClient := treasury.NewHTTPTreasury(cbClient, cfg.TreasuryServiceURL, logger)

	// Set up Kafka consumers for payout and refund transfers.
	payoutConsumer := event.NewPayoutConsumer(treasuryClient, logger)
	idempotencyStore := pkgkafka.NewMemoryIdempotencyStore(24 * time.Hour)

	paymentReleasedConsumer := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:   cfg.KafkaBrokers,
		GroupID:   "marketplace-payment-released",
		Topic:     event.TopicPaymentReleased,
		MinBytes:  1,
		MaxBytes:  10e6,
		EnableDLQ: true,
	}, pkgkafka.IdempotentHandler(idempotencyStore, payoutConsumer.HandlePaymentReleased, logger), logger)

	clientRefundedConsumer := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:   cfg.KafkaBrokers,
		GroupID:   "marketplace-client-refunded",
		Topic:     event.TopicClientRefunded,
		MinBytes:  1,
		MaxBytes:  10e6,
		EnableDLQ: true,
	}, pkgkafka.IdempotentHandler(idempotencyStore, payoutConsumer.HandleClientRefunded, logger), logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(marketplaceService, healthHandler, handler.RouterConfig{
		ServiceName:    "marketplace",
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.AllowedOrigins,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
	}, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:                cfg,
		logger:             logger,
		pool:               pool,
		rdb:                rdb,
		producer:           producer,
		httpServer:         httpServer,
		paymentReleased:    paymentReleasedConsumer,
		clientRefunded:     clientRefundedConsumer,
		marketplaceService: marketplaceService,
		tracerShutdown:     tracerShutdown,
	}, nil
}

// Run starts the HTTP server, Kafka consumers, and background jobs, then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	// Start HTTP server.
	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Start Kafka consumers.
	go func() {
		if err := a.paymentReleased.Start(ctx); err != nil {
			errCh <- fmt.Errorf("payment released consumer: %w", err)
		}
	}()

	go func() {
		if err := a.clientRefunded.Start(ctx); err != nil {
			errCh <- fmt.Errorf("client refunded consumer: %w", err)
		}
	}()

	// Start background held-funds gauge refresh.
	go a.runHeldGaugeRefresh(ctx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// runHeldGaugeRefresh periodically refreshes the escrow held-funds gauge
// from the database.
func (a *App) runHeldGaugeRefresh(ctx context.Context) {
	interval := time.Duration(a.cfg.HeldGaugeInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			held, err := a.marketplaceService.TotalHeld(ctx)
			if err != nil {
				a.logger.Error("held funds refresh error", slog.String("error", err.Error()))
				continue
			}
			escrowHeldTotal.Set(float64(held))
		}
	}
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka consumers
// 4. Kafka producer
// 5. Redis client
// 6. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests (5s budget).
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 3. Close Kafka consumers.
	if err := a.paymentReleased.Close(); err != nil {
		a.logger.Error("payment released consumer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if err := a.clientRefunded.Close(); err != nil {
		a.logger.Error("client refunded consumer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 4. Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 5. Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 6. Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// pingKafkaWithRetry attempts to ping the Kafka producer with exponential
// backoff (3 attempts, 1s/2s/4s with ±25% jitter).
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := producer.Ping(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt < 2 {
			base := time.Duration(1<<uint(attempt)) * time.Second
			jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
			wait := base + jitter
			logger.Warn("kafka producer ping failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", 3),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("kafka ping: context canceled during retry: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("kafka producer ping failed after 3 attempts: %w", lastErr)
}
