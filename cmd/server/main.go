package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/fintech/internal/adapter/http"
	"github.com/iho/fintech/internal/adapter/http/handler"
	"github.com/iho/fintech/internal/adapter/http/middleware"
	"github.com/iho/fintech/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/fintech/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/fintech/internal/adapter/repository/redis"
	"github.com/iho/fintech/internal/infrastructure/config"
	"github.com/iho/fintech/internal/infrastructure/idgen"
	"github.com/iho/fintech/internal/infrastructure/logger"
	"github.com/iho/fintech/internal/infrastructure/metrics"
	"github.com/iho/fintech/internal/infrastructure/postgres"
	"github.com/iho/fintech/internal/infrastructure/redis"
	"github.com/iho/fintech/internal/infrastructure/retry"
	"github.com/iho/fintech/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterMaxIdle         = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	server, cleanup, err := newServer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("storage", cfg.StorageBackend).Msg("starting server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// storage is one backend's implementation of the repository interfaces.
type storage struct {
	txManager       usecase.TransactionManager
	accountRepo     usecase.AccountRepository
	transactionRepo usecase.TransactionRepository
	ledgerRepo      usecase.LedgerRepository
	checks          []handler.HealthCheck
	close           func()
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		store := memory.NewStore()
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return &storage{
			txManager:       memory.NewTxManager(store),
			accountRepo:     memory.NewAccountRepository(store),
			transactionRepo: memory.NewTransactionRepository(store),
			ledgerRepo:      memory.NewLedgerRepository(store),
			close:           func() {},
		}, nil

	case config.StoragePostgres:
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
				return nil, err
			}
		}

		connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
		defer cancel()

		pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
			DatabaseURL:      cfg.DatabaseURL,
			MaxConns:         cfg.DatabaseMaxConns,
			MinConns:         cfg.DatabaseMinConns,
			StatementTimeout: cfg.DatabaseStatementTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")

		return &storage{
			txManager:       postgresRepo.NewTxManager(pool),
			accountRepo:     postgresRepo.NewAccountRepository(pool),
			transactionRepo: postgresRepo.NewTransactionRepository(pool),
			ledgerRepo:      postgresRepo.NewLedgerRepository(pool),
			checks:          []handler.HealthCheck{{Name: "postgres", Check: pool.Ping}},
			close:           pool.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// newServer wires storage, use cases and the router. cleanup releases
// every connection newServer opened.
func newServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*http.Server, func(), error) {
	store, err := newStorage(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){store.close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	clock := usecase.NewMonotonicClock()
	retrier := retry.New(retry.Config{
		MaxAttempts:     cfg.RetryMaxAttempts,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
	}, log)

	ledgerUC := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		TxManager:       store.txManager,
		AccountRepo:     store.accountRepo,
		TransactionRepo: store.transactionRepo,
		IDGen:           idgen.NewULIDGenerator(),
		Clock:           clock,
		Retrier:         retrier,
		Metrics:         m,
		Logger:          &log,
		TxTimeout:       cfg.TransactionTimeout,
	})
	accountUC := usecase.NewAccountUseCase(store.txManager, store.accountRepo, store.transactionRepo,
		idgen.NewULIDGenerator(), clock).WithMetrics(m)
	balanceUC := usecase.NewBalanceUseCase(store.accountRepo, store.transactionRepo)
	statementUC := usecase.NewStatementUseCase(store.accountRepo, store.transactionRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(store.accountRepo, store.transactionRepo,
		store.ledgerRepo, clock).WithMetrics(m)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC, statementUC),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC),
		LedgerHandler:      handler.NewLedgerHandler(reconciliationUC),
		Logger:             log,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Registry:           registry,
	}

	checks := store.checks
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		log.Info().Msg("connected to redis")

		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redis.Ping(ctx, redisClient) },
		})
	} else {
		log.Info().Msg("REDIS_URL not set; idempotency keys are ignored")
	}
	routerCfg.HealthHandler = handler.NewHealthHandler(checks...)

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiterCtx, stopLimiter := context.WithCancel(context.Background())
		go limiter.RunCleanup(limiterCtx, limiterCleanupInterval, limiterMaxIdle)
		closers = append(closers, stopLimiter)
		routerCfg.RateLimiter = limiter
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return server, cleanup, nil
}
