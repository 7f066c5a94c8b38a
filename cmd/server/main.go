package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codegen/internal/auth"
	"codegen/internal/config"
	"codegen/internal/domain/repositories"
	"codegen/internal/handler"
	"codegen/internal/lock"
	"codegen/internal/repository/memory"
	"codegen/internal/repository/postgres"
	"codegen/internal/service"
	svcauth "codegen/internal/service/auth"
	"codegen/internal/service/codegen"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// run wires and serves until a shutdown signal or a listener failure.
// Every deferred close runs before it returns.
func run() error {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Setup structured logging
	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// JWKS wins over the shared secret when both are configured
	var jwtVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		jwtVerifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
	} else {
		jwtVerifier, err = auth.NewHMACVerifier(cfg.JWTSecret, logger)
	}
	if err != nil {
		return fmt.Errorf("create JWT verifier: %w", err)
	}
	defer jwtVerifier.Close()

	// Storage
	var (
		templateRepo repositories.TemplateRepository
		projectRepo  repositories.ProjectRepository
		txManager    repositories.TransactionManager
		healthProbe  func(ctx context.Context) error
	)

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		templateRepo = memory.NewTemplateRepository(store)
		projectRepo = memory.NewProjectRepository(store)
		txManager = memory.NewTransactionManager(store)
		logger.Warn("using in-memory storage; data is lost on restart")

	default:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return fmt.Errorf("create connection pool: %w", err)
		}
		defer pool.Close()

		logger.Info("database connected",
			"max_conns", cfg.DBMaxConns,
			"min_conns", cfg.DBMinConns,
		)

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.Migrate(ctx, pool, tables, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		templateRepo = postgres.NewTemplateRepository(repoConfig)
		projectRepo = postgres.NewProjectRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool, logger)
		healthProbe = pool.Ping
	}

	// Generation lock: Redis for multi-instance deployments, in-process otherwise
	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisURL != "" {
		client, err := lock.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}
		defer client.Close()

		locker = lock.NewRedisLocker(client, "codegen:"+cfg.TablePrefix+"lock:", cfg.GenerationLockTTL, logger)
		logger.Info("redis generation lock enabled", "ttl", cfg.GenerationLockTTL)
	}

	// Services
	engine := codegen.NewEngine()
	authorizer := svcauth.NewOwnerBasedAuthorizer(templateRepo, projectRepo)
	templateService := service.NewTemplateService(templateRepo, projectRepo, txManager, authorizer, engine, logger)
	projectService := service.NewProjectService(projectRepo, templateRepo, txManager, authorizer, engine, locker, logger)

	logger.Info("services initialized")

	router := handler.NewRouter(handler.RouterConfig{
		Templates:   templateService,
		Projects:    projectService,
		Verifier:    jwtVerifier,
		Environment: cfg.Environment,
		CORSOrigins: cfg.CORSOrigins,
		HealthProbe: healthProbe,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}
