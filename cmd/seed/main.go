package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"codegen/internal/auth"
	"codegen/internal/config"
	"codegen/internal/repository/postgres"
	"codegen/internal/service"
	svcauth "codegen/internal/service/auth"
	"codegen/internal/service/codegen"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Roll back every migration before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't seed templates")
	owner := flag.String("owner", "codegen-seed", "User id that owns the seeded templates")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed dev token (JWT_SECRET only)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required for seeding")
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer closeLog()

	logger.Info("seeding database", "environment", cfg.Environment, "prefix", cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := postgres.Reset(ctx, pool, tables, logger); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	if err := postgres.Migrate(ctx, pool, tables, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *schemaOnly {
		logger.Info("schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	templateRepo := postgres.NewTemplateRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	authorizer := svcauth.NewOwnerBasedAuthorizer(templateRepo, projectRepo)
	templateService := service.NewTemplateService(templateRepo, projectRepo, txManager, authorizer, codegen.NewEngine(), logger)

	requests, err := loadCatalog(*owner)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	created := 0
	for i, req := range requests {
		template, err := templateService.CreateTemplate(ctx, req)
		if err != nil {
			logger.Error("failed to create template", "name", req.Name, "error", err)
			continue
		}
		created++
		logger.Info("template seeded",
			"n", fmt.Sprintf("%d/%d", i+1, len(requests)),
			"id", template.ID,
			"name", template.Name,
		)
	}

	logger.Info("seeding complete", "created", created, "total", len(requests))

	// Token for calling the API as the seed owner
	if cfg.JWTSecret != "" {
		token, err := auth.IssueToken(cfg.JWTSecret, *owner, "", *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to issue dev token: %v", err)
		}
		fmt.Printf("Dev token for %s (expires in %s):\n%s\n", *owner, *tokenTTL, token)
	}
}
