package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations for the prefixed tables.
// Migration files reference ${TABLE_PREFIX}, which is exported for the
// duration of the run, and each prefix keeps its own version table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) error {
	err := runGoose(ctx, pool, tables, logger, func(ctx context.Context, db *sql.DB) error {
		return goose.UpContext(ctx, db, "migrations")
	})
	if err != nil {
		return err
	}
	logger.Info("database migrations applied", "prefix", tables.Prefix)
	return nil
}

// Reset rolls every migration back, dropping the prefixed tables.
func Reset(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) error {
	err := runGoose(ctx, pool, tables, logger, func(ctx context.Context, db *sql.DB) error {
		return goose.ResetContext(ctx, db, "migrations")
	})
	if err != nil {
		return err
	}
	logger.Info("database migrations reset", "prefix", tables.Prefix)
	return nil
}

func runGoose(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger, run func(context.Context, *sql.DB) error) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := os.Setenv("TABLE_PREFIX", tables.Prefix); err != nil {
		return fmt.Errorf("export table prefix: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetTableName(tables.Prefix + "goose_db_version")
	goose.SetLogger(&gooseLogger{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := run(ctx, db); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
