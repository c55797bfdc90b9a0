// Package migration applies the embedded schema migrations with goose.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// sentinelQuery reports whether the documents table exists and whether goose
// has ever run against this database.
const sentinelQuery = `SELECT to_regclass('public.documents') IS NOT NULL, to_regclass('public.goose_db_version') IS NOT NULL`

var gooseUp = func(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, migrationsDir)
}

// EnsureMigrated brings the schema up to date. A schema that was created
// outside goose (documents present, no goose version table) is adopted as-is
// and left untouched.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	start := time.Now()
	log = log.With("component", "database")
	log.InfoContext(ctx, "db_migration_check")

	var hasDocuments, hasGoose bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&hasDocuments, &hasGoose); err != nil {
		log.ErrorContext(ctx, "db_migration_failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("check sentinel table: %w", err)
	}

	if hasDocuments && !hasGoose {
		log.InfoContext(ctx, "db_migration_skip",
			"reason", "schema managed externally",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	goose.SetLogger(gooseLogger{log: log})
	if err := gooseUp(ctx, db); err != nil {
		log.ErrorContext(ctx, "db_migration_failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("goose up: %w", err)
	}

	log.InfoContext(ctx, "db_migration_success", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}
