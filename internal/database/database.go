// Package database opens the PostgreSQL pool shared by the repositories.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"hausmeister/internal/config"
)

const (
	applicationName = "hausmeister"
	pingTimeout     = 5 * time.Second
)

var sqlOpen = sql.Open

// BuildPostgresDSN renders the connection settings as a postgres:// URL,
// e.g. postgres://app:secret@db:5432/hausmeister?application_name=hausmeister&sslmode=disable
func BuildPostgresDSN(c config.DatabaseConfig) (string, error) {
	var missing []string
	for _, f := range []struct{ env, val string }{
		{"DB_HOST", c.Host},
		{"DB_PORT", c.Port},
		{"DB_USER", c.User},
		{"DB_NAME", c.Name},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.env)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("database config incomplete: missing %s", strings.Join(missing, ", "))
	}

	user := url.User(c.User)
	if c.Password != "" {
		user = url.UserPassword(c.User, c.Password)
	}

	params := url.Values{"application_name": {applicationName}}
	if c.SSLMode != "" {
		params.Set("sslmode", c.SSLMode)
	}

	return (&url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     c.Host + ":" + c.Port,
		Path:     c.Name,
		RawQuery: params.Encode(),
	}).String(), nil
}

// NewPostgres opens a pgx-backed pool instrumented with otelsql, applies the
// pool settings and pings the server.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := BuildPostgresDSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	configurePool(db, c)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}
