package migration

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hausmeister/internal/logging"
)

func stubGooseUp(t *testing.T, fn func(ctx context.Context, db *sql.DB) error) {
	t.Helper()
	orig := gooseUp
	gooseUp = fn
	t.Cleanup(func() { gooseUp = orig })
}

func TestEnsureMigrated(t *testing.T) {
	tests := []struct {
		name         string
		hasDocuments bool
		hasGoose     bool
		upErr        error
		wantUp       bool
		wantErr      string
	}{
		{name: "fresh database", wantUp: true},
		{name: "goose managed", hasDocuments: true, hasGoose: true, wantUp: true},
		{name: "external schema", hasDocuments: true},
		{name: "goose failure", wantUp: true, upErr: errors.New("syntax error"), wantErr: "goose up: syntax error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
				WillReturnRows(sqlmock.NewRows([]string{"docs", "goose"}).AddRow(tt.hasDocuments, tt.hasGoose))

			called := false
			stubGooseUp(t, func(ctx context.Context, got *sql.DB) error {
				called = true
				assert.Same(t, db, got)
				return tt.upErr
			})

			err = EnsureMigrated(context.Background(), db, logging.Discard())
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantUp, called)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnsureMigrated_SentinelError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).WillReturnError(errors.New("connection reset"))
	stubGooseUp(t, func(context.Context, *sql.DB) error {
		t.Fatal("migrations must not run when the sentinel check fails")
		return nil
	})

	err = EnsureMigrated(context.Background(), db, logging.Discard())
	assert.ErrorContains(t, err, "check sentinel table")
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var all strings.Builder
	for _, e := range entries {
		b, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		content := string(b)
		assert.Contains(t, content, "-- +goose Up", e.Name())
		assert.Contains(t, content, "-- +goose Down", e.Name())
		all.WriteString(content)
	}

	for _, table := range []string{
		"email_inboxes", "verified_senders", "documents",
		"document_questions", "referral_codes", "referral_conversions",
	} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	assert.Contains(t, all.String(), "REFERENCES documents (id) ON DELETE CASCADE")
}
