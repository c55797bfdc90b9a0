package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
)

// TenantPostgres answers inbox and sender lookups. It only reads.
type TenantPostgres struct {
	db *sqlx.DB
}

// NewTenantPostgres wraps an opened *sql.DB whose driver speaks Postgres placeholders.
func NewTenantPostgres(db *sql.DB) *TenantPostgres {
	return &TenantPostgres{db: sqlx.NewDb(db, "pgx")}
}

var _ repository.TenantLookup = (*TenantPostgres)(nil)

// FindActiveInbox matches the address case-insensitively.
func (r *TenantPostgres) FindActiveInbox(ctx context.Context, address string) (*model.EmailInbox, error) {
	const q = `
		SELECT id, company_id, email_address, is_active, created_at
		FROM email_inboxes
		WHERE lower(email_address) = lower($1) AND is_active = true
		LIMIT 1
	`
	var inbox model.EmailInbox
	if err := r.db.GetContext(ctx, &inbox, q, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &inbox, nil
}

func (r *TenantPostgres) FindVerifiedSender(ctx context.Context, companyID, email string) (*model.VerifiedSender, error) {
	const q = `
		SELECT id, company_id, email, is_verified, verified_at, added_by
		FROM verified_senders
		WHERE company_id = $1 AND lower(email) = lower($2) AND is_verified = true
		LIMIT 1
	`
	var s model.VerifiedSender
	if err := r.db.GetContext(ctx, &s, q, companyID, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
