package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
)

// ReferralPostgres stores referral codes and conversions.
type ReferralPostgres struct {
	db *sqlx.DB
}

func NewReferralPostgres(db *sql.DB) *ReferralPostgres {
	return &ReferralPostgres{db: sqlx.NewDb(db, "pgx")}
}

var _ repository.ReferralRepository = (*ReferralPostgres)(nil)

const referralCodeColumns = `id, user_id, app_id, code, stripe_coupon_id, stripe_promotion_code_id,
		discount_percent, is_active, created_at`

func (r *ReferralPostgres) getCode(ctx context.Context, q string, args ...any) (*model.ReferralCode, error) {
	var c model.ReferralCode
	if err := r.db.GetContext(ctx, &c, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ReferralPostgres) FindCodeByUserApp(ctx context.Context, userID, appID string) (*model.ReferralCode, error) {
	q := `SELECT ` + referralCodeColumns + ` FROM referral_codes WHERE user_id = $1 AND app_id = $2 LIMIT 1`
	return r.getCode(ctx, q, userID, appID)
}

func (r *ReferralPostgres) FindActiveCode(ctx context.Context, code string) (*model.ReferralCode, error) {
	q := `SELECT ` + referralCodeColumns + ` FROM referral_codes WHERE code = $1 AND is_active = true LIMIT 1`
	return r.getCode(ctx, q, code)
}

func (r *ReferralPostgres) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM referral_codes WHERE code = $1)`, code)
	return exists, err
}

// CreateCode inserts a code and returns it with the database defaults filled in.
func (r *ReferralPostgres) CreateCode(ctx context.Context, c *model.ReferralCode) (*model.ReferralCode, error) {
	const q = `
		INSERT INTO referral_codes (id, user_id, app_id, code, stripe_coupon_id, stripe_promotion_code_id, discount_percent, is_active)
		VALUES (:id, :user_id, :app_id, :code, :stripe_coupon_id, :stripe_promotion_code_id, :discount_percent, :is_active)
		RETURNING created_at
	`
	rows, err := r.db.NamedQueryContext(ctx, q, c)
	if err != nil {
		return nil, fmt.Errorf("insert referral code: %w", err)
	}
	defer rows.Close()

	out := *c
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("insert referral code: no row returned")
	}
	if err := rows.Scan(&out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReferralPostgres) CreateConversion(ctx context.Context, c *model.ReferralConversion) error {
	const q = `
		INSERT INTO referral_conversions (id, referral_code_id, app_id, status, amount_saved)
		VALUES (:id, :referral_code_id, :app_id, :status, :amount_saved)
	`
	if _, err := r.db.NamedExecContext(ctx, q, c); err != nil {
		return fmt.Errorf("insert referral conversion: %w", err)
	}
	return nil
}

func (r *ReferralPostgres) ListCodesByUser(ctx context.Context, userID string) ([]model.ReferralCode, error) {
	q := `SELECT ` + referralCodeColumns + ` FROM referral_codes WHERE user_id = $1 ORDER BY created_at`
	codes := make([]model.ReferralCode, 0)
	if err := r.db.SelectContext(ctx, &codes, q, userID); err != nil {
		return nil, err
	}
	return codes, nil
}

// ListConversions returns the conversions of all given codes.
func (r *ReferralPostgres) ListConversions(ctx context.Context, codeIDs []string) ([]model.ReferralConversion, error) {
	out := make([]model.ReferralConversion, 0)
	if len(codeIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
		SELECT id, referral_code_id, app_id, status, amount_saved, created_at
		FROM referral_conversions
		WHERE referral_code_id IN (?)
		ORDER BY created_at`, codeIDs)
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}
