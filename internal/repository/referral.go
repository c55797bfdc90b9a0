package repository

import (
	"context"

	"hausmeister/internal/model"
)

// ReferralRepository stores referral codes and their conversions.
type ReferralRepository interface {
	FindCodeByUserApp(ctx context.Context, userID, appID string) (*model.ReferralCode, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	CreateCode(ctx context.Context, c *model.ReferralCode) (*model.ReferralCode, error)

	// FindActiveCode returns ErrNotFound for unknown and deactivated codes.
	FindActiveCode(ctx context.Context, code string) (*model.ReferralCode, error)
	CreateConversion(ctx context.Context, c *model.ReferralConversion) error

	ListCodesByUser(ctx context.Context, userID string) ([]model.ReferralCode, error)
	ListConversions(ctx context.Context, codeIDs []string) ([]model.ReferralConversion, error)
}
