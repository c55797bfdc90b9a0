package model

import "time"

// Conversion statuses.
const (
	ConversionClicked   = "clicked"
	ConversionConverted = "converted"
)

// ReferralCode is a shareable discount code owned by a user for one app.
type ReferralCode struct {
	ID                    string    `json:"id" db:"id"`
	UserID                string    `json:"user_id" db:"user_id"`
	AppID                 string    `json:"app_id" db:"app_id"`
	Code                  string    `json:"code" db:"code"`
	StripeCouponID        *string   `json:"stripe_coupon_id" db:"stripe_coupon_id"`
	StripePromotionCodeID *string   `json:"stripe_promotion_code_id" db:"stripe_promotion_code_id"`
	DiscountPercent       int       `json:"discount_percent" db:"discount_percent"`
	IsActive              bool      `json:"is_active" db:"is_active"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}

// ReferralConversion tracks a click on, or a purchase through, a referral code.
type ReferralConversion struct {
	ID             string    `json:"id" db:"id"`
	ReferralCodeID string    `json:"referral_code_id" db:"referral_code_id"`
	AppID          string    `json:"app_id" db:"app_id"`
	Status         string    `json:"status" db:"status"`
	AmountSaved    *float64  `json:"amount_saved" db:"amount_saved"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
