package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"hausmeister/internal/model"
	"hausmeister/internal/repository"
)

const (
	referralAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	referralCodeLength = 8
	maxCodeRetries     = 5
)

var (
	ErrUserRequired         = errors.New("authenticated user is required")
	ErrReferralCodeRequired = errors.New("referral_code required")
	ErrCodeSpaceExhausted   = errors.New("could not generate a unique referral code")
)

// TrackResult answers a referral link click.
type TrackResult struct {
	Valid           bool    `json:"valid"`
	AppID           string  `json:"app_id,omitempty"`
	DiscountPercent int     `json:"discount_percent,omitempty"`
	StripeCouponID  *string `json:"stripe_coupon_id,omitempty"`
}

// ReferralTotals aggregates the conversions of a user's codes.
type ReferralTotals struct {
	TotalClicks    int     `json:"total_clicks"`
	TotalConverted int     `json:"total_converted"`
	TotalSaved     float64 `json:"total_saved"`
}

// ReferralStats is the referral overview of one user.
type ReferralStats struct {
	Codes       []model.ReferralCode       `json:"codes"`
	Stats       ReferralTotals             `json:"stats"`
	Conversions []model.ReferralConversion `json:"conversions"`
}

// ReferralService hands out referral codes and tracks their use.
type ReferralService interface {
	GetOrCreateCode(ctx context.Context, userID, appID string) (*model.ReferralCode, error)
	TrackClick(ctx context.Context, code string) (*TrackResult, error)
	Stats(ctx context.Context, userID string) (*ReferralStats, error)
}

// ReferralDefaults are applied to newly created codes.
type ReferralDefaults struct {
	AppID           string
	DiscountPercent int
}

type referralService struct {
	repo     repository.ReferralRepository
	defaults ReferralDefaults
	log      *slog.Logger
	newCode  func() (string, error)
}

func NewReferralService(repo repository.ReferralRepository, defaults ReferralDefaults, log *slog.Logger) ReferralService {
	if log == nil {
		log = slog.Default()
	}
	return &referralService{repo: repo, defaults: defaults, log: log, newCode: generateReferralCode}
}

// GetOrCreateCode returns the user's code for appID, creating one on first use.
func (s *referralService) GetOrCreateCode(ctx context.Context, userID, appID string) (*model.ReferralCode, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if appID == "" {
		appID = s.defaults.AppID
	}

	existing, err := s.repo.FindCodeByUserApp(ctx, userID, appID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateCode(ctx, &model.ReferralCode{
		ID:              uuid.NewString(),
		UserID:          userID,
		AppID:           appID,
		Code:            code,
		DiscountPercent: s.defaults.DiscountPercent,
		IsActive:        true,
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "referral code created", "user_id", userID, "app_id", appID, "code", code)
	return created, nil
}

func (s *referralService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt <= maxCodeRetries; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// TrackClick validates a code and records a click on it. A failed click
// insert is logged and does not affect the answer.
func (s *referralService) TrackClick(ctx context.Context, code string) (*TrackResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrReferralCodeRequired
	}

	rc, err := s.repo.FindActiveCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &TrackResult{Valid: false}, nil
		}
		return nil, err
	}

	if err := s.repo.CreateConversion(ctx, &model.ReferralConversion{
		ID:             uuid.NewString(),
		ReferralCodeID: rc.ID,
		AppID:          rc.AppID,
		Status:         model.ConversionClicked,
	}); err != nil {
		s.log.WarnContext(ctx, "referral click not recorded", "code", code, "error", err)
	}

	return &TrackResult{
		Valid:           true,
		AppID:           rc.AppID,
		DiscountPercent: rc.DiscountPercent,
		StripeCouponID:  rc.StripeCouponID,
	}, nil
}

func (s *referralService) Stats(ctx context.Context, userID string) (*ReferralStats, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	codes, err := s.repo.ListCodesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}

	ids := make([]string, 0, len(codes))
	for _, c := range codes {
		ids = append(ids, c.ID)
	}
	convs := []model.ReferralConversion{}
	if len(ids) > 0 {
		convs, err = s.repo.ListConversions(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list conversions: %w", err)
		}
	}

	out := &ReferralStats{Codes: codes, Conversions: convs}
	out.Stats.TotalClicks = len(convs)
	for _, c := range convs {
		if c.Status == model.ConversionConverted {
			out.Stats.TotalConverted++
		}
		if c.AmountSaved != nil {
			out.Stats.TotalSaved += *c.AmountSaved
		}
	}
	return out, nil
}

// generateReferralCode draws from an alphabet without 0/O and 1/I.
func generateReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = referralAlphabet[int(b)%len(referralAlphabet)]
	}
	return string(buf), nil
}
