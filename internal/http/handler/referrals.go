package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hausmeister/internal/http/middleware"
	"hausmeister/internal/service"
)

type trackRequest struct {
	ReferralCode string `json:"referral_code"`
}

// GetReferralCode godoc
// @Summary Get or create the caller's referral code for an app
// @Tags referrals
// @Produce json
// @Security BearerAuth
// @Param app_id query string false "Application id" default(hausmeisterpro)
// @Success 200 {object} map[string]model.ReferralCode
// @Failure 401 {object} errorPayload
// @Router /referrals/code [get]
func GetReferralCode(refSvc service.ReferralService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := refSvc.GetOrCreateCode(c.UserContext(), middleware.UserIDFrom(c), c.Query("app_id"))
		if err != nil {
			if errors.Is(err, service.ErrUserRequired) {
				return Unauthorized(c, err)
			}
			return internalError(c)
		}
		return c.JSON(fiber.Map{"code": code})
	}
}

// TrackReferral godoc
// @Summary Record a click on a referral link
// @Tags referrals
// @Accept json
// @Produce json
// @Param body body trackRequest true "Referral code"
// @Success 200 {object} service.TrackResult
// @Failure 400 {object} errorPayload
// @Router /referrals/track [post]
func TrackReferral(refSvc service.ReferralService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req trackRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := refSvc.TrackClick(c.UserContext(), req.ReferralCode)
		if err != nil {
			if errors.Is(err, service.ErrReferralCodeRequired) {
				return writeError(c, fiber.StatusBadRequest, "REFERRAL_CODE_REQUIRED", "referral_code required")
			}
			return internalError(c)
		}
		return c.JSON(res)
	}
}

// ReferralStats godoc
// @Summary Referral codes and conversion totals of the caller
// @Tags referrals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ReferralStats
// @Failure 401 {object} errorPayload
// @Router /referrals/stats [get]
func ReferralStats(refSvc service.ReferralService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := refSvc.Stats(c.UserContext(), middleware.UserIDFrom(c))
		if err != nil {
			if errors.Is(err, service.ErrUserRequired) {
				return Unauthorized(c, err)
			}
			return internalError(c)
		}
		return c.JSON(stats)
	}
}
