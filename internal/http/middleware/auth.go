package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

// UserIDLocalKey stores the authenticated user's ID in Fiber's context locals.
const UserIDLocalKey = "user_id"

// ErrUnauthorized is passed to the rejection callback for any missing,
// malformed or unverifiable bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// RequireAuth verifies an HS256 bearer token issued by the auth service and
// stores its subject under UserIDLocalKey. Rejections are delegated to
// onReject so handlers keep one error format.
func RequireAuth(secret string, onReject func(c *fiber.Ctx, err error) error) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		if len(key) == 0 {
			return onReject(c, fmt.Errorf("%w: no signing secret configured", ErrUnauthorized))
		}

		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return onReject(c, fmt.Errorf("%w: missing bearer token", ErrUnauthorized))
		}

		claims := &jwt.StandardClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil {
			return onReject(c, fmt.Errorf("%w: %v", ErrUnauthorized, err))
		}
		if claims.Subject == "" {
			return onReject(c, fmt.Errorf("%w: token has no subject", ErrUnauthorized))
		}

		c.Locals(UserIDLocalKey, claims.Subject)
		return c.Next()
	}
}

// UserIDFrom returns the user ID stored by RequireAuth, if any.
func UserIDFrom(c *fiber.Ctx) string {
	if s, ok := c.Locals(UserIDLocalKey).(string); ok {
		return s
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
