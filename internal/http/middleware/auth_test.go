package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.StandardClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newAuthApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireAuth(secret, func(c *fiber.Ctx, err error) error {
		if !errors.Is(err, ErrUnauthorized) {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusUnauthorized)
	}), func(c *fiber.Ctx) error {
		return c.SendString(UserIDFrom(c))
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	valid := signToken(t, testSecret, jwt.StandardClaims{
		Subject:   "user-1",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", secret: testSecret, header: "Bearer " + valid, wantStatus: fiber.StatusOK, wantBody: "user-1"},
		{name: "lowercase scheme", secret: testSecret, header: "bearer " + valid, wantStatus: fiber.StatusOK, wantBody: "user-1"},
		{name: "missing header", secret: testSecret, header: "", wantStatus: fiber.StatusUnauthorized},
		{name: "basic scheme", secret: testSecret, header: "Basic dXNlcjpwdw==", wantStatus: fiber.StatusUnauthorized},
		{name: "garbage token", secret: testSecret, header: "Bearer not-a-jwt", wantStatus: fiber.StatusUnauthorized},
		{
			name:       "wrong secret",
			secret:     testSecret,
			header:     "Bearer " + signToken(t, "other", jwt.StandardClaims{Subject: "user-1"}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "expired",
			secret: testSecret,
			header: "Bearer " + signToken(t, testSecret, jwt.StandardClaims{
				Subject:   "user-1",
				ExpiresAt: time.Now().Add(-time.Minute).Unix(),
			}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "no subject",
			secret:     testSecret,
			header:     "Bearer " + signToken(t, testSecret, jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{name: "no secret configured", secret: "", header: "Bearer " + valid, wantStatus: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAuthApp(tt.secret)
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}
