package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows any origin with the headers mail relays and the web client send.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Authorization, X-Client-Info, ApiKey, Content-Type, " + RequestIDHeader,
		ExposeHeaders: RequestIDHeader,
	})
}
