package handler

import (
	"database/sql"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"hausmeister/internal/http/middleware"
	"hausmeister/internal/service"
)

// Dependencies are the services the HTTP layer dispatches to.
type Dependencies struct {
	DB        *sql.DB
	Ingester  service.Ingester
	Documents service.DocumentService
	Questions service.QuestionService
	Referrals service.ReferralService
	JWTSecret string
	Logger    *slog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Everything
// except health, the inbound webhook and referral click tracking requires a
// bearer token.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	app.Post("/inbound/email", InboundEmail(d.Ingester, log))

	requireAuth := middleware.RequireAuth(d.JWTSecret, Unauthorized)

	app.Get("/documents", requireAuth, ListDocuments(d.Documents))
	app.Get("/documents/:id", requireAuth, GetDocument(d.Documents))
	app.Get("/documents/:id/download", requireAuth, DownloadDocument(d.Documents))
	app.Get("/documents/:id/questions", requireAuth, ListQuestions(d.Questions))
	app.Post("/documents/:id/book", requireAuth, BookDocument(d.Documents))
	app.Delete("/documents/:id", requireAuth, DeleteDocument(d.Documents))

	app.Post("/questions/:id/answer", requireAuth, AnswerQuestion(d.Questions))

	app.Get("/referrals/code", requireAuth, GetReferralCode(d.Referrals))
	app.Post("/referrals/track", TrackReferral(d.Referrals))
	app.Get("/referrals/stats", requireAuth, ReferralStats(d.Referrals))
}
