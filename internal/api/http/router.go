package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goodhive/onboarding-service/internal/api/http/handlers"
	"github.com/goodhive/onboarding-service/internal/auth"
	"github.com/goodhive/onboarding-service/internal/observability"
	"github.com/goodhive/onboarding-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Approvals      *handlers.ApprovalHandler
	Search         *handlers.SearchHandler
	Referrals      *handlers.ReferralHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Limiter        *ratelimit.Limiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	admin := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAdmin(), h}
	}
	authed := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, h}
	}
	limited := RateLimit(cfg.Limiter, cfg.Metrics)

	api := app.Group("/api")

	api.Get("/jobs/search", limited, cfg.Search.SearchJobs)
	api.Get("/talents", limited, cfg.Search.ListTalents)

	api.Post("/talents/approve", admin(cfg.Approvals.ApproveTalent)...)
	api.Post("/talents/review", authed(cfg.Approvals.SubmitTalentReview)...)
	api.Post("/companies/review", authed(cfg.Approvals.SubmitCompanyReview)...)

	api.Post("/referrals", cfg.Referrals.Create)
	api.Get("/referrals/:code", cfg.Referrals.Get)

	api.Post("/admin/login", cfg.Admin.Login)
	api.Get("/admin/status-sync", admin(cfg.Admin.StatusSync)...)
	api.Get("/admin/moderation-history/:userId", admin(cfg.Approvals.History)...)
	api.Get("/admin/talents/pending", admin(cfg.Approvals.ListPendingTalents)...)
	api.Post("/admin/talents/reject", admin(cfg.Approvals.RejectTalent)...)
	api.Get("/admin/companies/pending", admin(cfg.Approvals.ListPendingCompanies)...)
	api.Post("/admin/companies/pending", admin(cfg.Approvals.ApproveCompany)...)
	api.Post("/admin/companies/reject", admin(cfg.Approvals.RejectCompany)...)
}
