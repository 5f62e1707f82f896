// Package beachcast предоставляет маршруты для основного приложения.
package beachcast

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	accessstatus "github.com/magabrotheeeer/beachcast/internal/http/handlers/access/status"
	adminquota "github.com/magabrotheeeer/beachcast/internal/http/handlers/admin/quota"
	"github.com/magabrotheeeer/beachcast/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/beachcast/internal/http/handlers/auth/register"
	billingcancel "github.com/magabrotheeeer/beachcast/internal/http/handlers/billing/cancel"
	billingconfirm "github.com/magabrotheeeer/beachcast/internal/http/handlers/billing/confirm"
	billingwebhook "github.com/magabrotheeeer/beachcast/internal/http/handlers/billing/webhook"
	conditionscurrent "github.com/magabrotheeeer/beachcast/internal/http/handlers/conditions/current"
	"github.com/magabrotheeeer/beachcast/internal/http/handlers/health"
	"github.com/magabrotheeeer/beachcast/internal/http/middlewarectx"
	"github.com/magabrotheeeer/beachcast/internal/lib/jwt"
	"github.com/magabrotheeeer/beachcast/internal/quota"
	"github.com/magabrotheeeer/beachcast/internal/ratelimit"
	authservice "github.com/magabrotheeeer/beachcast/internal/services/auth"
	billingservice "github.com/magabrotheeeer/beachcast/internal/services/billing"
	reconcilerservice "github.com/magabrotheeeer/beachcast/internal/services/reconciler"
	statusservice "github.com/magabrotheeeer/beachcast/internal/services/status"

	"github.com/magabrotheeeer/beachcast/internal/conditions"
)

// Services — зависимости HTTP-слоя, собранные приложением.
type Services struct {
	JWTMaker      jwt.Maker
	Limiter       *ratelimit.Limiter
	Auth          *authservice.AuthService
	Status        *statusservice.StatusService
	Reconciler    *reconcilerservice.Service
	Billing       *billingservice.Service
	Conditions    *conditions.Service
	Ledger        *quota.Ledger
	Views         *quota.ViewCounter
	WebhookSecret string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки: анонимные клиенты считаются по адресу
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, s.Limiter, "public"))
			r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, s.Limiter, "api"))
			r.Get("/access/status", accessstatus.New(logger, s.Status, s.Reconciler).ServeHTTP)
			r.Post("/billing/confirm", billingconfirm.New(logger, s.Billing).ServeHTTP)
			r.Post("/billing/cancel", billingcancel.New(logger, s.Billing).ServeHTTP)
			r.Get("/conditions/{spotID}", conditionscurrent.New(logger, s.Conditions, s.Status, s.Views).ServeHTTP)

			// Только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/admin/quota", adminquota.New(logger, s.Ledger).ServeHTTP)
			})
		})

		// Webhook платёжного шлюза (аутентификация по подписи тела)
		r.Post("/billing/webhook", billingwebhook.New(logger, s.Billing, s.WebhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
