package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	authorizer user.Authorizer,
	authHandler AuthHandler,
	dashboardHandler DashboardHandler,
	sellerHandler SellerHandler,
	saleHandler SaleHandler,
	adminHandler AdminHandler,
	healthHandler HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	can := func(p user.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(authorizer, p)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Post("/auth/login", authHandler.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/auth", func(r chi.Router) {
				r.Get("/user", authHandler.CurrentUser)
				r.Post("/logout", authHandler.Logout)
			})

			r.Get("/dashboard/stats", dashboardHandler.Stats)

			r.Route("/sellers", func(r chi.Router) {
				r.With(can(user.PermissionViewSellers)).Get("/", sellerHandler.List)
				r.With(can(user.PermissionCreateSellers)).Post("/", sellerHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.With(can(user.PermissionViewSellers)).Get("/", sellerHandler.GetByID)
					r.With(can(user.PermissionViewSales)).Get("/sales", sellerHandler.Sales)
					r.With(can(user.PermissionViewSales)).Get("/daily-summary", sellerHandler.DailySummary)
				})
			})

			r.Route("/sales", func(r chi.Router) {
				r.With(can(user.PermissionViewSales)).Get("/", saleHandler.List)
				r.With(can(user.PermissionCreateSales)).Post("/", saleHandler.Create)
				r.With(can(user.PermissionViewSales)).Get("/{id}", saleHandler.GetByID)
			})

			r.Route("/admin", func(r chi.Router) {
				r.With(can(user.PermissionResendCommissions)).Post("/sellers/{id}/resend-commission", adminHandler.ResendSellerCommission)
				r.With(can(user.PermissionResendCommissions)).Post("/sales/{id}/resend-commission", adminHandler.ResendSaleCommission)
				r.With(can(user.PermissionRunDailyMails)).Post("/run-daily-mails", adminHandler.RunDailyMails)
			})
		})
	})
	return r
}
