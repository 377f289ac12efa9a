package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/moodcircle-api/internal/application/auth"
	"github.com/moodcircle-api/internal/application/identity"
	"github.com/moodcircle-api/internal/application/session"
	"github.com/moodcircle-api/internal/config"
	"github.com/moodcircle-api/internal/transport/http/handler"
	appmiddleware "github.com/moodcircle-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// OTP endpoints get a tight budget: farming codes and brute-forcing a
	// six-digit code are both per-IP problems.
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(1), 5)

	resolver := identity.NewResolver(deps.UserRepo, cfg.PseudonymPrefix)
	sessionSvc := session.NewService(deps.JWTProvider, deps.RefreshTokenRepo)
	authSvc := auth.NewService(deps.OTPRepo, deps.Mailer, resolver, sessionSvc, cfg.OTPLength, cfg.OTPExpiry)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, sessionSvc)

	authMw := appmiddleware.Auth(deps.JWTProvider)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(otpRL.Limit).Post("/auth/request-otp", authH.RequestOTP)
		r.With(otpRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)
		r.Post("/auth/refresh", authH.Refresh)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)
			r.Post("/auth/logout-all", authH.LogoutAll)
		})
	})

	return r
}
