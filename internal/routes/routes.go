package routes

import (
	"campusgate/internal/auth"
	"campusgate/internal/handlers"
	"campusgate/internal/middleware"
	"campusgate/internal/models"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes wires all application routes.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.SecurityEventHandler,
	tokenManager *auth.TokenManager,
	revocations auth.RevocationChecker,
	sessions auth.SessionActivityRecorder,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public token endpoints, behind the transport-level limiter. The
	// store-backed login throttle runs inside the service on top of this.
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/token", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/token/refresh", authHandler.Refresh)

	// Authenticated surface
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager, revocations, sessions))

		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/sessions", authHandler.ListSessions)
		r.Post("/auth/sessions/{id}/revoke", authHandler.RevokeSession)

		// Administrator-only surface
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdministrator))

			r.Get("/users", userHandler.List)
			r.Post("/users", userHandler.Create)
			r.Get("/users/{id}", userHandler.Get)

			r.Get("/security/events", eventHandler.List)
		})
	})
}
