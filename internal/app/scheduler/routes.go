// Package scheduler предоставляет сборку и маршруты основного приложения.
package scheduler

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/appointment/cancel"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/appointment/create"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/appointment/health"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/appointment/list"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/appointment/read"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/appointment/update"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/consultancy-scheduler/internal/services/auth"
	scheduleservice "github.com/magabrotheeeer/consultancy-scheduler/internal/services/schedule"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, scheduleService *scheduleservice.ScheduleService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с проверкой сессионного токена
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/appointments", create.New(logger, scheduleService).ServeHTTP)
			r.Get("/appointments/list", list.New(logger, scheduleService).ServeHTTP)
			r.Get("/appointments/{id}", read.New(logger, scheduleService).ServeHTTP)
			r.Put("/appointments/{id}", update.New(logger, scheduleService).ServeHTTP)
			r.Post("/appointments/{id}/cancel", cancel.New(logger, scheduleService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
