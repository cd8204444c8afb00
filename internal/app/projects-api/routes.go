// Package projectsapi предоставляет маршруты для основного приложения.
package projectsapi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mrdekan/projects-api-test-task/internal/http/handlers/auth/login"
	"github.com/mrdekan/projects-api-test-task/internal/http/handlers/auth/register"
	"github.com/mrdekan/projects-api-test-task/internal/http/handlers/health"
	"github.com/mrdekan/projects-api-test-task/internal/http/handlers/project/archive"
	"github.com/mrdekan/projects-api-test-task/internal/http/handlers/project/create"
	"github.com/mrdekan/projects-api-test-task/internal/http/handlers/project/list"
	"github.com/mrdekan/projects-api-test-task/internal/http/handlers/project/read"
	"github.com/mrdekan/projects-api-test-task/internal/http/handlers/project/update"
	"github.com/mrdekan/projects-api-test-task/internal/http/middlewarectx"
	authservice "github.com/mrdekan/projects-api-test-task/internal/services/auth"
	projectservice "github.com/mrdekan/projects-api-test-task/internal/services/project"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, projectService *projectservice.ProjectService) {
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

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/projects", create.New(logger, projectService).ServeHTTP)
			r.Get("/projects/list", list.New(logger, projectService).ServeHTTP)
			r.Get("/projects/{id}", read.New(logger, projectService).ServeHTTP)
			r.Put("/projects/{id}", update.New(logger, projectService).ServeHTTP)
			r.Delete("/projects/{id}", archive.New(logger, projectService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
