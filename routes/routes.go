package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zenidr/todo-cognito-api/app"
	"github.com/zenidr/todo-cognito-api/middleware"
	"github.com/zenidr/todo-cognito-api/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Metrics())

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.Config.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Get("/", deps.HealthHandler.HandleRoot)
	r.Get("/healthz", deps.HealthHandler.HandleHealthz)
	if deps.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Post("/signup", deps.AccountHandler.HandleSignup)
	r.Post("/login", deps.AccountHandler.HandleLogin)
	r.Post("/confirm", deps.AccountHandler.HandleConfirm)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", deps.TodoHandler.HandleListTodos)
			r.Post("/", deps.TodoHandler.HandleCreateTodo)
			r.Get("/{id}", deps.TodoHandler.HandleGetTodo)
			r.Patch("/{id}", deps.TodoHandler.HandleUpdateTodo)
			r.Delete("/{id}", deps.TodoHandler.HandleDeleteTodo)
		})

		r.Post("/logout", deps.AccountHandler.HandleLogout)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "route not found")
	})

	return r
}
