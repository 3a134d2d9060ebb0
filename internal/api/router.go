package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/recipe-api/internal/api/handlers"
	"github.com/baharkarakas/recipe-api/internal/api/httpx"
	"github.com/baharkarakas/recipe-api/internal/config"
	"github.com/baharkarakas/recipe-api/internal/metrics"
	"github.com/baharkarakas/recipe-api/internal/middleware"
	"github.com/baharkarakas/recipe-api/internal/services"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Cfg       config.Config
	Log       *slog.Logger
	DB        Pinger
	UserSvc   *services.UserService
	RecipeSvc *services.RecipeService
	TagSvc    *services.TagService
}

func NewRouter(d RouterDeps) http.Handler {
	metrics.Init()

	authMW := middleware.NewAuthMiddleware(d.UserSvc, d.Log)
	authH := handlers.NewAuthHandler(d.UserSvc, d.Log)
	userH := handlers.NewUserHandler(d.UserSvc, d.Log)
	recipeH := handlers.NewRecipeHandler(d.RecipeSvc, d.Log)
	tagH := handlers.NewTagHandler(d.TagSvc, d.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(d.Log), middleware.AccessLog(d.Log), middleware.HTTPMetrics)
	r.Use(middleware.RateLimit(d.Cfg.RateRPS, d.Cfg.RateBurst))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			d.Log.Warn("health check failed", "err", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	// ---------- users ----------
	r.Route("/user", func(r chi.Router) {
		r.Post("/create/", userH.Create)
		r.Post("/token/", authH.Token)
		r.Post("/token/refresh/", authH.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)
			r.Get("/me/", userH.Me)
			r.Put("/me/", userH.UpdateMe(true))
			r.Patch("/me/", userH.UpdateMe(false))
			r.Delete("/me/", userH.DeleteMe)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authMW.Auth)

		// ---------- recipes ----------
		r.Get("/recipes/", recipeH.List)
		r.Post("/recipes/", recipeH.Create)
		r.Get("/recipes/{id}/", recipeH.Get)
		r.Put("/recipes/{id}/", recipeH.Update(true))
		r.Patch("/recipes/{id}/", recipeH.Update(false))
		r.Delete("/recipes/{id}/", recipeH.Delete)

		// ---------- tags ----------
		r.Get("/tags/", tagH.List)
		r.Post("/tags/", tagH.Create)
		r.Put("/tags/{id}/", tagH.Update)
		r.Patch("/tags/{id}/", tagH.Update)
		r.Delete("/tags/{id}/", tagH.Delete)

		// ---------- admin ----------
		r.With(middleware.RequireStaff).Get("/admin/users/", userH.List)
	})

	return r
}
