package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	custommiddleware "github.com/mmeshcher/restaurant-backoffice/internal/middleware"
)

// RouterConfig задаёт параметры доступа к API.
type RouterConfig struct {
	// APIKey проверяется на маршрутах, которые вызывает бот. Пустое значение отключает проверку.
	APIKey      string
	CORSOrigins []string
}

// SetupRouter настраивает HTTP-маршруты и middleware бэк-офиса.
func (h *Handler) SetupRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", custommiddleware.APIKeyHeader},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(custommiddleware.GzipMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.RequireAPIKey(cfg.APIKey, h.logger))

			r.Post("/orders", h.CreateOrder)
			r.Get("/orders/{id}", h.GetOrder)
			r.Put("/orders/{id}/status", h.UpdateOrderStatus)
			r.Put("/orders/{id}/review", h.ReviewOrder)

			r.Get("/menu", h.GetMenu)
			r.Get("/schedule", h.GetSchedule)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Post("/analytics/update", h.UpdateAnalytics)
			r.Get("/analytics/dashboard", h.GetDashboard)
			r.Get("/analytics/export", h.ExportDashboard)

			r.Put("/admin/credentials", h.UpdateCredentials)

			r.Post("/menu", h.AddMenuItem)
			r.Put("/menu/{id}", h.UpdateMenuItem)

			r.Put("/schedule", h.UpdateSchedule)
			r.Post("/broadcast", h.SendBroadcast)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
