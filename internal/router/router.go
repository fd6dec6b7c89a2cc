package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/handlers"
	"github.com/Totarae/EasyLink/internal/middleware"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.GzipMiddleware)            // Gzip-сжатие

	r.Get("/health", handler.Health)

	r.Route("/api", func(api chi.Router) {
		api.Route("/links", func(links chi.Router) {
			links.Get("/", handler.ListLinks)
			links.Post("/", handler.CreateLink)
			links.Get("/{id}", handler.GetLink)
			links.Put("/{id}", handler.UpdateLink)
			links.Delete("/{id}", handler.DeleteLink)
		})

		api.Route("/categories", func(cats chi.Router) {
			cats.Get("/", handler.ListCategories)
			cats.Post("/", handler.CreateCategory)
			cats.Get("/{id}", handler.GetCategory)
			cats.Put("/{id}", handler.UpdateCategory)
			cats.Delete("/{id}", handler.DeleteCategory)
		})

		api.Get("/export", handler.Export)
		api.Post("/import", handler.Import)
		api.Delete("/clear", handler.Clear)
	})

	return r
}
