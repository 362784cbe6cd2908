package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	platformhealth "github.com/shestoi/GoBigTech/platform/health/http"
	platformobservability "github.com/shestoi/GoBigTech/platform/observability"

	"github.com/shestoi/GoBigTech/services/storefront/internal/api/http/middleware"
)

// healthTimeout - общий таймаут всех readiness проверок
const healthTimeout = 2 * time.Second

// NewRouter создаёт и настраивает HTTP роутер для Storefront Service.
// checks выполняются на /health; если хотя бы одна вернула ошибку, ответ 503.
func NewRouter(handler *Handler, checks map[string]platformhealth.Check, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	if logger == nil {
		logger = zap.NewNop()
	}

	// Observability: span на каждый запрос и logger с trace_id в контексте
	router.Use(platformobservability.HTTPMiddleware("storefront", logger))
	router.Use(middleware.RequestID(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", handler.ListProducts)
			r.Post("/", handler.CreateProduct)
			r.Get("/{pid}", handler.GetProduct)
			r.Put("/{pid}", handler.UpdateProduct)
			r.Delete("/{pid}", handler.DeleteProduct)
		})
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", handler.CreateCart)
			r.Get("/{cid}", handler.GetCart)
			r.Put("/{cid}", handler.ReplaceItems)
			r.Delete("/{cid}", handler.ClearCart)
			r.Delete("/{cid}/purge", handler.PurgeCart)
			r.Post("/{cid}/product/{pid}", handler.AddItem)
			r.Put("/{cid}/product/{pid}", handler.SetItemQuantity)
			r.Delete("/{cid}/product/{pid}", handler.RemoveItem)
		})
	})

	router.Get("/health", platformhealth.Handler(healthTimeout, checks))

	return router
}
