package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	platformhealth "github.com/mattf196/henrylabs-takehome/platform/health/http"
	platformobservability "github.com/mattf196/henrylabs-takehome/platform/observability"
)

// NewRouter создаёт и настраивает HTTP роутер checkout-сервиса
// frontendOrigin - единственный origin, которому разрешены вызовы /checkout*;
// /webhooks приходит от шлюза и CORS-ограничений не имеет.
// readiness - функция готовности для health endpoint.
func NewRouter(handler *Handler, frontendOrigin string, readiness func() bool, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	// Observability: trace context + span на каждый запрос, logger с trace_id в контексте
	if logger != nil {
		router.Use(platformobservability.HTTPMiddleware("checkout", logger))
	}

	// /checkout* доступен только фронтенду
	router.Route("/checkout", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{frontendOrigin},
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		r.Post("/", handler.PostCheckout)
		r.Post("/confirm", handler.PostConfirmCheckout)
	})

	// Webhook-канал шлюза: всегда 200, без CORS
	router.Post("/webhooks", handler.PostWebhooks)

	// Health без middleware
	router.Get("/health", platformhealth.Handler(readiness))

	// Структурированный 404 вместо дефолтного plain text
	router.NotFound(handler.NotFound)

	return router
}
