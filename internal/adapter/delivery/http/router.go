// Package http provides the HTTP delivery layer for the URL shortener service:
// the router, the API key quota gate, request handlers and API docs.
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/url-shortener-api/pkg/middleware/recoverer"
)

// NewRouter builds the chi router serving the shortener API. baseURL prefixes
// returned short URLs; when empty the request host is used.
func NewRouter(logger *httplog.Logger, baseURL string, userUseCase userUseCase, urlUseCase urlUseCase) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", apiKeyHeader},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))
	r.Use(quotaGate(userUseCase))

	mountDocs(r)

	h := newURLHandler(urlUseCase, validator.New(), baseURL)

	r.Post("/shorten", h.shortenURL)
	r.Get("/{shortCode}", h.redirect)

	return r
}
