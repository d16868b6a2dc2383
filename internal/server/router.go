package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evgenyvinnik/MCPlator-sub000/internal/calcapi"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/handlers"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/observability"
)

// NewRouter assembles the middleware chain and mounts the calculator API.
func NewRouter(api *calcapi.API) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	api.RegisterRoutes(r)

	return r
}
