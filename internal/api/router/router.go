package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "animeapi/docs" // swagger spec registration

	"animeapi/internal/api/anime"
	"animeapi/internal/api/user"
	"animeapi/internal/domain"
	"animeapi/internal/pkg/cache"
	"animeapi/internal/pkg/middleware"
)

// policy is the authorization table, evaluated top-down with first match
// winning. Writes to the anime resource need ADMIN, reads need any
// authenticated role, and everything else behind the gate just needs an
// authenticated identity.
var policy = []middleware.Rule{
	{Methods: []string{http.MethodPost, http.MethodPut, http.MethodDelete}, Prefix: "/anime", Role: domain.RoleAdmin},
	{Methods: []string{http.MethodGet}, Prefix: "/anime", Role: domain.RoleUser},
	{},
}

// New assembles the HTTP surface: public entry points (login, health check,
// API docs), the authorization gate in front of the resource routes, and a
// Redis-backed rate limiter around everything.
func New(animeHandler *anime.Handler, userHandler *user.Handler, tokens middleware.TokenValidator,
	cacheClient cache.Client, rateLimit int, ratePeriod time.Duration) http.Handler {

	protected := http.NewServeMux()
	protected.HandleFunc("GET /anime", animeHandler.List)
	protected.HandleFunc("GET /anime/{id}", animeHandler.GetByID)
	protected.HandleFunc("POST /anime", animeHandler.Create)
	protected.HandleFunc("POST /anime/batch", animeHandler.CreateBatch)
	protected.HandleFunc("PUT /anime/{id}", animeHandler.Update)
	protected.HandleFunc("DELETE /anime/{id}", animeHandler.Delete)

	gate := middleware.Authenticate(tokens)
	authorize := middleware.Authorize(policy)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", PingHandler)
	mux.HandleFunc("POST /login", userHandler.Login)
	mux.HandleFunc("POST /register", userHandler.Register)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	mux.Handle("/", gate(authorize(protected)))

	return middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)(mux)
}

// PingHandler is the unauthenticated health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
