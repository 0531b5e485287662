package httpserver

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// SetupRouter attaches base middlewares.
// IMPORTANT: must be called before registering any routes.
func SetupRouter(r chi.Router) {
	// Correlation / request id
	r.Use(RequestIDMiddleware("X-Request-Id"))

	// The gateway is consumed by browser front-ends on arbitrary origins,
	// matching the permissive headers the streaming endpoints always sent.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}
