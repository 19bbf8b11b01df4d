package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsMaxAge is how long, in seconds, browsers may cache a preflight response.
const corsMaxAge = 300

// NewCORS creates the CORS middleware for the given allowed origins.
// Write endpoints need the X-API-Key and X-Time-Token headers to pass preflight.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			apiKeyHeader,
			timeTokenHeader,
		},
		ExposedHeaders:   []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})
}
