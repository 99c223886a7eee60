package httpCors

import (
	"net/http"

	"github.com/rs/cors"

	"craftmyprep-backend/config"
)

// CorsSettings allows credentialed requests from the configured client
// origins (comma separated).
func CorsSettings(cfg config.Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedOrigins:   cfg.ClientOrigins(),
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		Debug:            false,
	})
}
