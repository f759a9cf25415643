package httpserver

import (
	"net/http"
	"strings"

	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/rs/cors"
)

// CORSMiddleware returns an http.Handler that adds CORS headers for the
// configured origins.
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	origins := make([]string, 0, len(cfg.CORSAllowedOrigins))
	for _, o := range cfg.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           600,
	}
	// rs/cors reads an empty origin list as "*"; no origins configured means none allowed.
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts).Handler(next)
}
