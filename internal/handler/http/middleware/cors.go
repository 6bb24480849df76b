// Package middleware holds the cross-cutting HTTP middleware of the API:
// CORS, client IP extraction and per-IP rate limiting.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// DefaultAllowedOrigins are the local frontend dev servers.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is the exact-match origin allow-list.
	AllowedOrigins []string

	// AllowedMethods and AllowedHeaders answer preflights. "*" echoes what
	// the browser asked for, which stays valid with credentials.
	AllowedMethods []string
	AllowedHeaders []string

	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int

	Logger *slog.Logger
}

// DefaultCORSConfig allows the local frontends with credentials and any method or header.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   DefaultAllowedOrigins,
		AllowedMethods:   []string{"*"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// CORS returns middleware that adds CORS headers for allowed origins and
// answers their preflight requests. Requests from other origins pass through
// without CORS headers, so the browser blocks them.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(config.AllowedOrigins))
	for _, o := range config.AllowedOrigins {
		allowed[normalizeOrigin(o)] = struct{}{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if _, ok := allowed[normalizeOrigin(origin)]; !ok {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			if config.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods",
					allowList(config.AllowedMethods, r.Header.Get("Access-Control-Request-Method")))
				if h := allowList(config.AllowedHeaders, r.Header.Get("Access-Control-Request-Headers")); h != "" {
					w.Header().Set("Access-Control-Allow-Headers", h)
				}
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allowList(configured []string, requested string) string {
	for _, v := range configured {
		if v == "*" {
			return requested
		}
	}
	return strings.Join(configured, ", ")
}

func normalizeOrigin(o string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
}
