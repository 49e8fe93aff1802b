package rest

import (
	"log/slog"
	"net/http"
)

// RouterConfig collects everything NewRouter mounts.
type RouterConfig struct {
	API     *Handler
	Health  *HealthHandler
	Metrics http.Handler
	// AllowedOrigins are the browser origins permitted by CORS.
	AllowedOrigins []string
	// AuthRateLimit is requests/second per client on /register and /login.
	// Zero disables limiting.
	AuthRateLimit int
	Logger        *slog.Logger
}

// NewRouter builds the complete HTTP handler with middleware applied.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	var limiter *PerClientRateLimiter
	if cfg.AuthRateLimit > 0 {
		limiter = NewPerClientRateLimiter(cfg.AuthRateLimit)
	}
	cfg.API.RegisterRoutes(mux, limiter)
	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(mux)
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	// Build middleware chain (applied in reverse order).
	var h http.Handler = mux
	h = CORSMiddleware(cfg.AllowedOrigins)(h)
	h = LoggingMiddleware(cfg.Logger)(h)
	h = RecoverMiddleware(cfg.Logger)(h)
	return h
}
