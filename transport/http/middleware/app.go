package middleware

import (
	"context"
	"fmt"
	"net/http"

	"alojasys/config"
	"alojasys/infras/otel"
	"alojasys/shared/cache"
	"alojasys/shared/constant"
	"alojasys/transport/http/response"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	APIKey(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spanName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)

		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, spanName)
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.method":     r.Method,
			"http.user_agent": a.getUA(r),
			"http.host":       r.Host,
			"http.source":     a.getClientIP(r),
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// APIKey guards the API behind a shared key and stamps the acting user onto
// the request context for audit columns. An empty configured key disables
// the check, which is how local development runs.
func (a *appMiddleware) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.config.App.APIKey != "" && r.Header.Get(constant.RequestHeaderAPIKey) != a.config.App.APIKey {
			response.WithMessage(w, http.StatusUnauthorized, "invalid API key")

			return
		}

		if user := r.Header.Get(constant.RequestHeaderUserID); user != "" {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, user)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}
