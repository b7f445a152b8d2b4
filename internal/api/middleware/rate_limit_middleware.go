package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/RoyceAzure/lab/pickup/internal/ratelimit"
)

// NewRateLimitMiddleware 以 client ip 為 key
// 需要放在 chi RealIP 之後
func NewRateLimitMiddleware(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	if limiter == nil {
		panic("NewRateLimitMiddleware: limiter cannot be nil")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "Too Many Requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
