package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit caps request throughput with a shared token bucket. Used on the
// extraction endpoint, where each request runs document conversion and is
// by far the most expensive thing the server does.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "rate limit exceeded, retry shortly", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
