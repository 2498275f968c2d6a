package middleware

import (
	"net/http"

	"github.com/turhan-exe/Soccer-React-sub000/internal/httputil"
	"golang.org/x/time/rate"
)

// RateLimitWrites rejects mutating requests with 429 once the shared limiter runs dry. Reads
// are never limited, and a nil limiter lets everything through.
func RateLimitWrites(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isReadOnly(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow() {
				httputil.TooManyRequests(w, "Too many write requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
