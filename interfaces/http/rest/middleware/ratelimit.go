package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"orgapi/pkg/errors"
	"orgapi/pkg/ratelimit"
)

// RateLimit throttles requests per client IP. Rejections get the
// standard error envelope with a 429 status.
func RateLimit(limiter ratelimit.Limiter, errs *errors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("request rate limited",
					zap.String("client", key),
					zap.String("path", r.URL.Path),
				)
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr; the RealIP middleware has
// already resolved forwarding headers by the time this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
