package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CacheControl marks GET responses under the given path prefixes as
// publicly cacheable for maxAge. It is a stateless complement to the
// response cache and stores nothing itself.
func CacheControl(maxAge time.Duration, prefixes ...string) func(next http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				for _, prefix := range prefixes {
					if strings.HasPrefix(r.URL.Path, prefix) {
						w.Header().Set("Cache-Control", value)
						break
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
