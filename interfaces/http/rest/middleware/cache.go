package middleware

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"orgapi/pkg/httpcache"
)

// responseRecorder buffers a handler's response so a successful body can
// be snapshotted into the cache after it is written to the client.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// ResponseCache serves repeated GET requests from the store. Hits replay
// the stored status, content type and body without reaching the handler;
// misses run the handler and snapshot 2xx responses under the request's
// path-derived tags.
func ResponseCache(store *httpcache.Store, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := httpcache.Key(r.Method, r.URL.RequestURI())
			if entry, ok := store.Get(key); ok {
				for name, value := range entry.Headers {
					w.Header().Set(name, value)
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(entry.Status)
				_, _ = w.Write(entry.Body)
				return
			}

			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				return
			}

			headers := make(map[string]string, 1)
			if ct := rec.Header().Get("Content-Type"); ct != "" {
				headers["Content-Type"] = ct
			}

			tags := httpcache.ComputeTags(r.URL.Path)
			store.Set(key, &httpcache.Entry{
				Status:  rec.status,
				Headers: headers,
				Body:    append([]byte(nil), rec.body.Bytes()...),
				Tags:    tags,
			})

			logger.Debug("response cached",
				zap.String("key", key),
				zap.Strings("tags", tags),
			)
		})
	}
}

// InvalidateOnMutation drops cached entries affected by a mutating
// request before the handler runs, so a failed mutation at worst costs a
// needless refill.
func InvalidateOnMutation(store *httpcache.Store, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				tags := httpcache.MutationTags(r.URL.Path)
				store.InvalidateTags(tags)
				logger.Debug("cache invalidated",
					zap.String("path", r.URL.Path),
					zap.Strings("tags", tags),
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}
