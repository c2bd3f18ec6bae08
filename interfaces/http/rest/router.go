package rest

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"orgapi/infrastructure/config"
	"orgapi/interfaces/http/rest/middleware"
	"orgapi/pkg/common"
	"orgapi/pkg/errors"
	"orgapi/pkg/httpcache"
	"orgapi/pkg/ratelimit"
	"orgapi/pkg/utils"
)

// maxBodyBytes bounds request bodies accepted by the dispatcher.
const maxBodyBytes = 1 << 20

type bodyContextKey struct{}

// BodyFrom returns the decoded, validated request body the dispatcher
// stored for routes that declare a body prototype.
func BodyFrom[T any](r *http.Request) *T {
	body, _ := r.Context().Value(bodyContextKey{}).(*T)
	return body
}

// Router builds the HTTP handler from the controller registry.
type Router struct {
	registry *Registry
	errs     *errors.ErrorHandler
	store    *httpcache.Store
	cfg      *config.Config
	logger   *zap.Logger
	checks   []HealthCheck
	started  time.Time
	limiter  *ratelimit.TokenBucket
}

// NewRouter creates a Router. The checks feed the readiness endpoint.
func NewRouter(
	registry *Registry,
	errHandler *errors.ErrorHandler,
	store *httpcache.Store,
	cfg *config.Config,
	logger *zap.Logger,
	checks ...HealthCheck,
) *Router {
	return &Router{
		registry: registry,
		errs:     errHandler,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		checks:   checks,
		started:  time.Now(),
	}
}

// Setup wires global middleware, system endpoints and every registered
// controller. Misconfigured route tables abort startup.
func (rt *Router) Setup() (http.Handler, error) {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errs.Middleware)

	// Unknown paths and methods get the same envelope as every other failure
	rt.setFallbacks(router)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Cache"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Probes and docs sit outside the cached /api surface
	router.Get("/health", rt.healthCheck)
	router.Get("/readiness", rt.readinessCheck)

	doc := BuildOpenAPI(rt.registry, "/api")
	router.Get("/swagger", swaggerUI)
	router.Get("/swagger/openapi.json", rt.serveOpenAPI(doc))

	seen := make(map[string]bool)

	var setupErr error
	router.Route("/api", func(api chi.Router) {
		rt.setFallbacks(api)
		if rt.cfg.RateLimitRPM > 0 {
			rt.limiter = ratelimit.PerMinute(rt.cfg.RateLimitRPM)
			api.Use(middleware.RateLimit(rt.limiter, rt.errs, rt.logger))
		}
		api.Use(middleware.InvalidateOnMutation(rt.store, rt.logger))
		api.Use(middleware.CacheControl(httpcache.DefaultTTL, "/api/users", "/api/organizations"))
		api.Use(middleware.ResponseCache(rt.store, rt.logger))

		for _, c := range rt.registry.Controllers() {
			if err := rt.mount(api, c, seen); err != nil {
				setupErr = err
				return
			}
		}
	})
	if setupErr != nil {
		return nil, setupErr
	}

	return router, nil
}

// setFallbacks installs the envelope-rendering handlers for unmatched
// paths and methods. Subrouters mounted before their parent do not
// inherit these from chi, so every mux sets them itself.
func (rt *Router) setFallbacks(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		rt.errs.HandleStatus(w, req, http.StatusNotFound, fmt.Sprintf("Route %s %s not found", req.Method, req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		rt.errs.HandleStatus(w, req, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed for %s", req.Method, req.URL.Path))
	})
}

// Close stops background work started by Setup.
func (rt *Router) Close() {
	if rt.limiter != nil {
		rt.limiter.Close()
	}
}

// mount installs one controller's route table.
func (rt *Router) mount(api chi.Router, c Controller, seen map[string]bool) error {
	prefix := normalizeSegment(c.Prefix())
	if prefix == "" {
		return fmt.Errorf("rest: controller %T has an empty prefix", c)
	}

	var mountErr error
	api.Route(prefix, func(r chi.Router) {
		rt.setFallbacks(r)
		for _, mw := range c.Middleware() {
			r.Use(mw)
		}

		for _, route := range c.Routes() {
			pattern := normalizeSegment(route.Path)
			if pattern == "" {
				pattern = "/"
			}

			full := fullPath("/api"+prefix, route.Path)
			key := route.Method + " " + full
			if seen[key] {
				// duplicate registrations hide one another; keep the first
				rt.logger.Warn("duplicate route ignored",
					zap.String("method", route.Method),
					zap.String("path", full),
				)
				continue
			}
			seen[key] = true

			if route.Handler == nil {
				mountErr = fmt.Errorf("rest: route %s has no handler", key)
				return
			}
			if route.Body != nil {
				if err := checkBodyPrototype(route.Body); err != nil {
					mountErr = fmt.Errorf("rest: route %s: %w", key, err)
					return
				}
			}

			handler := rt.dispatch(route)
			for i := len(route.Middleware) - 1; i >= 0; i-- {
				handler = route.Middleware[i](handler).ServeHTTP
			}
			r.Method(route.Method, pattern, http.HandlerFunc(handler))
		}
	})
	return mountErr
}

// dispatch runs one request through body binding, validation and the
// handler, routing any failure to the error translator. A response that
// already started is left alone.
func (rt *Router) dispatch(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		if route.Body != nil {
			body := route.Body()
			if err := common.ParseJSONBody(ww, r, body, maxBodyBytes); err != nil {
				rt.errs.Handle(ww, r, errors.NewBadRequestError("invalid JSON body").WithCause(err))
				return
			}
			if err := utils.ValidateStruct(body); err != nil {
				rt.errs.Handle(ww, r, err)
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), bodyContextKey{}, body))
		}

		if err := route.Handler(ww, r); err != nil {
			if ww.BytesWritten() == 0 {
				rt.errs.Handle(ww, r, err)
				return
			}
			rt.logger.Error("handler failed after response started",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
	}
}

// checkBodyPrototype rejects prototypes the dispatcher cannot decode
// into: the factory must return a non-nil pointer to a struct.
func checkBodyPrototype(factory func() interface{}) error {
	proto := factory()
	if proto == nil {
		return fmt.Errorf("body prototype factory returned nil")
	}
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("body prototype must be a pointer to struct, got %T", proto)
	}
	return nil
}
