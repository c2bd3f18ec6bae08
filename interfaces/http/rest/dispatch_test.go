package rest_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orgapi/infrastructure/config"
	"orgapi/interfaces/http/rest"
	apperrors "orgapi/pkg/errors"
	"orgapi/pkg/httpcache"
)

type stubController struct {
	prefix string
	routes []rest.Route
}

func (c *stubController) Prefix() string                { return c.prefix }
func (c *stubController) Middleware() []rest.Middleware { return nil }
func (c *stubController) Routes() []rest.Route          { return c.routes }

func buildRouter(t *testing.T, controllers ...rest.Controller) (http.Handler, error) {
	t.Helper()

	registry := rest.NewRegistry()
	for _, c := range controllers {
		registry.Register(c)
	}

	store := httpcache.NewStore(16, httpcache.DefaultTTL)
	t.Cleanup(store.Stop)

	cfg := &config.Config{
		Environment: config.EnvTest,
		Port:        8080,
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
	}

	router := rest.NewRouter(registry, apperrors.NewErrorHandler(zap.NewNop(), false), store, cfg, zap.NewNop())
	return router.Setup()
}

func TestDuplicateRouteKeepsFirstRegistration(t *testing.T) {
	respond := func(tag string) rest.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(tag))
			return err
		}
	}

	handler, err := buildRouter(t, &stubController{
		prefix: "/things",
		routes: []rest.Route{
			{Method: http.MethodGet, Path: "/", Handler: respond("first")},
			{Method: http.MethodGet, Path: "/", Handler: respond("second")},
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/things", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "first", rec.Body.String())
}

func TestSetupRejectsMissingHandler(t *testing.T) {
	_, err := buildRouter(t, &stubController{
		prefix: "/things",
		routes: []rest.Route{{Method: http.MethodGet, Path: "/"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler")
}

func TestSetupRejectsEmptyPrefix(t *testing.T) {
	_, err := buildRouter(t, &stubController{prefix: ""})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty prefix")
}

func TestSetupRejectsNonStructBodyPrototype(t *testing.T) {
	_, err := buildRouter(t, &stubController{
		prefix: "/things",
		routes: []rest.Route{{
			Method: http.MethodPost,
			Path:   "/",
			Body:   func() interface{} { return "not a struct" },
			Handler: func(w http.ResponseWriter, r *http.Request) error {
				return nil
			},
		}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pointer to struct")
}

func TestBodyFromReturnsValidatedBody(t *testing.T) {
	type createThing struct {
		Name string `json:"name" validate:"required"`
	}

	handler, err := buildRouter(t, &stubController{
		prefix: "/things",
		routes: []rest.Route{{
			Method: http.MethodPost,
			Path:   "/",
			Body:   func() interface{} { return &createThing{} },
			Handler: func(w http.ResponseWriter, r *http.Request) error {
				body := rest.BodyFrom[createThing](r)
				require.NotNil(t, body)
				w.WriteHeader(http.StatusCreated)
				_, err := w.Write([]byte(body.Name))
				return err
			},
		}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/things", strings.NewReader(`{"name":"widget"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "widget", rec.Body.String())
}

func TestRateLimitRejectsWithEnvelope(t *testing.T) {
	registry := rest.NewRegistry()
	registry.Register(&stubController{
		prefix: "/things",
		routes: []rest.Route{{
			Method: http.MethodGet,
			Path:   "/",
			Handler: func(w http.ResponseWriter, r *http.Request) error {
				w.WriteHeader(http.StatusOK)
				return nil
			},
		}},
	})

	store := httpcache.NewStore(16, httpcache.DefaultTTL)
	t.Cleanup(store.Stop)

	cfg := &config.Config{
		Environment:  config.EnvTest,
		Port:         8080,
		LogLevel:     "info",
		CORSOrigins:  []string{"*"},
		RateLimitRPM: 2,
	}

	router := rest.NewRouter(registry, apperrors.NewErrorHandler(zap.NewNop(), false), store, cfg, zap.NewNop())
	handler, err := router.Setup()
	require.NoError(t, err)
	t.Cleanup(router.Close)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/things", nil)
		req.RemoteAddr = "203.0.113.9:51000"
		handler.ServeHTTP(last, req)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), `"statusCode":429`)
}

func TestHandlerErrorAfterWriteDoesNotDoubleRespond(t *testing.T) {
	handler, err := buildRouter(t, &stubController{
		prefix: "/things",
		routes: []rest.Route{{
			Method: http.MethodGet,
			Path:   "/",
			Handler: func(w http.ResponseWriter, r *http.Request) error {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("partial"))
				return apperrors.NewInternalError("late failure")
			},
		}},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/things", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}
