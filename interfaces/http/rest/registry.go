package rest

import (
	"net/http"
	"strings"
)

// Middleware is a standard net/http middleware.
type Middleware func(http.Handler) http.Handler

// HandlerFunc is a route handler that reports failures as errors; the
// dispatcher renders them through the error translator.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ParamIn locates a declared route parameter.
type ParamIn string

const (
	ParamInPath  ParamIn = "path"
	ParamInQuery ParamIn = "query"
)

// Param declares one route parameter for dispatch and OpenAPI generation.
type Param struct {
	In          ParamIn
	Name        string
	Description string
}

// Route is one entry of a controller's route table: method, relative
// path, parameter declarations, an optional body prototype and the
// handler itself.
type Route struct {
	Method     string
	Path       string
	Summary    string
	Params     []Param
	Body       func() interface{}
	Middleware []Middleware
	Handler    HandlerFunc
}

// Controller contributes a static route table mounted under a shared
// path prefix.
type Controller interface {
	Prefix() string
	Middleware() []Middleware
	Routes() []Route
}

// Registry is the ordered collection of controllers the router mounts.
// It is populated once during startup and read-only afterwards.
type Registry struct {
	controllers []Controller
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a controller, preserving registration order.
func (reg *Registry) Register(c Controller) {
	reg.controllers = append(reg.controllers, c)
}

// Controllers returns the registered controllers in registration order.
func (reg *Registry) Controllers() []Controller {
	return reg.controllers
}

// normalizeSegment forces a leading slash and strips a trailing one, so
// prefix and path concatenate cleanly. An empty segment stays empty.
func normalizeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "/" {
		return ""
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return strings.TrimSuffix(s, "/")
}

// fullPath joins a controller prefix and a route path.
func fullPath(prefix, path string) string {
	joined := normalizeSegment(prefix) + normalizeSegment(path)
	if joined == "" {
		return "/"
	}
	return joined
}

// pathParams extracts the {placeholder} names from a chi-style pattern.
func pathParams(pattern string) []string {
	var names []string
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			names = append(names, strings.Trim(seg, "{}"))
		}
	}
	return names
}

// mergeImplicitParams appends path placeholders found in the pattern but
// not declared on the route, so the metadata stays complete for the
// OpenAPI generator.
func mergeImplicitParams(declared []Param, pattern string) []Param {
	out := append([]Param(nil), declared...)
	for _, name := range pathParams(pattern) {
		found := false
		for _, p := range out {
			if p.In == ParamInPath && p.Name == name {
				found = true
				break
			}
		}
		if !found {
			out = append(out, Param{In: ParamInPath, Name: name})
		}
	}
	return out
}
