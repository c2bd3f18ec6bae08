package rest

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"time"

	"orgapi/pkg/errors"
)

// Minimal OpenAPI 3 document model, populated from the route registry.
type openAPIDocument struct {
	OpenAPI string                             `json:"openapi"`
	Info    openAPIInfo                        `json:"info"`
	Paths   map[string]map[string]openAPIRoute `json:"paths"`
}

type openAPIInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type openAPIRoute struct {
	Summary     string             `json:"summary,omitempty"`
	Parameters  []openAPIParam     `json:"parameters,omitempty"`
	RequestBody *openAPIBody       `json:"requestBody,omitempty"`
	Responses   map[string]openAPIResponse `json:"responses"`
}

type openAPIParam struct {
	Name        string        `json:"name"`
	In          string        `json:"in"`
	Required    bool          `json:"required"`
	Description string        `json:"description,omitempty"`
	Schema      openAPISchema `json:"schema"`
}

type openAPIBody struct {
	Required bool                        `json:"required"`
	Content  map[string]openAPIMedia     `json:"content"`
}

type openAPIMedia struct {
	Schema openAPISchema `json:"schema"`
}

type openAPIResponse struct {
	Description string `json:"description"`
}

type openAPISchema struct {
	Type       string                   `json:"type,omitempty"`
	Format     string                   `json:"format,omitempty"`
	Properties map[string]openAPISchema `json:"properties,omitempty"`
	Required   []string                 `json:"required,omitempty"`
}

// BuildOpenAPI assembles the API description from the registered route
// tables. It runs once at startup.
func BuildOpenAPI(reg *Registry, basePath string) *openAPIDocument {
	doc := &openAPIDocument{
		OpenAPI: "3.0.3",
		Info:    openAPIInfo{Title: "orgapi", Version: "1.0.0"},
		Paths:   make(map[string]map[string]openAPIRoute),
	}

	for _, c := range reg.Controllers() {
		for _, route := range c.Routes() {
			pattern := fullPath(basePath+normalizeSegment(c.Prefix()), route.Path)
			params := mergeImplicitParams(route.Params, pattern)

			op := openAPIRoute{
				Summary:   route.Summary,
				Responses: map[string]openAPIResponse{"default": {Description: "response"}},
			}

			for _, p := range params {
				op.Parameters = append(op.Parameters, openAPIParam{
					Name:        p.Name,
					In:          string(p.In),
					Required:    p.In == ParamInPath,
					Description: p.Description,
					Schema:      openAPISchema{Type: "string"},
				})
			}

			if route.Body != nil {
				op.RequestBody = &openAPIBody{
					Required: true,
					Content: map[string]openAPIMedia{
						"application/json": {Schema: schemaOf(route.Body())},
					},
				}
			}

			if doc.Paths[pattern] == nil {
				doc.Paths[pattern] = make(map[string]openAPIRoute)
			}
			doc.Paths[pattern][strings.ToLower(route.Method)] = op
		}
	}

	return doc
}

// schemaOf derives a flat object schema from a body prototype's exported
// fields and json tags.
func schemaOf(proto interface{}) openAPISchema {
	t := reflect.TypeOf(proto)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return openAPISchema{Type: "object"}
	}

	schema := openAPISchema{Type: "object", Properties: make(map[string]openAPISchema)}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = field.Name
		}

		schema.Properties[name] = fieldSchema(field.Type)
		if strings.Contains(field.Tag.Get("validate"), "required") {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema
}

func fieldSchema(t reflect.Type) openAPISchema {
	switch t.Kind() {
	case reflect.String:
		return openAPISchema{Type: "string"}
	case reflect.Bool:
		return openAPISchema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openAPISchema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return openAPISchema{Type: "number"}
	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return openAPISchema{Type: "string", Format: "date-time"}
		}
		return openAPISchema{Type: "object"}
	default:
		return openAPISchema{Type: "string"}
	}
}

// serveOpenAPI renders the document; a marshal failure surfaces as a 500
// envelope through the translator.
func (rt *Router) serveOpenAPI(doc *openAPIDocument) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := json.Marshal(doc)
		if err != nil {
			rt.errs.Handle(w, r, errors.NewInternalError("failed to generate OpenAPI document").WithCause(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}
}
