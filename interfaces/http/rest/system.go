package rest

import (
	"context"
	"net/http"
	"time"

	"orgapi/pkg/common"
)

// readinessTimeout bounds each individual readiness probe.
const readinessTimeout = 500 * time.Millisecond

// HealthCheck names one dependency probe run by the readiness endpoint.
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

type checkResult struct {
	Status    string  `json:"status"`
	LatencyMs float64 `json:"latencyMs"`
	Error     string  `json:"error,omitempty"`
}

// healthCheck reports process liveness only. It never touches
// downstream dependencies, so it stays fast under load.
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"uptimeSec": int64(time.Since(rt.started).Seconds()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// readinessCheck runs every registered probe with its own timeout and
// reports per-dependency results in registration order. Any failure
// turns the endpoint 503.
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	results := make([]map[string]checkResult, 0, len(rt.checks))
	healthy := true

	for _, check := range rt.checks {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		start := time.Now()
		err := check.Probe(ctx)
		latency := time.Since(start)
		cancel()

		result := checkResult{
			Status:    "up",
			LatencyMs: float64(latency.Microseconds()) / 1000,
		}
		if err != nil {
			healthy = false
			result.Status = "down"
			result.Error = err.Error()
		}
		results = append(results, map[string]checkResult{check.Name: result})
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "not ready"
	}

	common.RespondJSON(w, status, map[string]interface{}{
		"status":    overall,
		"checks":    results,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>API Documentation</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      SwaggerUIBundle({
        url: "/swagger/openapi.json",
        dom_id: "#swagger-ui",
      });
    };
  </script>
</body>
</html>
`

func swaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(swaggerPage))
}
