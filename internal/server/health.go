package server

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Pinger is a dependency checked by health handler.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse ...
// swagger:model
type HealthResponse struct {
	Version string            `json:"version"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// HealthHandler returns handler which pings every dependency within timeout.
// Service is unhealthy when any ping fails.
func HealthHandler(version string, timeout time.Duration, pingers map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(pingers))
	for k := range pingers {
		names = append(names, k)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := HealthResponse{
			Version: version,
		}

		for _, k := range names {
			if err := pingers[k].Ping(ctx); err != nil {
				if resp.Errors == nil {
					resp.Errors = make(map[string]string)
				}
				resp.Errors[k] = err.Error()
			}
		}

		status := http.StatusOK
		if len(resp.Errors) > 0 {
			status = http.StatusServiceUnavailable
		}

		writeOK(w, status, resp)
	}
}
