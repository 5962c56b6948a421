package server

import (
	"context"
	"net/http"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"
)

// ReadyCheck reports whether a subsystem can take traffic.
type ReadyCheck func(ctx context.Context) error

type healthBody struct {
	Status string `json:"status"`
}

// HealthHandler answers liveness probes with 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		writeJSON(hr.Context(), rw, http.StatusOK, healthBody{Status: healthStatusOK})
	})
}

// ReadyHandler answers readiness probes. Any failing check turns the answer
// into 503 {"status":"unavailable"}.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		for _, check := range checks {
			if check(hr.Context()) != nil {
				writeJSON(hr.Context(), rw, http.StatusServiceUnavailable, healthBody{Status: healthStatusUnavailable})

				return
			}
		}

		writeJSON(hr.Context(), rw, http.StatusOK, healthBody{Status: healthStatusOK})
	})
}
