package web

import (
	"context"
	"net/http"
	"time"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

type checkResult struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	results := make(map[string]checkResult, len(s.checks))
	status := http.StatusOK

	for name, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			s.log.WithError(err).WithField("check", name).Error("Health check failed")
			results[name] = checkResult{Status: "error"}
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = checkResult{Status: "ok"}
	}

	writeJSON(w, status, results)
}
