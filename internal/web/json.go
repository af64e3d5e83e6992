package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/coordinator"
	"github.com/courtside/scorekeeper/internal/stats"
	"github.com/courtside/scorekeeper/internal/tracker"
)

const handlerTimeout = 10 * time.Second

var errTimeout = errors.New("request timed out")

// waitForResponse waits for a response with a timeout.
func waitForResponse(resp <-chan error) error {
	select {
	case err := <-resp:
		return err
	case <-time.After(handlerTimeout):
		return errTimeout
	}
}

func waitForReply[T any](resp <-chan coordinator.Reply[T]) (T, error) {
	select {
	case r := <-resp:
		return r.Value, r.Err
	case <-time.After(handlerTimeout):
		var zero T
		return zero, errTimeout
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.New(apperr.ErrValidation, fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type correctionBody struct {
	Error       string             `json:"error"`
	Corrected   stats.Record       `json:"corrected"`
	Corrections []stats.Correction `json:"corrections"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrState):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrDataFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err with the status for its kind. A bulk edit that
// needs correction gets 422 with the corrected record so the operator can
// review and resubmit it.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var corr *tracker.CorrectionRequiredError
	if errors.As(err, &corr) {
		writeJSON(w, http.StatusUnprocessableEntity, correctionBody{
			Error:       err.Error(),
			Corrected:   corr.Corrected,
			Corrections: corr.Corrections,
		})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
	}
	writeError(w, status, err.Error())
}
