package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/ballmap"
	"github.com/hupe1980/ballmap/catalog"
	"github.com/hupe1980/ballmap/layerstore"
	"github.com/hupe1980/ballmap/resource"
)

// errNotFound marks a missing record or an empty selection.
var errNotFound = errors.New("not found")

// statusOf maps an error to its HTTP status code.
func statusOf(err error) int {
	var (
		pe *errParam
		ve validator.ValidationErrors
		ud *catalog.ErrUnknownDataset
		ml *resource.ErrMemoryLimitExceeded
	)
	switch {
	case errors.As(err, &pe), errors.As(err, &ve), errors.As(err, &ud),
		errors.Is(err, ballmap.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, errNotFound), errors.Is(err, ballmap.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound), errors.Is(err, layerstore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ballmap.ErrInsufficientData), errors.Is(err, ballmap.ErrDegenerateVector):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ml):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.opts.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := s.opts.Codec.Marshal(v)
	if err != nil {
		s.opts.Logger.Error("encode response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
