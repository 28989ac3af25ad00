package http

import (
	"errors"
	"net/http"

	"budgetdash/internal/core"
	"budgetdash/internal/log"
)

// parseBody reads a JSON or form body, writing a 400 response on failure.
func parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Invalid request body",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		BadRequestError("Invalid request body").Write(w)
		return nil, false
	}
	return p, true
}

// fail writes the response for err. Only unexpected errors are logged as errors.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	logger := log.FromContext(r.Context())
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrNotFound):
		logger.DebugContext(r.Context(), "Request rejected",
			log.FieldOperation, operation,
			log.FieldError, err)
	default:
		fields := log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "")
		if rev, revErr := s.service.Revision(r.Context()); revErr == nil {
			fields = fields.WithRevision(rev)
		}
		log.NewStructuredLogger(logger).LogError(r.Context(), "Request failed", err, log.ComponentHTTP, operation, fields)
	}
	FromError(err).Write(w)
}
