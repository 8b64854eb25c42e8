package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"soulsync/internal/domain"
	"soulsync/internal/infra/logging"
	"soulsync/internal/usecase"
)

// envelope is the JSON body of every response: success plus either a message
// or payload fields.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) ok(w http.ResponseWriter, status int, fields envelope) {
	if fields == nil {
		fields = envelope{}
	}
	fields["success"] = true
	writeJSON(w, status, fields)
}

func (s *Server) fail(w http.ResponseWriter, status int, key string) {
	writeJSON(w, status, envelope{"success": false, "message": s.tr.T(key)})
}

// writeError maps use-case errors to status codes. Unexpected errors are
// logged and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *usecase.RejectionError
	switch {
	case errors.As(err, &rej):
		writeJSON(w, http.StatusForbidden, envelope{"success": false, "message": rej.Error()})
	case errors.Is(err, domain.ErrInvalidArgument):
		s.fail(w, http.StatusBadRequest, "invalid_input")
	case errors.Is(err, domain.ErrUnauthorized):
		s.fail(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNoMoodToday):
		s.fail(w, http.StatusNotFound, "mood_missing")
	case errors.Is(err, domain.ErrNotFound):
		s.fail(w, http.StatusNotFound, "not_found")
	case errors.Is(err, domain.ErrMoodAlreadySubmitted):
		s.fail(w, http.StatusConflict, "mood_duplicate")
	case errors.Is(err, domain.ErrUserBlocked), errors.Is(err, domain.ErrSpamDetected):
		writeJSON(w, http.StatusForbidden, envelope{"success": false, "message": err.Error()})
	case errors.Is(err, domain.ErrAIUnavailable):
		s.fail(w, http.StatusServiceUnavailable, "ai_unavailable")
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.fail(w, http.StatusInternalServerError, "server_error")
	}
}

// decodeJSON reads a single JSON object into dst. It answers the request and
// returns false on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			s.fail(w, http.StatusRequestEntityTooLarge, "body_too_large")
		case errors.Is(err, io.EOF):
			s.fail(w, http.StatusBadRequest, "invalid_input")
		default:
			s.fail(w, http.StatusBadRequest, "invalid_body")
		}
		return false
	}
	return true
}

func isInvalid(err error) bool { return errors.Is(err, domain.ErrInvalidArgument) }
