package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/diagramkit/pkg/errors"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("json encode failed", "err", err)
	}
}

type errResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
	Ref   string      `json:"ref,omitempty"`
}

// writeError maps coded errors to HTTP statuses. Uncoded errors are
// logged and reported as 500 without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(errors.GetCode(err))
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		s.writeJSON(w, status, errResponse{Error: "internal error", Code: errors.ErrCodeInternal})
		return
	}
	s.writeJSON(w, status, errResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
		Ref:   errors.GetRef(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidModel, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTheme, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnknownNodeReference, errors.ErrCodeMissingLaneForActor, errors.ErrCodeDuplicateID:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
