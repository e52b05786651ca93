package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/photobooth/pkg/errors"
)

// errorBody is the JSON error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusOf maps an error code to an HTTP status.
func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeFrameFull:
		return http.StatusConflict
	case errors.ErrCodeSlotOutOfRange, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidName, errors.ErrCodeInvalidSlotIndex:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodePhotoNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCameraUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeDecodeFailure:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooBig *http.MaxBytesError
	if stderrors.As(err, &tooBig) {
		err = errors.Wrap(errors.ErrCodeInvalidInput, err, "upload exceeds %d bytes", tooBig.Limit)
	}
	code := errors.GetCode(err)
	status := statusOf(code)
	body := errorBody{Code: code, Message: errors.UserMessage(err)}
	switch {
	case status == http.StatusInternalServerError:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		body = errorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	case errors.IsUserFlow(err):
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", code)
	default:
		s.logger.Info("bad request", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// intParam parses a numeric URL parameter.
func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer", name)
	}
	return v, nil
}
