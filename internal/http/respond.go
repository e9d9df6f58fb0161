package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leg100/rawlink/internal"
)

// ErrorResponse is the body of an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes v to the response as JSON with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes an API error response, deriving the status code from the
// error.
func Error(w http.ResponseWriter, err error) {
	JSON(w, StatusCode(err), ErrorResponse{Error: err.Error()})
}

// StatusCode maps an error to an http status code.
func StatusCode(err error) int {
	var (
		httpErr    *internal.HTTPError
		missingErr *internal.MissingParameterError
		invalidErr internal.InvalidParameterError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, internal.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal.ErrResourceAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, internal.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, internal.ErrEmptyUpload),
		errors.As(err, &missingErr),
		errors.As(err, &invalidErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
