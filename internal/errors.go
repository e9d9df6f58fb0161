package internal

import (
	"errors"
	"fmt"
)

// Generic errors
var (
	// ErrResourceNotFound is returned when a requested resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrResourceAlreadyExists is returned when attempting to create a resource
	// that already exists.
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// ErrUploadTooLarge is returned when a user attempts to upload data that
	// is too large.
	ErrUploadTooLarge = errors.New("upload is too large")

	// ErrEmptyUpload is returned when a user uploads no content.
	ErrEmptyUpload = errors.New("upload is empty")
)

type (
	HTTPError struct {
		Code    int
		Message string
	}

	// MissingParameterError occurs when the caller has failed to provide a
	// required parameter
	MissingParameterError struct {
		Parameter string
	}

	InvalidParameterError string
)

func (e InvalidParameterError) Error() string {
	return string(e)
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("required parameter missing: %s", e.Parameter)
}
