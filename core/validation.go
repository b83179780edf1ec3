package core

import (
	"errors"
	"net/http"
	"strings"
)

// MimeTypeJSON is the only request body media type the API accepts.
const MimeTypeJSON = "application/json"

// Validator defines an interface for request validation operations.
type Validator interface {
	// ContentType checks if the request's Content-Type matches the allowed
	// type. The returned jsonResponse is precomputed and ready to write on
	// error.
	ContentType(r *http.Request, allowedType string) (jsonResponse, error)
}

// DefaultValidator implements the Validator interface.
type DefaultValidator struct{}

// NewValidator creates a new DefaultValidator instance.
func NewValidator() Validator {
	return &DefaultValidator{}
}

// ContentType checks if the request's Content-Type matches the allowed type.
// Uses http.StatusUnsupportedMediaType (415) for invalid content types.
func (v *DefaultValidator) ContentType(r *http.Request, allowedType string) (jsonResponse, error) {
	errInvalidType := errors.New("invalid content type")
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return errorInvalidContentType, errInvalidType
	}

	// Handle cases where Content-Type includes charset or other parameters,
	// e.g. "application/json; charset=utf-8".
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if mediaType != allowedType {
		return errorInvalidContentType, errInvalidType
	}

	return jsonResponse{}, nil
}
