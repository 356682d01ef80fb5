package apierror

import "net/http"

// Tags used to classify rendered errors.
const (
	TagValidation  = "validation"
	TagNotFound    = "not-found"
	TagInvalidAuth = "invalid-auth"
)

type (
	// An APIError represents the error format that can be rendered by the items server.
	APIError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if apierr, ok := err.(*APIError); ok && apierr.HTTPCode != 0 {
		return apierr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new APIError with the given message.
func New(message string) *APIError {
	return &APIError{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new APIError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *APIError {
	return &APIError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// Validation returns an unprocessable entity error.
func Validation(message string) *APIError {
	return NewWithTagCode(http.StatusUnprocessableEntity, TagValidation, message)
}

// NotFound returns a not found error.
func NotFound(message string) *APIError {
	return NewWithTagCode(http.StatusNotFound, TagNotFound, message)
}

// Tag returns the error's tag.
func (e *APIError) Tag() string {
	return e.FieldError.Tag
}

// Error implements error interface.
func (e *APIError) Error() string {
	return e.FieldError.Message
}
