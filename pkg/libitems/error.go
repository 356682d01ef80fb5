package libitems

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// An APIError reprensents an HTTP error returned by the items server.
type APIError struct {
	StatusCode int
	Err        struct {
		Tag     string `json:"tag"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseAPIError(r io.Reader, code int) error {
	var apierr APIError
	dec := json.NewDecoder(r)
	if err := dec.Decode(&apierr); err != nil || apierr.Err.Message == "" {
		apierr.Err.Message = fmt.Sprintf("unexpected response: %d %s", code, http.StatusText(code))
	}
	apierr.StatusCode = code
	return &apierr
}

// Tag returns the error's tag (e.g. validation, not-found).
func (e *APIError) Tag() string {
	return e.Err.Tag
}

func (e *APIError) Error() string {
	return e.Err.Message
}
