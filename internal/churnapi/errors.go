package churnapi

import (
	"errors"
	"fmt"
)

const UnexpectedErrorMessage = "An unexpected error occurred. Please try again."

// APIError is a non-2xx response from the prediction service. Message is
// the "message" field of the JSON error body, empty if there was none.
type APIError struct {
	StatusCode int
	Message    string
	Err        string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("prediction api: status %d: %s", e.StatusCode, e.Message)
	case e.Err != "":
		return fmt.Sprintf("prediction api: status %d: %s", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("prediction api: status %d", e.StatusCode)
	}
}

// UserMessage turns an error from this package into the text shown to the
// user. A server-supplied message wins. Other server errors get fallback.
// Anything that never got a response gets UnexpectedErrorMessage.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return UnexpectedErrorMessage
}

// IsNotFound reports whether err is a 404 from the prediction service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
