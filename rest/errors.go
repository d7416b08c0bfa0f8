package rest

import "fmt"

// APIError is returned for every non-2xx backend response. It is always
// propagated to the caller and never silently swallowed; user-visible
// messaging is the caller's responsibility.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// NewAPIError constructs an APIError.
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}
