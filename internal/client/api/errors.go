package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNetwork marks transport-level failures (connection refused, DNS,
	// context deadline). The detail is logged, never shown.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is matched by *APIError values carrying a 401 status.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnexpectedStatus is returned by Transfer when storage answers with
	// anything but 204.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// NetworkMessage is the text shown for any ErrNetwork failure.
const NetworkMessage = "Network error, please try again later."

// ErrorBody is the error envelope shared by all services.
type ErrorBody struct {
	Message string      `json:"message,omitempty"`
	Errors  []ErrorItem `json:"errors,omitempty"`
}

type ErrorItem struct {
	Msg string `json:"msg"`
}

// APIError is an expected failure response from one of the services.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// CombineErrors builds the user-facing message for an error envelope.
// A top-level message wins; otherwise the errors list is numbered and joined
// with newlines; otherwise fallback is used.
func CombineErrors(body ErrorBody, fallback string) string {
	if body.Message != "" {
		return body.Message
	}
	if len(body.Errors) == 0 {
		return fallback
	}
	lines := make([]string, len(body.Errors))
	for i, e := range body.Errors {
		lines[i] = fmt.Sprintf("%d. %s", i+1, e.Msg)
	}
	return strings.Join(lines, "\n")
}

// Message returns the text a user should see for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrNetwork) {
		return NetworkMessage
	}
	return err.Error()
}
