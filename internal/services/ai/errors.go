package ai

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse indicates the provider returned no usable text
	ErrEmptyResponse = errors.New("empty response from provider")
)

// APIError represents an error from the text-generation provider API
type APIError struct {
	Message    string
	Type       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// extractAPIError attempts to pull structured error details out of a
// provider SDK error. Returns nil when the error carries no API status.
func extractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	if strings.Contains(errStr, "429") {
		return &APIError{
			StatusCode: 429,
			Message:    errStr,
			Type:       "rate_limit_error",
		}
	}
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "invalid_api_key") {
		return &APIError{
			StatusCode: 401,
			Message:    errStr,
			Type:       "authentication_error",
		}
	}

	return nil
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}

	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}
