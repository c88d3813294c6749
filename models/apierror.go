package models

import (
	"fmt"
	"time"
)

// APIError is the backend error envelope: {"error": {code, message, details}}.
// The HTTP status is filled in by the API client from the response.
type APIError struct {
	StatusCode int            `json:"-"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// RateLimitReset reads details.reset_at from a 429 payload. The backend sends
// it as an RFC 3339 timestamp.
func (e *APIError) RateLimitReset() (time.Time, bool) {
	if e.Details == nil {
		return time.Time{}, false
	}
	raw, ok := e.Details["reset_at"].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
