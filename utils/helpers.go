package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WriteJSON encodes v with the right content type.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteJSONError writes the same envelope the backend uses, so browser-side
// callers handle both sources of errors uniformly.
func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// PolishMinutes renders a minute count with Polish plural forms:
// 1 minuta, 2-4 minuty, 5+ minut (with the 12-14 exception).
func PolishMinutes(n int) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n == 1:
		return "1 minuta"
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return fmt.Sprintf("%d minuty", n)
	default:
		return fmt.Sprintf("%d minut", n)
	}
}

// CountdownUntil formats how long until the rate limit resets, in whole
// minutes rounded up, never less than one minute.
func CountdownUntil(resetAt, now time.Time) string {
	remaining := resetAt.Sub(now)
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return PolishMinutes(minutes)
}
