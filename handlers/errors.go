package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pawelnowak/fiszki-ai/auth"
	"github.com/pawelnowak/fiszki-ai/models"
	"github.com/pawelnowak/fiszki-ai/utils"
)

// User-facing error messages, keyed by what the user was doing. Every failure
// surfaces as an inline alert or a toast; nothing is silently swallowed.
const (
	msgInvalidCredentials = "Nieprawidłowy email lub hasło"
	msgLinkExpired        = "Link wygasł lub jest nieprawidłowy. Poproś o nowy."
	msgRateLimited        = "Zbyt wiele prób. Spróbuj ponownie później."
	msgValidationFailed   = "Nieprawidłowe dane. Sprawdź formularz."
	msgEmailTaken         = "Konto z tym adresem email już istnieje"
	msgGenericFailure     = "Coś poszło nie tak. Spróbuj ponownie."
	msgLogoutFailed       = "Nie udało się wylogować. Spróbuj ponownie."
	msgDeleteFailed       = "Nie udało się usunąć konta. Spróbuj ponownie."
)

// authErrorMessage maps provider failures to a message for the given flow.
// expiredLink distinguishes the recovery flow, where a 401/403 means the
// one-time link is stale rather than wrong credentials.
func authErrorMessage(err error, expiredLink bool) string {
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		return msgGenericFailure
	}
	switch authErr.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if expiredLink {
			return msgLinkExpired
		}
		return msgInvalidCredentials
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if authErr.Code == "user_already_exists" || authErr.Code == "email_exists" {
			return msgEmailTaken
		}
		if expiredLink {
			return msgLinkExpired
		}
		return msgValidationFailed
	case http.StatusTooManyRequests:
		return msgRateLimited
	default:
		return msgGenericFailure
	}
}

// recoveryErrorMessage maps failures of the recovery flow, where an
// unauthorized response means the one-time link token is stale.
func recoveryErrorMessage(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return msgLinkExpired
		}
	}
	return apiErrorMessage(err)
}

// apiErrorMessage maps backend failures to a message. A 429 with a reset time
// becomes a countdown ("Limit wyczerpany. Spróbuj ponownie za 5 minut.").
func apiErrorMessage(err error) string {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		return msgGenericFailure
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return msgValidationFailed
	case http.StatusTooManyRequests:
		if resetAt, ok := apiErr.RateLimitReset(); ok {
			return "Limit wyczerpany. Spróbuj ponownie za " +
				utils.CountdownUntil(resetAt, time.Now()) + "."
		}
		return msgRateLimited
	default:
		return msgGenericFailure
	}
}
