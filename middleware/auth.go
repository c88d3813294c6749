package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/pawelnowak/fiszki-ai/auth"
)

// CustomClaims carries the provider claims we render in the UI.
type CustomClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validate implements validator.CustomClaims.
func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken verifies the Supabase access token stored in the session
// cookie. On failure it is the global unauthorized backstop: page requests are
// redirected to the login page carrying the current path as a return target,
// API requests get a JSON 401. Requests already under /auth/ are never
// redirected (the routes there are public and would loop).
func EnsureValidToken(sessions *auth.SessionStore, supabaseURL, jwtSecret string) (func(next http.Handler) http.Handler, error) {
	issuerURL, err := url.Parse(supabaseURL + "/auth/v1")
	if err != nil {
		return nil, err
	}

	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return []byte(jwtSecret), nil
		},
		validator.HS256,
		issuerURL.String(),
		[]string{"authenticated"},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
	)
	if err != nil {
		return nil, err
	}

	extractor := func(r *http.Request) (string, error) {
		token, err := sessions.AccessToken(r)
		if err != nil {
			// Empty string means "no token"; the middleware turns it into
			// a missing-token error for the error handler.
			return "", nil
		}
		return token, nil
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		if isAPIRequest(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "unauthorized", "message": "Sesja wygasła. Zaloguj się ponownie."},
			})
			return
		}
		if strings.HasPrefix(r.URL.Path, "/auth/") {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		target := "/auth/login?redirect=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusSeeOther)
	}

	jwtMiddleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithTokenExtractor(extractor),
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(false),
	)

	return jwtMiddleware.CheckJWT, nil
}

func isAPIRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
