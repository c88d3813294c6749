package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/pawelnowak/fiszki-ai/models"
)

const (
	sessionName = "fiszki_session"

	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

var (
	// ErrNoSession is returned when the request carries no usable session.
	ErrNoSession = errors.New("no session")
)

// SessionStore keeps the provider session in a signed cookie. It is the single
// source of auth state for the whole web layer: navigation, middleware and
// handlers all read through it rather than re-querying the provider.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore builds the cookie store. Secure/domain follow the deploy
// environment; HttpOnly always.
func NewSessionStore(secret []byte, domain string, secure bool) *SessionStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// Save writes the provider session into the cookie.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, session *Session) error {
	cookie, err := s.store.New(r, sessionName)
	if err != nil {
		// A stale or tampered cookie decodes with an error but still yields
		// a usable new session.
		if cookie == nil {
			return err
		}
	}
	cookie.Values[keyAccessToken] = session.AccessToken
	cookie.Values[keyRefreshToken] = session.RefreshToken
	return s.store.Save(r, w, cookie)
}

// AccessToken returns the access token of the current request, if any.
func (s *SessionStore) AccessToken(r *http.Request) (string, error) {
	cookie, err := s.store.Get(r, sessionName)
	if err != nil {
		return "", ErrNoSession
	}
	token, ok := cookie.Values[keyAccessToken].(string)
	if !ok || token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

// Clear drops the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	cookie, _ := s.store.Get(r, sessionName)
	cookie.Options.MaxAge = -1
	for k := range cookie.Values {
		delete(cookie.Values, k)
	}
	return s.store.Save(r, w, cookie)
}

// CurrentUser reads the user identity out of the access token claims.
// Expired or malformed tokens count as no session.
func (s *SessionStore) CurrentUser(r *http.Request) (*models.User, error) {
	token, err := s.AccessToken(r)
	if err != nil {
		return nil, err
	}
	return UserFromToken(token)
}

// UserFromToken extracts the user from an access token without verifying the
// signature. Claims shown in the UI are display-only; every request that acts
// on them is verified by the auth middleware or rejected by the backend.
func UserFromToken(accessToken string) (*models.User, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, ErrNoSession
	}
	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil || exp.Before(time.Now()) {
		return nil, ErrNoSession
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrNoSession
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrNoSession
	}

	email, _ := claims["email"].(string)
	return &models.User{ID: id, Email: email}, nil
}
