package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID uuid.UUID, email string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"aud":   "authenticated",
		"iss":   "http://localhost/auth/v1",
		"exp":   expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestUserFromToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	token := signToken(t, userID, "user@example.com", time.Now().Add(time.Hour))

	user, err := UserFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestUserFromTokenRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"garbage": "not-a-jwt",
		"expired": signToken(t, uuid.New(), "u@e.com", time.Now().Add(-time.Hour)),
	}
	// A token whose subject is not a UUID.
	badSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := badSub.SignedString([]byte("k"))
	require.NoError(t, err)
	tests["bad subject"] = signed

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := UserFromToken(token)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewSessionStore([]byte("0123456789abcdef0123456789abcdef"), "localhost", false)
	userID := uuid.New()
	session := &Session{
		AccessToken:  signToken(t, userID, "user@example.com", time.Now().Add(time.Hour)),
		RefreshToken: "refresh",
	}

	// Save on one response, then read it back from a request carrying the
	// cookie, the way a browser would.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	require.NoError(t, store.Save(rec, req, session))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/flashcards", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}

	token, err := store.AccessToken(next)
	require.NoError(t, err)
	assert.Equal(t, session.AccessToken, token)

	user, err := store.CurrentUser(next)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestSessionStoreClear(t *testing.T) {
	t.Parallel()

	store := NewSessionStore([]byte("0123456789abcdef0123456789abcdef"), "localhost", false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)

	require.NoError(t, store.Clear(rec, req))

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Negative(t, sessionCookie.MaxAge)
}

func TestNoSession(t *testing.T) {
	t.Parallel()

	store := NewSessionStore([]byte("0123456789abcdef0123456789abcdef"), "localhost", false)
	req := httptest.NewRequest(http.MethodGet, "/flashcards", nil)

	_, err := store.AccessToken(req)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = store.CurrentUser(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestToastFlashRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewSessionStore([]byte("0123456789abcdef0123456789abcdef"), "localhost", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	store.AddToast(rec, req, "success", "Zalogowano pomyślnie")

	next := httptest.NewRequest(http.MethodGet, "/generate", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}

	rec2 := httptest.NewRecorder()
	toasts := store.Toasts(rec2, next)
	require.Len(t, toasts, 1)
	assert.Equal(t, "success", toasts[0].Kind)
	assert.Equal(t, "Zalogowano pomyślnie", toasts[0].Message)
	assert.NotEmpty(t, toasts[0].ID)
}
