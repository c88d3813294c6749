package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInWithPassword(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at",
			"refresh_token": "rt",
			"expires_in":    3600,
			"token_type":    "bearer",
		})
	}))
	defer server.Close()

	client := New(server.URL, "anon-key", "")
	session, err := client.SignInWithPassword(context.Background(), "user@example.com", "Abcdefg1")
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "rt", session.RefreshToken)
}

func TestSignInInvalidCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant", "error_description": "Invalid login credentials"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "anon", "").SignInWithPassword(context.Background(), "u@e.com", "wrong")
	require.Error(t, err)

	authErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Equal(t, "invalid_grant", authErr.Code)
	assert.Equal(t, "Invalid login credentials", authErr.Message)
}

func TestErrorNewFormat(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code": 422, "error_code": "user_already_exists", "msg": "User already registered"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "anon", "").SignUp(context.Background(), "u@e.com", "Abcdefg1")
	require.Error(t, err)

	authErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "user_already_exists", authErr.Code)
	assert.Equal(t, "User already registered", authErr.Message)
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := New(server.URL, "anon", "").SignOut(context.Background(), "session-token")
	require.NoError(t, err)
	assert.Equal(t, "Bearer session-token", gotAuth)
}

func TestDeleteUserRequiresServiceKey(t *testing.T) {
	t.Parallel()

	err := New("http://unused", "anon", "").DeleteUser(context.Background(), "some-id")
	require.Error(t, err)

	authErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "no_service_key", authErr.Code)
}

func TestDeleteUserUsesAdminKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/uid-1", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := New(server.URL, "anon", "service-key").DeleteUser(context.Background(), "uid-1")
	require.NoError(t, err)
}
