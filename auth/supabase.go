package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pawelnowak/fiszki-ai/models"
)

// Client talks to the Supabase GoTrue auth endpoints. The web layer never
// handles password hashes or token issuance itself; everything is delegated
// over HTTP to the provider.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// New creates an auth client for the given Supabase project.
func New(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Session is what a successful sign-in or sign-up returns.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	TokenType    string      `json:"token_type"`
	User         models.User `json:"user"`
}

// Error is a failure reported by the auth provider.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth: %d %s: %s", e.Status, e.Code, e.Message)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new user with the auth provider.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/signup", c.anonKey, credentials{email, password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignInWithPassword exchanges email/password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.anonKey, credentials{email, password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session behind the given access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// DeleteUser removes an account through the admin API. Requires the
// service-role key; never callable with an anon session.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if c.serviceKey == "" {
		return &Error{Status: http.StatusForbidden, Code: "no_service_key", Message: "service role key not configured"}
	}
	return c.doWithKey(ctx, http.MethodDelete, "/auth/v1/admin/users/"+userID, c.serviceKey, c.serviceKey, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	return c.doWithKey(ctx, method, path, c.anonKey, bearer, body, out)
}

func (c *Client) doWithKey(ctx context.Context, method, path, apiKey, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("auth: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAuthError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("auth: decode response: %w", err)
	}
	return nil
}

// GoTrue has reported errors in a couple of shapes over time; accept both.
func decodeAuthError(resp *http.Response) error {
	var payload struct {
		Code             string `json:"error_code"`
		Msg              string `json:"msg"`
		ErrorField       string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &payload)

	authErr := &Error{Status: resp.StatusCode, Code: payload.Code, Message: payload.Msg}
	if authErr.Code == "" {
		authErr.Code = payload.ErrorField
	}
	if authErr.Message == "" {
		authErr.Message = payload.ErrorDescription
	}
	if authErr.Message == "" {
		authErr.Message = http.StatusText(resp.StatusCode)
	}
	return authErr
}
