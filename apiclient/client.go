// Package apiclient is the single configured client for the flashcards
// backend REST API. Every data component in the web layer goes through it:
// it attaches the caller's credentials, decodes the backend error envelope
// and hands all failures back to the caller unmodified.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pawelnowak/fiszki-ai/models"
)

// Client issues requests against the backend API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given API base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsUnauthorized reports whether err is a backend 401. The HTTP middleware
// uses this as its redirect trigger; handlers use it to fall back to the
// login page instead of rendering a toast.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*models.APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// ListFlashcards fetches one page of the user's collection.
func (c *Client) ListFlashcards(ctx context.Context, token string, params models.ListParams) (*models.FlashcardPage, error) {
	path := "/flashcards"
	q := params.Values()
	q.Set("page", fmt.Sprint(params.Page))
	q.Set("limit", fmt.Sprint(params.Limit))
	q.Set("sort", params.Sort)
	q.Set("order", params.Order)
	path += "?" + q.Encode()

	var page models.FlashcardPage
	if err := c.do(ctx, http.MethodGet, path, token, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FlashcardUpdate is a partial edit; nil fields are left unchanged.
type FlashcardUpdate struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

// UpdateFlashcard edits a card in place.
func (c *Client) UpdateFlashcard(ctx context.Context, token string, id uuid.UUID, update FlashcardUpdate) (*models.Flashcard, error) {
	var card models.Flashcard
	if err := c.do(ctx, http.MethodPatch, "/flashcards/"+id.String(), token, update, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// ApproveFlashcard moves a pending card to active.
func (c *Client) ApproveFlashcard(ctx context.Context, token string, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/flashcards/"+id.String()+"/approve", token, nil, nil)
}

// RejectFlashcard marks a pending card rejected.
func (c *Client) RejectFlashcard(ctx context.Context, token string, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/flashcards/"+id.String()+"/reject", token, nil, nil)
}

// BatchApproveResult reports how many cards the backend transitioned.
type BatchApproveResult struct {
	ApprovedCount int `json:"approved_count"`
}

// BatchApprove activates the given pending cards in one call.
func (c *Client) BatchApprove(ctx context.Context, token string, ids []uuid.UUID) (*BatchApproveResult, error) {
	body := map[string][]uuid.UUID{"flashcard_ids": ids}
	var result BatchApproveResult
	if err := c.do(ctx, http.MethodPost, "/flashcards/batch-approve", token, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListGenerationRequests fetches the generation history, newest first.
func (c *Client) ListGenerationRequests(ctx context.Context, token string) ([]models.GenerationRequest, error) {
	var out struct {
		Data []models.GenerationRequest `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/generation-requests", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateGeneration submits source text to the AI backend and returns the
// generated candidate cards.
func (c *Client) CreateGeneration(ctx context.Context, token, sourceText string) (*models.GenerationResult, error) {
	body := map[string]string{"source_text": sourceText}
	var result models.GenerationResult
	if err := c.do(ctx, http.MethodPost, "/generation-requests", token, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestPasswordReset asks the backend to start the recovery flow.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/password/reset-request", "", body, nil)
}

// UpdatePassword completes the recovery flow. The token is the short-lived
// session from the recovery link, not a regular sign-in token.
func (c *Client) UpdatePassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/password/update", token, body, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

// decodeAPIError maps the backend envelope {"error": {code, message, details}}
// into *models.APIError. Bodies that are not the envelope still produce a
// typed error with the HTTP status.
func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error *models.APIError `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &envelope)

	apiErr := envelope.Error
	if apiErr == nil {
		apiErr = &models.APIError{Code: "unknown", Message: http.StatusText(resp.StatusCode)}
	}
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}
