package models

import (
	"net/url"
	"strconv"
)

// Sort keys accepted by the flashcard list endpoint.
const (
	SortCreatedAt    = "created_at"
	SortUpdatedAt    = "updated_at"
	SortNextReviewAt = "next_review_at"
)

const DefaultPageLimit = 12

// ListParams are the query parameters of the flashcard collection view.
// Zero values mean "no filter" / server defaults.
type ListParams struct {
	Status FlashcardStatus
	Source FlashcardSource
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// NewListParams parses URL query values into normalized list parameters.
// Unknown filter, sort and order values fall back to defaults.
func NewListParams(q url.Values) ListParams {
	p := ListParams{
		Sort:  q.Get("sort"),
		Order: q.Get("order"),
		Limit: DefaultPageLimit,
	}

	switch s := FlashcardStatus(q.Get("status")); s {
	case StatusActive, StatusPendingReview, StatusRejected:
		p.Status = s
	}
	switch s := FlashcardSource(q.Get("source")); s {
	case SourceAIGenerated, SourceManual:
		p.Source = s
	}
	switch p.Sort {
	case SortCreatedAt, SortUpdatedAt, SortNextReviewAt:
	default:
		p.Sort = SortCreatedAt
	}
	if p.Order != "asc" {
		p.Order = "desc"
	}

	p.Page = 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	return p
}

// WithFilter returns a copy with one filter changed and the page reset to 1.
// Every filter change restarts pagination so the window stays valid.
func (p ListParams) WithFilter(key, value string) ListParams {
	next := p
	switch key {
	case "status":
		next.Status = FlashcardStatus(value)
	case "source":
		next.Source = FlashcardSource(value)
	case "sort":
		next.Sort = value
	case "order":
		next.Order = value
	}
	next.Page = 1
	return next
}

// WithPage returns a copy pointing at the given page, keeping all filters.
func (p ListParams) WithPage(page int) ListParams {
	next := p
	if page < 1 {
		page = 1
	}
	next.Page = page
	return next
}

// Values encodes the parameters back into URL query values. Defaults are
// omitted so links stay short.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.Source != "" {
		q.Set("source", string(p.Source))
	}
	if p.Sort != "" && p.Sort != SortCreatedAt {
		q.Set("sort", p.Sort)
	}
	if p.Order != "" && p.Order != "desc" {
		q.Set("order", p.Order)
	}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	return q
}

// CacheKey is a stable identifier of this exact query for the request cache.
func (p ListParams) CacheKey() string {
	return "flashcards?status=" + string(p.Status) +
		"&source=" + string(p.Source) +
		"&sort=" + p.Sort +
		"&order=" + p.Order +
		"&page=" + strconv.Itoa(p.Page) +
		"&limit=" + strconv.Itoa(p.Limit)
}
