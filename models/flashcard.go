package models

import (
	"time"

	"github.com/google/uuid"
)

// FlashcardStatus is the review lifecycle state of a card.
type FlashcardStatus string

const (
	StatusActive        FlashcardStatus = "active"
	StatusPendingReview FlashcardStatus = "pending_review"
	StatusRejected      FlashcardStatus = "rejected"
)

// FlashcardSource records how a card came to exist.
type FlashcardSource string

const (
	SourceAIGenerated FlashcardSource = "ai_generated"
	SourceManual      FlashcardSource = "manual"
)

// Flashcard mirrors a server-owned flashcard resource. The web layer only
// holds ephemeral copies for rendering; the backend owns the data.
type Flashcard struct {
	ID           uuid.UUID       `json:"id"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Status       FlashcardStatus `json:"status"`
	Source       FlashcardSource `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	NextReviewAt *time.Time      `json:"next_review_at,omitempty"`
}

// Pagination describes the page window the backend returned.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// FlashcardPage is one page of the user's collection.
type FlashcardPage struct {
	Data       []Flashcard `json:"data"`
	Pagination Pagination  `json:"pagination"`
}
