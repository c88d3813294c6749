package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRequest is a single submission of source text to the AI backend.
// Entries are read-only history; the backend owns them.
type GenerationRequest struct {
	ID             uuid.UUID `json:"id"`
	SourceText     string    `json:"source_text"`
	CreatedAt      time.Time `json:"created_at"`
	FlashcardCount int       `json:"flashcard_count"`
}

// GenerationResult is the response to a successful generation: the request
// record plus the batch of candidate cards awaiting review.
type GenerationResult struct {
	Request    GenerationRequest `json:"generation_request"`
	Flashcards []Flashcard       `json:"flashcards"`
}

// Excerpt returns the first n runes of the source text for history rows.
func (g GenerationRequest) Excerpt(n int) string {
	runes := []rune(g.SourceText)
	if len(runes) <= n {
		return g.SourceText
	}
	return string(runes[:n]) + "…"
}
