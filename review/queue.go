// Package review holds the mutable working copy of one generation run while
// the user approves, rejects and edits the candidate cards. The backend is
// still the owner of the cards; the queue only tracks what is left to review
// and which cards are selected for a batch approve.
package review

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pawelnowak/fiszki-ai/models"
)

// Queue is the local copy of a generation run's candidate cards plus the
// selection set. Invariant: every selected id is the id of a held card.
// Handlers share one queue per user across requests, so every method takes
// the queue's own lock.
type Queue struct {
	RequestID uuid.UUID

	mu       sync.Mutex
	cards    []models.Flashcard
	selected map[uuid.UUID]struct{}
}

// NewQueue copies the generated cards into a fresh queue with nothing
// selected. The input slice is not retained.
func NewQueue(requestID uuid.UUID, cards []models.Flashcard) *Queue {
	q := &Queue{
		RequestID: requestID,
		cards:     make([]models.Flashcard, len(cards)),
		selected:  make(map[uuid.UUID]struct{}),
	}
	copy(q.cards, cards)
	return q
}

// Cards returns the remaining cards in review order.
func (q *Queue) Cards() []models.Flashcard {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.Flashcard, len(q.cards))
	copy(out, q.cards)
	return out
}

// Len reports how many cards are still awaiting a decision.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cards)
}

// IsSelected reports whether a card is in the batch-approve selection.
func (q *Queue) IsSelected(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isSelected(id)
}

// SelectedIDs returns the selection in current card order.
func (q *Queue) SelectedIDs() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.selectedIDs()
}

// SelectedCount reports the selection size.
func (q *Queue) SelectedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.selected)
}

// ToggleSelect flips a card's membership in the selection. Ids not present
// in the queue are ignored, keeping the subset invariant.
func (q *Queue) ToggleSelect(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.holds(id) {
		return
	}
	if q.isSelected(id) {
		delete(q.selected, id)
	} else {
		q.selected[id] = struct{}{}
	}
}

// SelectAll puts every remaining card into the selection.
func (q *Queue) SelectAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, card := range q.cards {
		q.selected[card.ID] = struct{}{}
	}
}

// ClearSelection empties the selection without touching the cards.
func (q *Queue) ClearSelection() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.selected)
}

// Remove takes one decided card out of the queue and prunes it from the
// selection. It returns false when the id is not held.
func (q *Queue) Remove(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, card := range q.cards {
		if card.ID == id {
			q.cards = append(q.cards[:i], q.cards[i+1:]...)
			delete(q.selected, id)
			return true
		}
	}
	return false
}

// RemoveSelected removes every selected card and returns their ids. The
// selection ends up empty.
func (q *Queue) RemoveSelected() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := q.selectedIDs()
	remaining := q.cards[:0]
	for _, card := range q.cards {
		if !q.isSelected(card.ID) {
			remaining = append(remaining, card)
		}
	}
	q.cards = remaining
	clear(q.selected)
	return ids
}

// Update replaces a held card's content after an in-place edit.
func (q *Queue) Update(card models.Flashcard) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.cards {
		if q.cards[i].ID == card.ID {
			q.cards[i] = card
			return true
		}
	}
	return false
}

func (q *Queue) isSelected(id uuid.UUID) bool {
	_, ok := q.selected[id]
	return ok
}

func (q *Queue) selectedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(q.selected))
	for _, card := range q.cards {
		if q.isSelected(card.ID) {
			ids = append(ids, card.ID)
		}
	}
	return ids
}

func (q *Queue) holds(id uuid.UUID) bool {
	for _, card := range q.cards {
		if card.ID == id {
			return true
		}
	}
	return false
}
