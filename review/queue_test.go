package review

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawelnowak/fiszki-ai/models"
)

func makeCards(n int) []models.Flashcard {
	cards := make([]models.Flashcard, n)
	for i := range cards {
		cards[i] = models.Flashcard{
			ID:     uuid.New(),
			Front:  "front",
			Back:   "back",
			Status: models.StatusPendingReview,
			Source: models.SourceAIGenerated,
		}
	}
	return cards
}

func ids(cards []models.Flashcard) []uuid.UUID {
	out := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestNewQueueCopiesInput(t *testing.T) {
	t.Parallel()

	cards := makeCards(3)
	q := NewQueue(uuid.New(), cards)

	// Mutating the input slice afterwards must not leak into the queue.
	cards[0].Front = "changed"
	assert.Equal(t, "front", q.Cards()[0].Front)
	assert.Equal(t, 3, q.Len())
	assert.Zero(t, q.SelectedCount())
}

// Approving a card removes exactly that id, never others.
func TestRemoveTakesExactlyOne(t *testing.T) {
	t.Parallel()

	cards := makeCards(5)
	q := NewQueue(uuid.New(), cards)
	q.ToggleSelect(cards[1].ID)
	q.ToggleSelect(cards[2].ID)

	require.True(t, q.Remove(cards[2].ID))

	remaining := ids(q.Cards())
	assert.NotContains(t, remaining, cards[2].ID)
	assert.Len(t, remaining, 4)
	for _, other := range []uuid.UUID{cards[0].ID, cards[1].ID, cards[3].ID, cards[4].ID} {
		assert.Contains(t, remaining, other)
	}

	// Selection pruned to match: only the removed card left it.
	assert.True(t, q.IsSelected(cards[1].ID))
	assert.False(t, q.IsSelected(cards[2].ID))
	assert.Equal(t, 1, q.SelectedCount())
}

func TestRemoveUnknownID(t *testing.T) {
	t.Parallel()

	q := NewQueue(uuid.New(), makeCards(2))
	assert.False(t, q.Remove(uuid.New()))
	assert.Equal(t, 2, q.Len())
}

// Batch approve removes exactly the previously selected ids and clears the
// entire selection.
func TestRemoveSelected(t *testing.T) {
	t.Parallel()

	cards := makeCards(5)
	q := NewQueue(uuid.New(), cards)
	q.ToggleSelect(cards[0].ID)
	q.ToggleSelect(cards[3].ID)

	removed := q.RemoveSelected()
	assert.ElementsMatch(t, []uuid.UUID{cards[0].ID, cards[3].ID}, removed)

	remaining := ids(q.Cards())
	assert.ElementsMatch(t, []uuid.UUID{cards[1].ID, cards[2].ID, cards[4].ID}, remaining)
	assert.Zero(t, q.SelectedCount())
}

func TestRemoveSelectedEmptySelection(t *testing.T) {
	t.Parallel()

	q := NewQueue(uuid.New(), makeCards(3))
	assert.Empty(t, q.RemoveSelected())
	assert.Equal(t, 3, q.Len())
}

// The selection is always a subset of held card ids.
func TestSelectionSubsetInvariant(t *testing.T) {
	t.Parallel()

	cards := makeCards(3)
	q := NewQueue(uuid.New(), cards)

	// Selecting an id the queue does not hold is a no-op.
	q.ToggleSelect(uuid.New())
	assert.Zero(t, q.SelectedCount())

	q.SelectAll()
	assert.Equal(t, 3, q.SelectedCount())

	q.Remove(cards[0].ID)
	for _, id := range q.SelectedIDs() {
		assert.Contains(t, ids(q.Cards()), id)
	}

	q.ClearSelection()
	assert.Zero(t, q.SelectedCount())
	assert.Equal(t, 2, q.Len())
}

func TestToggleSelect(t *testing.T) {
	t.Parallel()

	cards := makeCards(2)
	q := NewQueue(uuid.New(), cards)

	q.ToggleSelect(cards[0].ID)
	assert.True(t, q.IsSelected(cards[0].ID))
	q.ToggleSelect(cards[0].ID)
	assert.False(t, q.IsSelected(cards[0].ID))
}

func TestUpdateReplacesContent(t *testing.T) {
	t.Parallel()

	cards := makeCards(2)
	q := NewQueue(uuid.New(), cards)

	edited := cards[1]
	edited.Front = "nowy przód"
	edited.Back = "nowy tył"
	assert.True(t, q.Update(edited))
	assert.Equal(t, "nowy przód", q.Cards()[1].Front)

	missing := models.Flashcard{ID: uuid.New()}
	assert.False(t, q.Update(missing))
}

// A new generation run replaces the queue wholesale, selection included.
func TestStoreReplacesQueue(t *testing.T) {
	t.Parallel()

	store := NewStore()
	userID := uuid.New()

	first := NewQueue(uuid.New(), makeCards(3))
	first.SelectAll()
	store.Put(userID, first)

	second := NewQueue(uuid.New(), makeCards(2))
	store.Put(userID, second)

	got, ok := store.Get(userID)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Zero(t, got.SelectedCount())

	store.Delete(userID)
	_, ok = store.Get(userID)
	assert.False(t, ok)
}

// Two tabs or a double-click hit the same queue from concurrent requests;
// every operation must hold the queue's lock or the selection map corrupts.
func TestQueueConcurrentOperations(t *testing.T) {
	t.Parallel()

	cards := makeCards(20)
	q := NewQueue(uuid.New(), cards)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch n {
				case 0:
					q.ToggleSelect(cards[j%len(cards)].ID)
				case 1:
					q.SelectAll()
				case 2:
					q.ClearSelection()
				case 3:
					q.SelectedIDs()
					q.IsSelected(cards[j%len(cards)].ID)
					q.Cards()
				}
			}
		}(i)
	}
	wg.Wait()

	held := map[uuid.UUID]bool{}
	for _, card := range q.Cards() {
		held[card.ID] = true
	}
	for _, id := range q.SelectedIDs() {
		assert.True(t, held[id], "selection must stay a subset of held cards")
	}
}

func TestQueueConcurrentRemoveAndSelect(t *testing.T) {
	t.Parallel()

	cards := makeCards(50)
	q := NewQueue(uuid.New(), cards)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, card := range cards {
			q.ToggleSelect(card.ID)
		}
	}()
	go func() {
		defer wg.Done()
		for _, card := range cards[:25] {
			q.Remove(card.ID)
		}
	}()
	wg.Wait()

	assert.Equal(t, 25, q.Len())
	for _, id := range q.SelectedIDs() {
		assert.True(t, q.holds(id))
	}
}
