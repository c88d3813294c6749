package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoCachesSuccess(t *testing.T) {
	t.Parallel()

	q := NewQuery(time.Minute)
	var calls int32

	fetch := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		got, err := q.Do("key", GroupFlashcards, fetch)
		require.NoError(t, err)
		assert.Equal(t, "value", got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	q := NewQuery(time.Minute)
	var calls int32
	boom := errors.New("boom")

	fetch := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	_, err := q.Do("key", GroupFlashcards, fetch)
	assert.ErrorIs(t, err, boom)
	_, err = q.Do("key", GroupFlashcards, fetch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// Concurrent identical fetches share one in-flight request.
func TestDoDeduplicatesConcurrentFetches(t *testing.T) {
	t.Parallel()

	q := NewQuery(time.Minute)
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]any, 10)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = q.Do("key", GroupFlashcards, fetch)
	}()
	<-started

	for i := 1; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = q.Do("key", GroupFlashcards, func() (any, error) {
				atomic.AddInt32(&calls, 1)
				return 42, nil
			})
		}(i)
	}

	// Give the waiters time to park on the in-flight call, then release it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, 42, r)
	}
}

func TestInvalidateGroup(t *testing.T) {
	t.Parallel()

	q := NewQuery(time.Minute)
	var flashcardFetches, historyFetches int32

	fetchCards := func() (any, error) {
		atomic.AddInt32(&flashcardFetches, 1)
		return "cards", nil
	}
	fetchHistory := func() (any, error) {
		atomic.AddInt32(&historyFetches, 1)
		return "history", nil
	}

	q.Do("flashcards?page=1", GroupFlashcards, fetchCards)
	q.Do("flashcards?page=2", GroupFlashcards, fetchCards)
	q.Do("generation-requests", GroupGenerationRequests, fetchHistory)
	assert.Equal(t, 3, q.Len())

	q.InvalidateGroup(GroupFlashcards)
	assert.Equal(t, 1, q.Len())

	// Flashcard pages refetch, history still cached.
	q.Do("flashcards?page=1", GroupFlashcards, fetchCards)
	q.Do("generation-requests", GroupGenerationRequests, fetchHistory)
	assert.Equal(t, int32(3), atomic.LoadInt32(&flashcardFetches))
	assert.Equal(t, int32(1), atomic.LoadInt32(&historyFetches))
}

func TestTTLExpiry(t *testing.T) {
	t.Parallel()

	q := NewQuery(10 * time.Millisecond)
	var calls int32
	fetch := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		return "v", nil
	}

	q.Do("key", GroupFlashcards, fetch)
	time.Sleep(20 * time.Millisecond)
	q.Do("key", GroupFlashcards, fetch)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// A stale entry must be dropped even when the refetch fails, otherwise the
// map keeps one dead entry per distinct query forever.
func TestStaleEntryDroppedOnRead(t *testing.T) {
	t.Parallel()

	q := NewQuery(10 * time.Millisecond)
	q.Do("key", GroupFlashcards, func() (any, error) { return "v", nil })
	assert.Equal(t, 1, q.Len())

	time.Sleep(20 * time.Millisecond)
	_, err := q.Do("key", GroupFlashcards, func() (any, error) {
		return nil, errors.New("backend down")
	})
	require.Error(t, err)
	assert.Zero(t, q.Len(), "expired entry must not linger after a failed refetch")
}
