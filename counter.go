package semchunk

import (
	"container/list"
	"sync"
	"unicode/utf8"

	"go.uber.org/atomic"
)

// TokenCounter defines the interface for counting tokens in a string.
// This abstraction allows for different tokenization strategies (e.g., words,
// subwords). Implementations must be deterministic; counts are expected to be
// monotonically non-decreasing under concatenation, which holds for sub-word
// tokenizers and is relied upon by the merge search.
type TokenCounter interface {
	// Count returns the number of tokens in the given text according to the
	// implementation's tokenization strategy.
	Count(text string) int
}

// CounterFunc adapts a plain counting function to the TokenCounter interface.
type CounterFunc func(text string) int

// Count calls f(text).
func (f CounterFunc) Count(text string) int { return f(text) }

var (
	_ TokenCounter = (CounterFunc)(nil)
	_ TokenCounter = (*memoCounter)(nil)
	_ TokenCounter = (*truncatingCounter)(nil)
)

// CacheStats reports the hit/miss counts of a memoized counter.
type CacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

// memoCounter wraps a TokenCounter with a cache keyed by the exact input
// string. The cache is owned by the wrapper instance, supports concurrent
// readers, and evicts least-recently-used entries once capacity is exceeded.
// A capacity of zero means unbounded.
type memoCounter struct {
	inner    TokenCounter
	capacity int

	mu     sync.RWMutex
	cache  map[string]*list.Element
	order  *list.List
	hits   atomic.Int64
	misses atomic.Int64
}

type memoEntry struct {
	key    string
	tokens int
}

func newMemoCounter(inner TokenCounter, capacity int) *memoCounter {
	return &memoCounter{
		inner:    inner,
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Count returns the cached count for text, counting and caching on a miss.
func (m *memoCounter) Count(text string) int {
	m.mu.RLock()
	el, ok := m.cache[text]
	m.mu.RUnlock()
	if ok {
		m.hits.Inc()
		if m.capacity > 0 {
			m.mu.Lock()
			m.order.MoveToFront(el)
			m.mu.Unlock()
		}
		return el.Value.(*memoEntry).tokens
	}
	m.misses.Inc()
	tokens := m.inner.Count(text)
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.cache[text]; ok {
		// Lost the race to another writer.
		return el.Value.(*memoEntry).tokens
	}
	m.cache[text] = m.order.PushFront(&memoEntry{key: text, tokens: tokens})
	if m.capacity > 0 && m.order.Len() > m.capacity {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.cache, oldest.Value.(*memoEntry).key)
	}
	return tokens
}

// Stats returns the cache hit/miss counters and the current cache size.
func (m *memoCounter) Stats() CacheStats {
	m.mu.RLock()
	size := m.order.Len()
	m.mu.RUnlock()
	return CacheStats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Size:   size,
	}
}

// truncatingCounter short-circuits counting of very long texts. If a text is
// longer than chunkSize*6 characters and a prefix of that length (padded by
// the longest possible token) already exceeds chunkSize tokens, the full text
// must exceed it too, so the full count is skipped. Requires the wrapped
// counter to be monotonically non-decreasing under concatenation.
type truncatingCounter struct {
	inner         TokenCounter
	chunkSize     int
	maxTokenChars int
}

func newTruncatingCounter(inner TokenCounter, chunkSize, maxTokenChars int) *truncatingCounter {
	return &truncatingCounter{
		inner:         inner,
		chunkSize:     chunkSize,
		maxTokenChars: maxTokenChars,
	}
}

func (t *truncatingCounter) Count(text string) int {
	heuristic := t.chunkSize * 6
	if len(text) > heuristic {
		cut := min(heuristic+t.maxTokenChars-1, len(text))
		// Back off to a rune boundary so the prefix stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if t.inner.Count(text[:cut]) > t.chunkSize {
			return t.chunkSize + 1
		}
	}
	return t.inner.Count(text)
}
