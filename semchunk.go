package semchunk

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrChunkSize is returned when no positive chunk size was supplied and
	// none could be determined.
	ErrChunkSize = errors.New("semchunk: chunk size must be a positive integer")
	// ErrOverlap is returned for overlap specifications outside their valid
	// range.
	ErrOverlap = errors.New("semchunk: overlap must be a fraction in [0, 1) or a token count below the chunk size")
)

var validate = validator.New()

// config is the validated shape of a chunk request.
type config struct {
	ChunkSize       int     `validate:"required,gt=0"`
	OverlapFraction float64 `validate:"gte=0,lt=1"`
	OverlapTokens   int     `validate:"gte=0"`
	CacheSize       int     `validate:"gte=0"`
	MaxTokenChars   int     `validate:"gte=0"`
}

func (o Options) validated(chunkSize int) (config, error) {
	cfg := config{
		ChunkSize:       chunkSize,
		OverlapFraction: o.overlapFraction,
		OverlapTokens:   o.overlapTokens,
		CacheSize:       o.cacheSize,
		MaxTokenChars:   o.maxTokenChars,
	}
	if err := validate.Struct(cfg); err != nil {
		if cfg.ChunkSize <= 0 {
			return cfg, fmt.Errorf("%w, got %d", ErrChunkSize, chunkSize)
		}
		return cfg, fmt.Errorf("%w: %w", ErrOverlap, err)
	}
	return cfg, nil
}

// ChunkText splits text into chunks of at most chunkSize tokens as measured by
// counter, preferring the most semantically meaningful boundaries available.
// The returned chunks carry their byte offsets into text. A single
// indivisible unit (one character, or one splitter) whose own count exceeds
// chunkSize is still emitted in full rather than truncated or dropped.
//
// Any panic or misbehavior of the supplied counter propagates to the caller
// unmodified; counters must be deterministic and are expected to be
// monotonic under concatenation.
func ChunkText(text string, chunkSize int, counter TokenCounter, opts ...Option) ([]Chunk, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	cfg, err := options.validated(chunkSize)
	if err != nil {
		return nil, err
	}
	return chunkWithConfig(text, cfg, prepareCounter(counter, cfg, options.memoize)), nil
}

// prepareCounter layers the fast-rejection heuristic and the memoization
// cache over the raw counter. The heuristic is keyed to the full chunk size
// so the same prepared counter stays valid for the reduced sub-chunk runs
// used by overlapping requests.
func prepareCounter(counter TokenCounter, cfg config, memoize bool) TokenCounter {
	if cfg.MaxTokenChars > 0 {
		counter = newTruncatingCounter(counter, cfg.ChunkSize, cfg.MaxTokenChars)
	}
	if memoize {
		counter = newMemoCounter(counter, cfg.CacheSize)
	}
	return counter
}

func chunkWithConfig(text string, cfg config, counter TokenCounter) []Chunk {
	size := cfg.ChunkSize
	overlap := normalizeOverlap(size, cfg.OverlapFraction, cfg.OverlapTokens)

	runSize := size
	subChunkSize := 0
	if overlap > 0 {
		subChunkSize = min(overlap, size-overlap)
		runSize = subChunkSize
	}

	chunks := finalizeChunks(chunkRecursive(text, runSize, counter, 0), counter)
	if overlap > 0 {
		chunks = composeOverlap(text, chunks, size, overlap, subChunkSize, counter)
	}
	return chunks
}

// Texts returns just the chunk texts, for callers that do not need offsets.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
