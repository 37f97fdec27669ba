package semchunk

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/bububa/semchunk/tokenizer"
)

// Chunker is a reusable chunking pipeline bound to a fixed chunk size and
// token counter. It prepares the counter once, so the memoization cache
// persists across calls, and is safe for concurrent use.
type Chunker struct {
	cfg     config
	counter TokenCounter
}

// New constructs a Chunker from a chunk size and a token counter.
func New(chunkSize int, counter TokenCounter, opts ...Option) (*Chunker, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	cfg, err := options.validated(chunkSize)
	if err != nil {
		return nil, err
	}
	return &Chunker{
		cfg:     cfg,
		counter: prepareCounter(counter, cfg, options.memoize),
	}, nil
}

// NewFromTokenizer constructs a Chunker whose counter is resolved from a
// tiktoken model or encoding name. Resolution failures surface here, at
// construction time, never during chunking.
func NewFromTokenizer(name string, chunkSize int, opts ...Option) (*Chunker, error) {
	tk, err := tokenizer.Resolve(name)
	if err != nil {
		return nil, err
	}
	return New(chunkSize, tk, opts...)
}

// ChunkSize returns the chunk size the Chunker was constructed with.
func (c *Chunker) ChunkSize() int { return c.cfg.ChunkSize }

// CacheStats reports the memoization cache statistics. The second return is
// false when memoization is disabled.
func (c *Chunker) CacheStats() (CacheStats, bool) {
	if m, ok := c.counter.(*memoCounter); ok {
		return m.Stats(), true
	}
	return CacheStats{}, false
}

// Chunk splits a single text. See ChunkText for the semantics.
func (c *Chunker) Chunk(text string) []Chunk {
	return chunkWithConfig(text, c.cfg, c.counter)
}

// BatchOptions holds per-call settings for ChunkBatch.
type BatchOptions struct {
	processes int
	progress  func(done, total int)
}

// BatchOption is a function type for configuring a ChunkBatch call.
type BatchOption func(*BatchOptions)

// WithProcesses bounds the number of texts chunked concurrently. Defaults to
// the number of CPUs.
func WithProcesses(n int) BatchOption {
	return func(o *BatchOptions) {
		o.processes = n
	}
}

// WithProgress registers a callback invoked after each text completes. It may
// be called from multiple goroutines and must be safe for concurrent use.
func WithProgress(fn func(done, total int)) BatchOption {
	return func(o *BatchOptions) {
		o.progress = fn
	}
}

// ChunkBatch splits several texts, fanning out across a bounded worker group.
// Results are returned in input order. The first failing worker cancels the
// rest and its error is returned; there is no partial-results mode.
func (c *Chunker) ChunkBatch(ctx context.Context, texts []string, opts ...BatchOption) ([][]Chunk, error) {
	var options BatchOptions
	for _, opt := range opts {
		opt(&options)
	}
	concurrency := options.processes
	if concurrency <= 0 {
		concurrency = min(runtime.NumCPU(), len(texts))
	}

	results := make([][]Chunk, len(texts))
	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, text := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.chunkSafe(text, &results[i]); err != nil {
				return fmt.Errorf("chunking text %d: %w", i, err)
			}
			if options.progress != nil {
				options.progress(int(done.Inc()), len(texts))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// chunkSafe converts a panicking token counter into an error so one bad text
// fails its batch instead of crashing the process.
func (c *Chunker) chunkSafe(text string, out *[]Chunk) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("token counter panicked: %v", r)
		}
	}()
	*out = c.Chunk(text)
	return nil
}
