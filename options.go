package semchunk

// Options holds the configuration of a chunk request.
type Options struct {
	overlapFraction float64
	overlapTokens   int
	memoize         bool
	cacheSize       int
	maxTokenChars   int
}

func defaultOptions() Options {
	return Options{memoize: true}
}

// Option is a function type for configuring chunking Options.
// This follows the functional options pattern for clean and flexible
// configuration.
type Option func(*Options)

// WithOverlap requests overlapping chunks sharing the given fraction of the
// chunk size, 0 <= fraction < 1.
func WithOverlap(fraction float64) Option {
	return func(o *Options) {
		o.overlapFraction = fraction
	}
}

// WithOverlapTokens requests overlapping chunks sharing an absolute number of
// tokens, 1 <= tokens < the chunk size.
func WithOverlapTokens(tokens int) Option {
	return func(o *Options) {
		o.overlapTokens = tokens
	}
}

// WithMemoize toggles memoization of the token counter. Enabled by default;
// disable it when the supplied counter already caches its results.
func WithMemoize(enable bool) Option {
	return func(o *Options) {
		o.memoize = enable
	}
}

// WithCacheSize bounds the memoization cache to the given number of entries,
// evicting least-recently-used ones. Zero, the default, means unbounded.
func WithCacheSize(size int) Option {
	return func(o *Options) {
		o.cacheSize = size
	}
}

// WithMaxTokenChars declares the character length of the longest token in the
// counter's vocabulary, enabling a fast rejection path for texts far over the
// chunk size.
func WithMaxTokenChars(chars int) Option {
	return func(o *Options) {
		o.maxTokenChars = chars
	}
}
