package tokenizer

import (
	"github.com/clipperhouse/uax29/graphemes"
	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"
)

// The heuristic counters segment text per Unicode UAX #29. They need no
// vocabulary and suit callers whose downstream consumers measure length in
// words or characters rather than sub-word tokens.

type WordsCounter struct{}

func (WordsCounter) Count(text string) int {
	return len(words.SegmentAll([]byte(text)))
}

type GraphemesCounter struct{}

func (GraphemesCounter) Count(text string) int {
	return len(graphemes.SegmentAll([]byte(text)))
}

type SentencesCounter struct{}

func (SentencesCounter) Count(text string) int {
	return len(sentences.SegmentAll([]byte(text)))
}
