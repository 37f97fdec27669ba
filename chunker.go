// Package semchunk splits text into semantically meaningful chunks bounded by
// a token count, as measured by a caller-supplied token counter. Splitting
// prefers the most meaningful boundary available (paragraphs, then lines,
// then whitespace, then punctuation), recursing into any piece that is still
// too large. Each chunk carries its byte offsets into the original text.
package semchunk

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunk represents a piece of text with associated metadata for tracking its
// position and size within the original document.
type Chunk struct {
	// Text contains the actual content of the chunk
	Text string `json:"text"`
	// Start is the byte offset of the chunk in the original text
	Start int `json:"start"`
	// End is the byte offset one past the chunk in the original text, such
	// that original[Start:End] == Text
	End int `json:"end"`
	// TokenSize is the number of tokens in this chunk as reported by the
	// token counter the chunk was produced with
	TokenSize int `json:"token_size,omitempty"`
}

// chunkRecursive splits text into chunks of at most chunkSize tokens. offset
// is the absolute byte position of text within the original input, carried
// through the recursion so every emitted chunk knows its span. Whitespace
// splitters are consumed between chunks; non-whitespace splitters are
// reattached to the preceding chunk when they fit, otherwise emitted alone.
func chunkRecursive(text string, chunkSize int, counter TokenCounter, offset int) []Chunk {
	splitter, whitespace, segments := selectSplitter(text)

	// Cumulative byte lengths of the segments and each segment's absolute
	// start position, accounting for the splitter between segments.
	cum := make([]int, len(segments)+1)
	starts := make([]int, len(segments))
	for i, seg := range segments {
		starts[i] = offset + cum[i] + i*len(splitter)
		cum[i+1] = cum[i] + len(seg)
	}

	var chunks []Chunk
	skipUntil := 0
	for i, seg := range segments {
		if i < skipUntil {
			continue
		}

		if tokens := counter.Count(seg); tokens > chunkSize {
			if utf8.RuneCountInString(seg) <= 1 {
				// An indivisible unit over the limit is emitted in full
				// rather than truncated or dropped.
				chunks = append(chunks, Chunk{
					Text:  seg,
					Start: starts[i],
					End:   starts[i] + len(seg),
				})
			} else {
				// The segment alone is over the limit: recurse into it.
				chunks = append(chunks, chunkRecursive(seg, chunkSize, counter, starts[i])...)
			}
		} else {
			end, merged := mergeSegments(segments, i, cum, chunkSize, splitter, counter)
			skipUntil = end
			chunks = append(chunks, Chunk{
				Text:  merged,
				Start: starts[i],
				End:   starts[i] + len(merged),
			})
		}

		if !whitespace && i != len(segments)-1 && skipUntil < len(segments) {
			// Reattach the splitter to the previous chunk if it still fits,
			// otherwise emit it as a chunk of its own. Note the fit check
			// counts the concatenation, which for some tokenizers is not the
			// sum of the separately cached parts; the merged count is the
			// authoritative one.
			last := &chunks[len(chunks)-1]
			if joined := last.Text + splitter; counter.Count(joined) <= chunkSize {
				last.Text = joined
				last.End += len(splitter)
			} else {
				chunks = append(chunks, Chunk{
					Text:  splitter,
					Start: last.End,
					End:   last.End + len(splitter),
				})
			}
		}
	}

	return chunks
}

// finalizeChunks trims surrounding whitespace from every chunk, keeping the
// offsets in sync, and drops chunks that are empty once trimmed. Only applied
// to the top-level result; recursion must preserve raw spans.
func finalizeChunks(chunks []Chunk, counter TokenCounter) []Chunk {
	out := chunks[:0]
	for _, c := range chunks {
		trimmed := strings.TrimLeftFunc(c.Text, unicode.IsSpace)
		c.Start += len(c.Text) - len(trimmed)
		trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
		c.End = c.Start + len(trimmed)
		if trimmed == "" {
			continue
		}
		c.Text = trimmed
		c.TokenSize = counter.Count(c.Text)
		out = append(out, c)
	}
	return out
}
