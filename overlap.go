package semchunk

// normalizeOverlap converts an overlap specification into an absolute token
// overlap strictly less than chunkSize. A fraction in (0, 1) is taken
// relative to chunkSize and floored; an absolute value is clamped below
// chunkSize. Anything that normalizes to less than one token disables
// overlapping.
func normalizeOverlap(chunkSize int, fraction float64, tokens int) int {
	overlap := tokens
	if fraction > 0 {
		overlap = int(float64(chunkSize) * fraction)
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	if overlap < 1 {
		return 0
	}
	return overlap
}

// composeOverlap regroups the minimal sub-chunks produced with subChunkSize
// into overlapping windows of chunkSize tokens. Window texts are re-sliced
// from the original text rather than joined from the sub-chunks so that any
// splitters dropped between sub-chunks are restored.
func composeOverlap(text string, subChunks []Chunk, chunkSize, overlap, subChunkSize int, counter TokenCounter) []Chunk {
	n := len(subChunks)
	if n == 0 {
		return subChunks
	}

	// Flooring is deliberate in both derivations: rounding up the window
	// would break the size bound, rounding up the stride would leave gaps
	// between consecutive windows.
	perWindow := chunkSize / subChunkSize
	stride := (chunkSize - overlap) / subChunkSize

	windows := 1
	if n > perWindow {
		windows = (n-perWindow+stride-1)/stride + 1
	}

	out := make([]Chunk, 0, windows)
	for w := 0; w < windows; w++ {
		first := w * stride
		last := min(first+perWindow, n) - 1
		start, end := subChunks[first].Start, subChunks[last].End
		out = append(out, Chunk{
			Text:      text[start:end],
			Start:     start,
			End:       end,
			TokenSize: counter.Count(text[start:end]),
		})
	}
	return out
}
