package semchunk

import (
	"strings"
	"testing"
)

func TestNormalizeOverlap(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		fraction  float64
		tokens    int
		want      int
	}{
		{name: "no overlap", chunkSize: 10, want: 0},
		{name: "fraction floors", chunkSize: 10, fraction: 0.25, want: 2},
		{name: "fraction below one token disables", chunkSize: 10, fraction: 0.05, want: 0},
		{name: "absolute tokens pass through", chunkSize: 10, tokens: 4, want: 4},
		{name: "absolute tokens clamp below chunk size", chunkSize: 10, tokens: 15, want: 9},
		{name: "fraction takes precedence", chunkSize: 10, fraction: 0.5, tokens: 2, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeOverlap(tt.chunkSize, tt.fraction, tt.tokens); got != tt.want {
				t.Errorf("want %d, got %d", tt.want, got)
			}
		})
	}
}

func TestChunkWithOverlap(t *testing.T) {
	chunks, err := ChunkText(gettysburg, 40, charCounter, WithOverlap(0.5))
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected several windows, got %d", len(chunks))
	}
	for i, c := range chunks {
		if gettysburg[c.Start:c.End] != c.Text {
			t.Errorf("window %d does not match its span", i)
		}
		if i > 0 {
			prev := chunks[i-1]
			if c.Start >= prev.End {
				t.Errorf("window %d does not overlap its predecessor: [%d,%d) after [%d,%d)",
					i, c.Start, c.End, prev.Start, prev.End)
			}
			if c.Start <= prev.Start {
				t.Errorf("window %d does not advance: start %d after %d", i, c.Start, prev.Start)
			}
		}
	}
	if last := chunks[len(chunks)-1]; !strings.HasSuffix(gettysburg, last.Text) {
		t.Errorf("final window does not reach the end of the text: %q", last.Text)
	}
}

// Windows are sliced from the source text, so whitespace dropped between
// sub-chunks must reappear inside them.
func TestOverlapWindowsRestoreSplitters(t *testing.T) {
	input := "aaaa bbbb cccc dddd eeee"
	chunks, err := ChunkText(input, 8, charCounter, WithOverlapTokens(4))
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range chunks {
		if input[c.Start:c.End] != c.Text {
			t.Fatalf("window %d does not match its span", i)
		}
	}
	if first := chunks[0].Text; !strings.Contains(first, " ") {
		t.Errorf("expected a restored space inside the first window, got %q", first)
	}
}

func TestOverlapMonotonicity(t *testing.T) {
	small, err := ChunkText(gettysburg, 30, charCounter, WithOverlap(0.1))
	if err != nil {
		t.Fatal(err)
	}
	large, err := ChunkText(gettysburg, 30, charCounter, WithOverlap(0.9))
	if err != nil {
		t.Fatal(err)
	}
	if len(large) < len(small) {
		t.Errorf("overlap 0.9 yielded %d chunks, fewer than %d at overlap 0.1", len(large), len(small))
	}
}
