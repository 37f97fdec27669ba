package semchunk

import (
	"fmt"
	"strings"
	"testing"
)

func cumulativeLengths(segments []string) []int {
	cum := make([]int, len(segments)+1)
	for i, seg := range segments {
		cum[i+1] = cum[i] + len(seg)
	}
	return cum
}

// maxFit is the reference answer: the largest end > start such that joining
// segments[start:end] stays within chunkSize tokens.
func maxFit(segments []string, start int, chunkSize int, splitter string, counter TokenCounter) int {
	end := start + 1
	for end < len(segments) && counter.Count(strings.Join(segments[start:end+1], splitter)) <= chunkSize {
		end++
	}
	return end
}

func TestMergeSegments(t *testing.T) {
	charCounter := CounterFunc(func(s string) int { return len(s) })
	wordCounter := CounterFunc(func(s string) int { return len(strings.Fields(s)) })

	words := strings.Fields("the quick brown fox jumps over the lazy dog again and again until done")

	tests := []struct {
		name      string
		segments  []string
		start     int
		chunkSize int
		splitter  string
		counter   TokenCounter
	}{
		{name: "small char budget", segments: words, start: 0, chunkSize: 9, splitter: " ", counter: charCounter},
		{name: "mid-list start", segments: words, start: 5, chunkSize: 15, splitter: " ", counter: charCounter},
		{name: "budget for one segment only", segments: words, start: 0, chunkSize: 3, splitter: " ", counter: charCounter},
		{name: "budget covers everything", segments: words, start: 0, chunkSize: 1000, splitter: " ", counter: charCounter},
		{name: "last segment", segments: words, start: len(words) - 1, chunkSize: 100, splitter: " ", counter: charCounter},
		{name: "word counting", segments: words, start: 0, chunkSize: 4, splitter: " ", counter: wordCounter},
		{name: "empty splitter", segments: strings.Split("abcdefghij", ""), start: 2, chunkSize: 5, splitter: "", counter: charCounter},
		{name: "multi-char splitter", segments: []string{"aa", "bb", "cc", "dd"}, start: 0, chunkSize: 7, splitter: "--", counter: charCounter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cum := cumulativeLengths(tt.segments)
			end, merged := mergeSegments(tt.segments, tt.start, cum, tt.chunkSize, tt.splitter, tt.counter)

			wantEnd := maxFit(tt.segments, tt.start, tt.chunkSize, tt.splitter, tt.counter)
			if end != wantEnd {
				t.Errorf("end: want %d, got %d", wantEnd, end)
			}
			if want := strings.Join(tt.segments[tt.start:wantEnd], tt.splitter); merged != want {
				t.Errorf("merged: want %q, got %q", want, merged)
			}
			if got := tt.counter.Count(merged); got > tt.chunkSize {
				t.Errorf("merged text has %d tokens, over the limit %d", got, tt.chunkSize)
			}
		})
	}
}

// The search exists to keep counter invocations sublinear in the number of
// segments merged; a linear scan would defeat its purpose.
func TestMergeSegmentsCounterCalls(t *testing.T) {
	segments := make([]string, 512)
	for i := range segments {
		segments[i] = fmt.Sprintf("segment%03d", i)
	}
	cum := cumulativeLengths(segments)

	calls := 0
	counter := CounterFunc(func(s string) int {
		calls++
		return len(s)
	})

	chunkSize := cum[len(cum)-1] // large enough to merge every segment
	end, _ := mergeSegments(segments, 0, cum, chunkSize, " ", counter)
	if want := maxFit(segments, 0, chunkSize, " ", counter); end != want {
		t.Fatalf("end: want %d, got %d", want, end)
	}
	if calls > 64 {
		t.Errorf("merge made %d counter calls for 512 segments, expected far fewer", calls)
	}
}
