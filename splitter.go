package semchunk

import (
	"strings"
	"unicode"
)

// semanticSplitters is the set of non-whitespace splitters that may be used to
// divide a text once no whitespace is available, ordered from most desirable
// to least desirable.
var semanticSplitters = []string{
	".", "?", "!", "*", // Sentence terminators.
	";", ",", "(", ")", "[", "]", "“", "”", "‘", "’", "'", "\"", "`", // Clause separators.
	":", "—", "…", // Sentence interrupters.
	"/", "\\", "–", "&", "-", // Word joiners.
}

func isLineBreak(r rune) bool { return r == '\n' || r == '\r' }

func isTab(r rune) bool { return r == '\t' }

// longestRun returns the longest run of consecutive runes in text that satisfy
// class. Ties go to the first occurring run.
func longestRun(text string, class func(rune) bool) string {
	var best, start, length int
	bestStart := -1
	inRun := false
	for i, r := range text {
		if class(r) {
			if !inRun {
				inRun = true
				start = i
				length = 0
			}
			length += len(string(r))
			if length > best {
				best = length
				bestStart = start
			}
		} else {
			inRun = false
		}
	}
	if bestStart < 0 {
		return ""
	}
	return text[bestStart : bestStart+best]
}

// selectSplitter picks the most semantically meaningful splitter present in
// text and splits on it. In order of preference: the longest run of newlines
// and/or carriage returns, the longest run of tabs, the longest run of
// whitespace, then the first semantic splitter found in text. If nothing
// matches, the splitter is empty and the segments are the individual
// characters of text.
func selectSplitter(text string) (splitter string, whitespace bool, segments []string) {
	switch {
	case strings.ContainsAny(text, "\n\r"):
		splitter = longestRun(text, isLineBreak)
	case strings.Contains(text, "\t"):
		splitter = longestRun(text, isTab)
	case strings.ContainsFunc(text, unicode.IsSpace):
		splitter = longestRun(text, unicode.IsSpace)
	default:
		for _, s := range semanticSplitters {
			if strings.Contains(text, s) {
				return s, false, strings.Split(text, s)
			}
		}
		// No splitter of any kind: fall back to single characters.
		return "", true, strings.Split(text, "")
	}
	return splitter, true, strings.Split(text, splitter)
}
