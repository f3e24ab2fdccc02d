package search

import (
	"strings"
	"unicode/utf8"
)

const sentenceEnds = ".!?\n"

// excerpt returns the text around the match [start, end), at most maxLen bytes plus the match.
// It starts after the first sentence end before the match and stops after the last one after it.
// Where the window has no sentence end it is cut between words, and it never splits a character.
func excerpt(text string, start, end, maxLen int) string {
	lo := max(start-maxLen/2, 0)
	hi := min(end+maxLen/2, len(text))

	if i := strings.IndexAny(text[lo:start], sentenceEnds); i != -1 {
		lo += i + 1
	} else if lo > 0 && text[lo-1] != ' ' {
		if i := strings.IndexByte(text[lo:start], ' '); i != -1 {
			lo += i + 1
		}
	}
	if i := strings.LastIndexAny(text[end:hi], sentenceEnds); i != -1 {
		hi = end + i + 1
	} else if hi < len(text) && text[hi] != ' ' {
		if i := strings.LastIndexByte(text[end:hi], ' '); i != -1 {
			hi = end + i
		}
	}

	for lo < start && !utf8.RuneStart(text[lo]) {
		lo++
	}
	for hi > end && hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi--
	}
	return strings.TrimSpace(text[lo:hi])
}
