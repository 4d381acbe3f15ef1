package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minMatchLen is the shortest word that can count as an overlap.
const minMatchLen = 3

// Normalize lowercases text and trims whitespace and punctuation from both
// ends, so "Register?" and "register" compare equal. Punctuation inside the
// message is kept.
func Normalize(text string) string {
	return strings.TrimFunc(strings.ToLower(text), isEdgeRune)
}

func isEdgeRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

// Similarity is the share of words in a that also appear in b, over the longer
// of the two word counts. Words shorter than minMatchLen still count toward the
// denominator. Neither side is normalized here.
func Similarity(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)

	denominator := max(len(wordsA), len(wordsB))
	if denominator == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(wordsB))
	for _, word := range wordsB {
		inB[word] = struct{}{}
	}

	matches := 0
	for _, word := range wordsA {
		if utf8.RuneCountInString(word) < minMatchLen {
			continue
		}
		if _, ok := inB[word]; ok {
			matches++
		}
	}

	return float64(matches) / float64(denominator)
}
