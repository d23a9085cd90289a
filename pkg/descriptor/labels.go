package descriptor

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns an identifier into a UI label: camelCase, snake_case
// and kebab-case boundaries become spaces and each word is capitalised.
// Acronyms keep their casing, so "isOTC" becomes "Is OTC".
func DefaultLabeler(name string) string {
	words := splitWords(name)
	for i, word := range words {
		words[i] = capitalise(word)
	}
	return strings.Join(words, " ")
}

func splitWords(name string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if i > 0 && len(current) > 0 && wordBoundary(runes, i) {
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}

func wordBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
		// "HTTPServer" splits before the "S".
		return true
	}
	return false
}

func capitalise(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
