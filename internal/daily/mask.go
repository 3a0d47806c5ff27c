package daily

import (
	"strings"
	"unicode"
)

// Placeholder replaces hidden letters.
const Placeholder = '_'

// Mask keeps the first letter of every run of letters and hides the rest.
// Anything that is not a letter passes through, so the result has the same
// number of runes as the input.
func Mask(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inWord := false
	for _, r := range text {
		switch {
		case !unicode.IsLetter(r):
			inWord = false
			sb.WriteRune(r)
		case inWord:
			sb.WriteRune(Placeholder)
		default:
			inWord = true
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
