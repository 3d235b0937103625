package core

import "unicode"

// asciiRatioThreshold is the minimum share of ASCII runes for text to
// count as canonical-language without translation.
const asciiRatioThreshold = 0.8

// IsCanonicalLanguage reports whether text is already in the canonical
// search language. The heuristic is deliberately cheap: text containing
// any Cyrillic rune is non-canonical, otherwise the ASCII rune ratio
// must exceed 0.8. Empty text is treated as canonical so that blank
// fields never trigger translation.
//
// Every component that decides whether to translate must call this
// function; diverging heuristics would let a query be translated twice.
func IsCanonicalLanguage(text string) bool {
	if text == "" {
		return true
	}

	total := 0
	ascii := 0
	for _, r := range text {
		if unicode.In(r, unicode.Cyrillic) {
			return false
		}
		total++
		if r < 128 {
			ascii++
		}
	}

	return float64(ascii)/float64(total) > asciiRatioThreshold
}
