package mem

import "unicode/utf8"

// autoEditDistance mirrors the AUTO fuzziness ladder: short tokens must
// match exactly, mid-length tokens tolerate one edit, longer tokens two.
func autoEditDistance(length int) int {
	switch {
	case length < 3:
		return 0
	case length <= 5:
		return 1
	default:
		return 2
	}
}

// fuzzyEqual reports whether two tokens are within the AUTO edit
// distance of each other. The first prefixLen runes must match exactly.
func fuzzyEqual(a, b string, prefixLen int) bool {
	ra := []rune(a)
	rb := []rune(b)

	if prefixLen > 0 {
		if len(ra) < prefixLen || len(rb) < prefixLen {
			return false
		}
		for i := 0; i < prefixLen; i++ {
			if ra[i] != rb[i] {
				return false
			}
		}
	}

	maxDist := autoEditDistance(utf8.RuneCountInString(a))
	if maxDist == 0 {
		return a == b
	}
	if abs(len(ra)-len(rb)) > maxDist {
		return false
	}
	return levenshtein(ra, rb, maxDist) <= maxDist
}

// levenshtein computes edit distance with a cutoff; anything above
// maxDist returns maxDist+1.
func levenshtein(a, b []rune, maxDist int) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > maxDist {
			return maxDist + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
