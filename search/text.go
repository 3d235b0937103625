package search

import "strings"

// Noise words stripped from position titles before lexical retrieval.
var noiseWords = map[string]bool{
	"position:": true, "role:": true, "job:": true, "title:": true,
	"as": true, "a": true, "an": true, "the": true,
}

// Fixed vocabulary scanned in order when pulling key terms out of a job
// description. Multi-word entries match as substrings.
var keyTermVocabulary = []string{
	// Technical skills
	"python", "java", "javascript", "sql", "machine learning", "ai",
	"data science", "analytics", "statistics", "cloud", "aws", "azure",
	"kubernetes", "docker", "react", "node.js", "api", "database",

	// Experience levels
	"senior", "junior", "lead", "principal", "manager", "director",
	"entry level", "mid level", "experienced",

	// Industries
	"finance", "banking", "healthcare", "technology", "startup",
	"enterprise", "consulting", "government",

	// Job functions
	"development", "engineering", "analysis", "management", "design",
	"research", "operations", "strategy", "product",
}

const maxKeyTerms = 3

const punctuationCutset = ".,!?()[]{}\":;"

// cleanPosition lowercases a position title, strips punctuation and
// noise words, and drops single-character leftovers.
func cleanPosition(position string) string {
	words := strings.Fields(strings.ToLower(position))
	cleaned := make([]string, 0, len(words))

	for _, word := range words {
		// Field-prefix labels carry their colon, so check before
		// trimming punctuation too.
		if noiseWords[word] {
			continue
		}
		word = strings.Trim(word, punctuationCutset)
		if word == "" || noiseWords[word] || len(word) <= 1 {
			continue
		}
		cleaned = append(cleaned, word)
	}

	return strings.Join(cleaned, " ")
}

// extractKeyTerms pulls up to maxKeyTerms terms out of a job
// description: vocabulary hits in scan order first, then quoted
// substrings, deduplicated while preserving first-seen order.
func extractKeyTerms(description string) []string {
	if description == "" {
		return nil
	}

	lower := strings.ToLower(description)
	seen := make(map[string]bool)
	terms := make([]string, 0, maxKeyTerms)

	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] || len(terms) >= maxKeyTerms {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, word := range keyTermVocabulary {
		if strings.Contains(lower, word) {
			add(word)
		}
	}

	for _, quoted := range quotedSubstrings(description, '"') {
		add(strings.ToLower(quoted))
	}
	for _, quoted := range quotedSubstrings(description, '\'') {
		add(strings.ToLower(quoted))
	}

	return terms
}

// quotedSubstrings returns the contents of quote-delimited spans,
// left to right. An unterminated quote yields nothing.
func quotedSubstrings(text string, quote byte) []string {
	var spans []string
	for {
		open := strings.IndexByte(text, quote)
		if open < 0 {
			break
		}
		close := strings.IndexByte(text[open+1:], quote)
		if close < 0 {
			break
		}
		spans = append(spans, text[open+1:open+1+close])
		text = text[open+close+2:]
	}
	return spans
}

// buildSearchQuery combines the cleaned position phrase with the key
// terms extracted from the description into one lexical query string.
func buildSearchQuery(position, description string) string {
	parts := make([]string, 0, 1+maxKeyTerms)
	if cleaned := cleanPosition(position); cleaned != "" {
		parts = append(parts, cleaned)
	}
	parts = append(parts, extractKeyTerms(description)...)
	return strings.Join(parts, " ")
}

// titleCase capitalizes the first letter of each space-separated word.
// Used to generate casing variants for exact term matching.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		r := []rune(word)
		if len(r) > 0 {
			upper := strings.ToUpper(string(r[0]))
			words[i] = upper + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
