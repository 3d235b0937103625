package mock

import (
	"context"
	"strings"
	"unicode"
)

// cyrillicToLatin is a crude transliteration table, enough for default
// mock translations to come out ASCII.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f",
	'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch", 'ы': "y",
	'э': "e", 'ю': "yu", 'я': "ya", 'ё': "yo", 'ъ': "", 'ь': "",
}

// MockTranslator is a test double for ai.Translator.
// It allows custom behavior injection via function fields.
type MockTranslator struct {
	// TranslateFunc is called by Translate if set.
	// If nil, uses default deterministic transliteration.
	TranslateFunc func(ctx context.Context, text string) (string, error)

	callCount int
}

// NewMockTranslator creates a mock translator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockTranslator().
func NewMockTranslator() *MockTranslator {
	return &MockTranslator{}
}

// Translate returns a deterministic ASCII rendition of text.
// Default behavior: transliterates Cyrillic runes, passes everything else through.
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.callCount++

	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		lower := unicode.ToLower(r)
		if lat, ok := cyrillicToLatin[lower]; ok {
			if lower != r && lat != "" {
				lat = strings.ToUpper(lat[:1]) + lat[1:]
			}
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// CallCount returns the number of times Translate was called.
func (m *MockTranslator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockTranslator) Reset() {
	m.callCount = 0
	m.TranslateFunc = nil
}
