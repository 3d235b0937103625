package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hirelens/hirelens/core"
)

// Translation quality guard bounds. A translation whose length falls
// outside this ratio of the original is considered garbage output from
// the model and is discarded in favor of the original text.
const (
	minTranslationRatio = 0.3
	maxTranslationRatio = 3.0
)

// CachedTranslator decorates a Translator with two cache layers: an
// in-process memo for the lifetime of the instance and an optional
// persistent TranslationCache shared across restarts.
//
// It also owns input hygiene: text already in the canonical language is
// returned unchanged without touching the model, and overlong input is
// truncated before the call.
type CachedTranslator struct {
	inner  Translator
	cache  TranslationCache
	ttl    time.Duration
	maxLen int
	logger *slog.Logger

	mu   sync.RWMutex
	memo map[string]memoEntry
}

type memoEntry struct {
	translated string
	expires    time.Time
}

// CachedTranslatorOption configures a CachedTranslator.
type CachedTranslatorOption func(*CachedTranslator)

// WithCache attaches a persistent translation cache.
func WithCache(cache TranslationCache) CachedTranslatorOption {
	return func(t *CachedTranslator) {
		t.cache = cache
	}
}

// WithTTL sets the time-to-live for persistent cache entries.
func WithTTL(ttl time.Duration) CachedTranslatorOption {
	return func(t *CachedTranslator) {
		t.ttl = ttl
	}
}

// WithMaxInput caps the text length sent to the underlying translator.
func WithMaxInput(n int) CachedTranslatorOption {
	return func(t *CachedTranslator) {
		t.maxLen = n
	}
}

// WithTranslatorLogger sets the logger used for degradation warnings.
func WithTranslatorLogger(logger *slog.Logger) CachedTranslatorOption {
	return func(t *CachedTranslator) {
		t.logger = logger.With("component", "cached_translator")
	}
}

// NewCachedTranslator wraps inner with memoization and input hygiene.
func NewCachedTranslator(inner Translator, opts ...CachedTranslatorOption) *CachedTranslator {
	t := &CachedTranslator{
		inner:  inner,
		ttl:    168 * time.Hour,
		maxLen: 4000,
		logger: slog.Default().With("component", "cached_translator"),
		memo:   make(map[string]memoEntry),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate implements Translator. Lookup order is memo, persistent
// cache, model. A persistent cache failure is logged and treated as a
// miss; only a model failure is returned to the caller.
func (t *CachedTranslator) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	if core.IsCanonicalLanguage(text) {
		return text, nil
	}

	input := cleanInput(text)
	if input == "" {
		return "", nil
	}
	if len(input) > t.maxLen {
		input = truncateAtRune(input, t.maxLen)
		t.logger.Warn("truncated translation input", "original_len", len(text), "max", t.maxLen)
	}

	t.mu.RLock()
	entry, ok := t.memo[input]
	t.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.translated, nil
	}

	if t.cache != nil {
		cached, found, err := t.cache.GetTranslation(ctx, input)
		if err != nil {
			t.logger.Warn("translation cache lookup failed", "error", err)
		} else if found {
			t.remember(input, cached)
			return cached, nil
		}
	}

	translated, err := t.inner.Translate(ctx, input)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	if !plausibleTranslation(input, translated) {
		t.logger.Warn("discarded implausible translation",
			"input_len", len(input), "output_len", len(translated))
		return input, nil
	}

	t.remember(input, translated)
	if t.cache != nil {
		if err := t.cache.PutTranslation(ctx, input, translated, t.ttl); err != nil {
			t.logger.Warn("translation cache write failed", "error", err)
		}
	}

	return translated, nil
}

func (t *CachedTranslator) remember(text, translated string) {
	expires := time.Now().Add(t.ttl)
	if t.ttl <= 0 {
		expires = time.Now().Add(100 * 365 * 24 * time.Hour)
	}
	t.mu.Lock()
	t.memo[text] = memoEntry{translated: translated, expires: expires}
	t.mu.Unlock()
}

// cleanInput trims and collapses whitespace and strips backslashes,
// which some upstream data sources embed as escape artifacts.
func cleanInput(s string) string {
	s = strings.ReplaceAll(s, `\`, "")
	return strings.Join(strings.Fields(s), " ")
}

// truncateAtRune cuts s to at most max bytes without splitting a rune.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// plausibleTranslation rejects empty output, output identical to the
// input, and output whose length ratio to the input falls outside
// [0.3, 3.0].
func plausibleTranslation(input, output string) bool {
	if output == "" || output == input {
		return false
	}
	ratio := float64(len(output)) / float64(len(input))
	return ratio >= minTranslationRatio && ratio <= maxTranslationRatio
}
