package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/hirelens/hirelens/core"
)

// Key prefixes for different data types
const (
	experiencePrefix     = "exprec"
	experienceCandPrefix = "expreccand"
	translationPrefix    = "trcache"
	pingKey              = "hirelens:ping"
)

// makeExperienceKey generates a key for an experience record by ID.
func makeExperienceKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", experiencePrefix, id))
}

// makeCandidateKey generates a composite key for the candidate index.
// Format: prefix:candidateID:experienceID
func makeCandidateKey(candidateID, experienceID core.ID) []byte {
	prefix := experienceCandPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort groups by candidate
	binary.BigEndian.PutUint64(buf[offset:], uint64(candidateID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(experienceID))
	return buf
}

// makePartialCandidateKey generates a partial key for candidate queries.
// Format: prefix:candidateID
func makePartialCandidateKey(candidateID core.ID) []byte {
	prefix := experienceCandPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(candidateID))
	return buf
}

// makeTranslationKey generates a key for a cached translation.
// The source text is trimmed, lower-cased and content-hashed so
// arbitrarily long input produces a fixed-width key and trivial
// variants of the same text share an entry.
func makeTranslationKey(text string) []byte {
	normalized := strings.ToLower(strings.TrimSpace(text))
	return []byte(fmt.Sprintf("%s:%d", translationPrefix, core.IDFromContent(normalized)))
}
