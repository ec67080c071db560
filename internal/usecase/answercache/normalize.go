package answercache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"unicode"

	"github.com/pandect-io/pandect/internal/domain"
)

// Normalize lowercases the question, strips punctuation, and collapses
// whitespace. It is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(question string) string {
	var b strings.Builder
	b.Grow(len(question))

	lastSpace := true
	for _, r := range strings.ToLower(question) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// Fingerprint hashes the normalized question, language, and canonical filter
// serialization into a fixed-width opaque key.
func Fingerprint(question string, lang domain.Language, filters map[string]string) string {
	h := sha256.Sum256([]byte(Normalize(question) + "|" + string(lang) + "|" + canonicalFilters(filters)))
	return hex.EncodeToString(h[:])
}

// canonicalFilters serializes filters with sorted keys so equal maps always
// produce equal strings.
func canonicalFilters(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(filters[k])
	}
	return b.String()
}
