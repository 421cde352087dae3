// Package policy holds the pure predicates the lifecycle engine consults:
// storage key classification and document expiry.
package policy

import "strings"

// KeyClass describes why a storage key is or is not usable.
type KeyClass string

const (
	KeyValid        KeyClass = "valid"
	KeyMissing      KeyClass = "missing"
	KeyNonCanonical KeyClass = "non-canonical"
	KeyLegacy       KeyClass = "legacy"
)

var (
	// CanonicalPrefixes are the prefixes of keys issued by the current upload scheme.
	CanonicalPrefixes = []string{"documents/"}
	// LegacyPrefixes belong to earlier storage layouts and must never be served.
	LegacyPrefixes = []string{"docs/", "uploads/", "tmp/", "test/"}
)

// Classify reports the class of a storage key.
//
// The legacy check runs after the canonical check and cannot fire while the
// two prefix sets are disjoint. It stays so that widening CanonicalPrefixes
// never makes a legacy key downloadable.
func Classify(key string) KeyClass {
	if key == "" {
		return KeyMissing
	}
	if !hasAnyPrefix(key, CanonicalPrefixes) {
		return KeyNonCanonical
	}
	if hasAnyPrefix(key, LegacyPrefixes) {
		return KeyLegacy
	}
	return KeyValid
}

// ValidKey reports whether key is a well-formed, current-scheme reference.
func ValidKey(key string) bool {
	return Classify(key) == KeyValid
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
