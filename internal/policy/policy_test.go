package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docport/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want KeyClass
	}{
		{name: "canonical key", key: "documents/2b1f.pdf", want: KeyValid},
		{name: "empty key", key: "", want: KeyMissing},
		{name: "docs prefix", key: "docs/a.pdf", want: KeyNonCanonical},
		{name: "uploads prefix", key: "uploads/a.pdf", want: KeyNonCanonical},
		{name: "tmp prefix", key: "tmp/a.pdf", want: KeyNonCanonical},
		{name: "test prefix", key: "test/a.pdf", want: KeyNonCanonical},
		{name: "no prefix", key: "a.pdf", want: KeyNonCanonical},
		{name: "prefix is case sensitive", key: "Documents/a.pdf", want: KeyNonCanonical},
		{name: "leading slash", key: "/documents/a.pdf", want: KeyNonCanonical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.key))
			assert.Equal(t, tt.want == KeyValid, ValidKey(tt.key))
		})
	}
}

func TestClassify_LegacyWinsOverWidenedCanonicalSet(t *testing.T) {
	orig := CanonicalPrefixes
	CanonicalPrefixes = []string{"documents/", "tmp/"}
	defer func() { CanonicalPrefixes = orig }()

	assert.Equal(t, KeyLegacy, Classify("tmp/a.pdf"))
	assert.False(t, ValidKey("tmp/a.pdf"))
	assert.True(t, ValidKey("documents/a.pdf"))
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	assert.False(t, Expired(nil, now))
	assert.False(t, Expired(&model.Document{}, now), "missing expiry never expires")
	assert.True(t, Expired(&model.Document{ExpiresAt: &past}, now))
	assert.False(t, Expired(&model.Document{ExpiresAt: &future}, now))
	assert.False(t, Expired(&model.Document{ExpiresAt: &now}, now), "expiry instant itself is still live")
}

func TestExpiresAt(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, created.Add(7*24*time.Hour), ExpiresAt(created, 0))
	assert.Equal(t, created.Add(time.Hour), ExpiresAt(created, time.Hour))
}
