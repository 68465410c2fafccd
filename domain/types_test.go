package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubagentTaskCloneIsIndependent(t *testing.T) {
	original := SubagentTask{
		FocusAreas:       []string{"conceptual"},
		Keywords:         []string{"entropy"},
		ExpectedFindings: []string{"conceptual coverage of entropy"},
	}
	clone := original.Clone()
	clone.FocusAreas[0] = "mutated"
	clone.Keywords = append(clone.Keywords, "disorder")
	clone.ExpectedFindings[0] = "mutated"

	assert.Equal(t, "conceptual", original.FocusAreas[0])
	assert.Len(t, original.Keywords, 1)
	assert.Len(t, clone.Keywords, 2)
	assert.Equal(t, "conceptual coverage of entropy", original.ExpectedFindings[0])
}

func TestCacheEntryExpired(t *testing.T) {
	entry := CacheEntry{StoredAt: time.Now().Add(-time.Hour), TTL: time.Minute}
	assert.True(t, entry.Expired(time.Now()))

	fresh := CacheEntry{StoredAt: time.Now(), TTL: time.Hour}
	assert.False(t, fresh.Expired(time.Now()))
}

func TestCacheEntryZeroTTLNeverExpires(t *testing.T) {
	entry := CacheEntry{StoredAt: time.Now().Add(-24 * time.Hour), TTL: 0}
	assert.False(t, entry.Expired(time.Now()))
}
