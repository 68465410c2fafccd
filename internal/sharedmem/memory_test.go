package sharedmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/storage/kvstore"
)

func TestExtractKeywordsDropsStopwordsAndShortTokens(t *testing.T) {
	got := ExtractKeywords("The quick and the dead: a study of entropy in closed systems")
	assert.NotContains(t, got, "the")
	assert.NotContains(t, got, "a")
	assert.Contains(t, got, "quick")
	assert.Contains(t, got, "entropy")
	assert.Contains(t, got, "systems")
}

func TestJaccardNoOverlapIsZero(t *testing.T) {
	assert.Equal(t, 0.0, jaccard([]string{"alpha", "beta"}, []string{"gamma", "delta"}))
	assert.Equal(t, 0.0, jaccard(nil, []string{"gamma"}))
}

func TestJaccardPartialOverlap(t *testing.T) {
	got := jaccard([]string{"alpha", "beta", "gamma"}, []string{"beta", "gamma", "delta"})
	assert.InDelta(t, 2.0/4.0, got, 0.0001)
}

func TestShareAndRelevantRanksByOverlap(t *testing.T) {
	mem := New(kvstore.NewSimpleKVStore(), 256, time.Hour)
	ctx := context.Background()

	require.NoError(t, mem.Share(ctx, domain.SharedDiscovery{
		AgentID: "a1", Timestamp: time.Now(), Summary: "entropy basics",
		Keywords: []string{"entropy", "thermodynamics"}, Source: domain.PageRecord{DocSource: "doc1", PageNum: 1},
	}))
	require.NoError(t, mem.Share(ctx, domain.SharedDiscovery{
		AgentID: "a2", Timestamp: time.Now(), Summary: "unrelated topic",
		Keywords: []string{"cooking", "recipes"}, Source: domain.PageRecord{DocSource: "doc2", PageNum: 1},
	}))

	results, err := mem.Relevant(ctx, []string{"entropy", "physics"}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a1", results[0].AgentID)
}

func TestRelevantReturnsEmptyWhenNoOverlap(t *testing.T) {
	mem := New(kvstore.NewSimpleKVStore(), 256, time.Hour)
	ctx := context.Background()

	require.NoError(t, mem.Share(ctx, domain.SharedDiscovery{
		AgentID: "a1", Timestamp: time.Now(), Keywords: []string{"cooking"}, Source: domain.PageRecord{DocSource: "doc1", PageNum: 1},
	}))

	results, err := mem.Relevant(ctx, []string{"physics"}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	mem := New(kvstore.NewSimpleKVStore(), 256, time.Hour)
	ctx := context.Background()

	result := domain.SubagentResult{TaskID: "t1", FinalInformation: "some answer"}
	require.NoError(t, mem.CacheSet(ctx, "query-a", result))

	entry, ok, err := mem.CacheGet(ctx, "query-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "some answer", entry.Result.FinalInformation)
}

func TestCacheGetMissReturnsFalse(t *testing.T) {
	mem := New(kvstore.NewSimpleKVStore(), 256, time.Hour)
	_, ok, err := mem.CacheGet(context.Background(), "never-set")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheExpiredEntryEvicted(t *testing.T) {
	mem := New(kvstore.NewSimpleKVStore(), 256, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, mem.CacheSet(ctx, "query-b", domain.SubagentResult{TaskID: "t2"}))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := mem.CacheGet(ctx, "query-b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheLRUEvictsOldest(t *testing.T) {
	mem := New(kvstore.NewSimpleKVStore(), 2, time.Hour)
	ctx := context.Background()

	require.NoError(t, mem.CacheSet(ctx, "q1", domain.SubagentResult{TaskID: "1"}))
	require.NoError(t, mem.CacheSet(ctx, "q2", domain.SubagentResult{TaskID: "2"}))
	require.NoError(t, mem.CacheSet(ctx, "q3", domain.SubagentResult{TaskID: "3"}))

	_, ok, err := mem.CacheGet(ctx, "q1")
	require.NoError(t, err)
	assert.False(t, ok, "q1 should have been evicted as least-recently-used")

	_, ok, err = mem.CacheGet(ctx, "q3")
	require.NoError(t, err)
	assert.True(t, ok)
}
