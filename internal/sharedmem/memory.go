// Package sharedmem implements the append-only discovery log and bounded
// result cache subagents share through, backed by a storage/kvstore-style
// KVStore.
package sharedmem

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/storage/kvstore"
)

const (
	discoveryCollection = "shared_discoveries"
	cacheCollection     = "shared_cache"
)

// Memory is the shared-memory port every subagent reads from and writes to
// during a single research request. A fresh Memory is created per request;
// it is not shared across requests (see "Open Questions resolved" in
// DESIGN.md).
type Memory struct {
	store kvstore.KVStore

	mu        sync.Mutex
	cacheKeys *list.List
	cacheElem map[string]*list.Element
	maxSize   int
	ttl       time.Duration
}

// New builds a Memory over store, bounding the cache to maxSize entries
// (LRU eviction) each living at most ttl.
func New(store kvstore.KVStore, maxSize int, ttl time.Duration) *Memory {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &Memory{
		store:     store,
		cacheKeys: list.New(),
		cacheElem: make(map[string]*list.Element),
		maxSize:   maxSize,
		ttl:       ttl,
	}
}

// Share appends a discovery to the log, keyed `discovery:{agent_id}:{unix_nano}`.
func (m *Memory) Share(ctx context.Context, d domain.SharedDiscovery) error {
	key := fmt.Sprintf("discovery:%s:%d", d.AgentID, d.Timestamp.UnixNano())
	val, err := toStoredValue(d)
	if err != nil {
		return fmt.Errorf("encode discovery: %w", err)
	}
	return m.store.Put(ctx, key, val, discoveryCollection)
}

// Relevant returns up to limit discoveries whose keywords best overlap
// (Jaccard similarity) with the given keywords, sorted most-relevant first.
func (m *Memory) Relevant(ctx context.Context, keywords []string, limit int) ([]domain.SharedDiscovery, error) {
	all, err := m.store.GetAll(ctx, discoveryCollection)
	if err != nil {
		return nil, fmt.Errorf("list discoveries: %w", err)
	}

	type scored struct {
		d     domain.SharedDiscovery
		score float64
	}
	candidates := make([]scored, 0, len(all))
	for _, v := range all {
		var d domain.SharedDiscovery
		if err := fromStoredValue(v, &d); err != nil {
			continue
		}
		score := jaccard(keywords, d.Keywords)
		if score > 0 {
			candidates = append(candidates, scored{d: d, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].d.Timestamp.After(candidates[j].d.Timestamp)
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]domain.SharedDiscovery, len(candidates))
	for i, c := range candidates {
		out[i] = c.d
	}
	return out, nil
}

// CacheGet looks up a cached subagent result for query, evicting it first if
// expired.
func (m *Memory) CacheGet(ctx context.Context, query string) (domain.CacheEntry, bool, error) {
	key := "cache:" + query
	val, err := m.store.Get(ctx, key, cacheCollection)
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	if val == nil {
		return domain.CacheEntry{}, false, nil
	}

	var entry domain.CacheEntry
	if err := fromStoredValue(val, &entry); err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if entry.Expired(time.Now()) {
		_, _ = m.store.Delete(ctx, key, cacheCollection)
		m.touchEvict(key, true)
		return domain.CacheEntry{}, false, nil
	}

	m.touchEvict(key, false)
	return entry, true, nil
}

// CacheSet stores a subagent result for query, evicting the least-recently
// used entry if the cache is at capacity.
func (m *Memory) CacheSet(ctx context.Context, query string, result domain.SubagentResult) error {
	key := "cache:" + query
	entry := domain.CacheEntry{
		Query:    query,
		Result:   result,
		StoredAt: time.Now(),
		TTL:      m.ttl,
	}
	val, err := toStoredValue(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := m.store.Put(ctx, key, val, cacheCollection); err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}

	evicted := m.touchEvict(key, false)
	for _, evictedKey := range evicted {
		_, _ = m.store.Delete(ctx, evictedKey, cacheCollection)
	}
	return nil
}

// touchEvict records key as most-recently-used (or removes it, if remove is
// true) and returns any keys evicted past maxSize.
func (m *Memory) touchEvict(key string, remove bool) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.cacheElem[key]; ok {
		m.cacheKeys.Remove(elem)
		delete(m.cacheElem, key)
	}
	if remove {
		return nil
	}

	m.cacheElem[key] = m.cacheKeys.PushFront(key)

	var evicted []string
	for m.cacheKeys.Len() > m.maxSize {
		back := m.cacheKeys.Back()
		if back == nil {
			break
		}
		evictedKey := back.Value.(string)
		m.cacheKeys.Remove(back)
		delete(m.cacheElem, evictedKey)
		evicted = append(evicted, evictedKey)
	}
	return evicted
}

func toStoredValue(v interface{}) (kvstore.StoredValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var sv kvstore.StoredValue
	if err := json.Unmarshal(data, &sv); err != nil {
		return nil, err
	}
	return sv, nil
}

func fromStoredValue(sv kvstore.StoredValue, out interface{}) error {
	data, err := json.Marshal(sv)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
