package httpcache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Default policy for the response cache.
const (
	DefaultCapacity = 10_000
	DefaultTTL      = 600 * time.Second
)

// Entry is one cached response: status, a small header whitelist, the
// serialized body and the tags it is indexed under.
type Entry struct {
	Status  int
	Headers map[string]string
	Body    []byte
	Tags    []string
}

// Store is a bounded TTL cache of GET responses with a tag index for bulk
// invalidation. Reads refresh entry recency. A key appears in the tag
// index only while its entry is live; eviction for any reason removes it
// from every tag it was indexed under.
type Store struct {
	entries *ttlcache.Cache[string, *Entry]

	mu       sync.Mutex
	tagIndex map[string]map[string]struct{}
}

// NewStore builds a Store and starts its expiration janitor.
func NewStore(capacity uint64, ttl time.Duration) *Store {
	s := &Store{
		tagIndex: make(map[string]map[string]struct{}),
	}
	s.entries = ttlcache.New(
		ttlcache.WithTTL[string, *Entry](ttl),
		ttlcache.WithCapacity[string, *Entry](capacity),
	)
	s.entries.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, *Entry]) {
		s.dropFromIndex(item.Key(), item.Value().Tags)
	})
	go s.entries.Start()
	return s
}

// Get returns the live entry for key, refreshing its TTL.
func (s *Store) Get(key string) (*Entry, bool) {
	item := s.entries.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Set stores an entry and indexes it under every tag it carries. An
// existing entry under the same key is replaced along with its index rows.
func (s *Store) Set(key string, entry *Entry) {
	if old := s.entries.Get(key, ttlcache.WithDisableTouchOnHit[string, *Entry]()); old != nil {
		s.dropFromIndex(key, old.Value().Tags)
	}

	s.entries.Set(key, entry, ttlcache.DefaultTTL)

	s.mu.Lock()
	for _, tag := range entry.Tags {
		set, ok := s.tagIndex[tag]
		if !ok {
			set = make(map[string]struct{})
			s.tagIndex[tag] = set
		}
		set[key] = struct{}{}
	}
	s.mu.Unlock()
}

// InvalidateTag removes every entry indexed under tag, dropping each from
// all of its tags, not just the invalidating one.
func (s *Store) InvalidateTag(tag string) {
	s.mu.Lock()
	set := s.tagIndex[tag]
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	// Delete fires the eviction callback, which cleans the index.
	for _, key := range keys {
		s.entries.Delete(key)
	}
}

// InvalidateTags invalidates every given tag in order.
func (s *Store) InvalidateTags(tags []string) {
	for _, tag := range tags {
		s.InvalidateTag(tag)
	}
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	return s.entries.Len()
}

// Stop halts the expiration janitor.
func (s *Store) Stop() {
	s.entries.Stop()
}

func (s *Store) dropFromIndex(key string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range tags {
		set, ok := s.tagIndex[tag]
		if !ok {
			continue
		}
		delete(set, key)
		if len(set) == 0 {
			delete(s.tagIndex, tag)
		}
	}
}
