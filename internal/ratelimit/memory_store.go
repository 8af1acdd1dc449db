package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps buckets in a process-local map. Expired buckets are only
// reset when their key is hit again; nothing is ever swept, so memory grows
// with the number of distinct keys seen.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*Bucket
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*Bucket)}
}

func (s *MemoryStore) Hit(_ context.Context, key string, opts Options, now time.Time) (Bucket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[key]
	if !ok || now.After(bucket.ResetAt) {
		bucket = &Bucket{Count: 1, ResetAt: now.Add(opts.Window)}
		s.buckets[key] = bucket
		return *bucket, true, nil
	}
	if bucket.Count >= opts.Max {
		return *bucket, false, nil
	}
	bucket.Count++
	return *bucket, true, nil
}

// Len reports how many keys are tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
