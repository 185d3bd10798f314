// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/ttyview/lib/clock"
	"github.com/bureau-foundation/ttyview/lib/testutil"
)

// countingStore serves fixed captures and counts Get calls per name.
type countingStore struct {
	mu       sync.Mutex
	captures map[string][]byte
	gets     map[string]int
}

func newCountingStore(captures map[string][]byte) *countingStore {
	return &countingStore{captures: captures, gets: make(map[string]int)}
}

func (s *countingStore) List(context.Context) ([]SessionInfo, error) {
	return []SessionInfo{{Name: "listed"}}, nil
}

func (s *countingStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets[name]++
	data, ok := s.captures[name]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *countingStore) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[name]
}

func TestCachedServesFromMemoryUntilExpiry(t *testing.T) {
	t.Parallel()
	fake := clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	backing := newCountingStore(map[string][]byte{"s": []byte("data")})
	cached := NewCached(backing, CacheConfig{TTL: time.Minute, MaxBytes: 1024, Clock: fake})
	ctx := context.Background()

	for range 3 {
		if _, err := cached.Get(ctx, "s"); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if got := backing.count("s"); got != 1 {
		t.Fatalf("backing Get calls = %d, want 1", got)
	}

	fake.Advance(time.Minute)
	if _, err := cached.Get(ctx, "s"); err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if got := backing.count("s"); got != 2 {
		t.Fatalf("backing Get calls after expiry = %d, want 2", got)
	}
}

func TestCachedEvictsOldestOverBudget(t *testing.T) {
	t.Parallel()
	backing := newCountingStore(map[string][]byte{
		"a":   make([]byte, 40),
		"b":   make([]byte, 40),
		"c":   make([]byte, 40),
		"big": make([]byte, 101),
	})
	cached := NewCached(backing, CacheConfig{TTL: time.Hour, MaxBytes: 100, Clock: clock.Fake(time.Unix(0, 0))})
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := cached.Get(ctx, name); err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
	}
	if count, size := cached.Len(); count != 2 || size != 80 {
		t.Fatalf("Len() = %d, %d; want 2, 80", count, size)
	}

	// "a" was evicted; "c" is still cached.
	cached.Get(ctx, "a")
	cached.Get(ctx, "c")
	if backing.count("a") != 2 || backing.count("c") != 1 {
		t.Errorf("backing gets a=%d c=%d, want a=2 c=1", backing.count("a"), backing.count("c"))
	}

	// A capture larger than the whole budget is never cached.
	cached.Get(ctx, "big")
	cached.Get(ctx, "big")
	if backing.count("big") != 2 {
		t.Errorf("backing gets big=%d, want 2", backing.count("big"))
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	t.Parallel()
	backing := newCountingStore(nil)
	cached := NewCached(backing, CacheConfig{TTL: time.Hour, MaxBytes: 1024})
	for range 2 {
		if _, err := cached.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
		}
	}
	if got := backing.count("missing"); got != 2 {
		t.Errorf("backing Get calls = %d, want 2", got)
	}
}

func TestCachedDisabled(t *testing.T) {
	t.Parallel()
	backing := newCountingStore(map[string][]byte{"s": []byte("x")})
	cached := NewCached(backing, CacheConfig{TTL: 0, MaxBytes: 1024})
	cached.Get(context.Background(), "s")
	cached.Get(context.Background(), "s")
	if got := backing.count("s"); got != 2 {
		t.Errorf("backing Get calls with TTL 0 = %d, want 2", got)
	}
}

func TestCachedInvalidate(t *testing.T) {
	t.Parallel()
	backing := newCountingStore(map[string][]byte{"s": []byte("x"), "s.zst": []byte("x")})
	cached := NewCached(backing, CacheConfig{TTL: time.Hour, MaxBytes: 1024})
	ctx := context.Background()

	cached.Get(ctx, "s")
	cached.Get(ctx, "s.zst")
	// A change to the file on disk is reported by its full name.
	cached.Invalidate("s.zst")
	if count, _ := cached.Len(); count != 0 {
		t.Fatalf("Len() after Invalidate = %d, want 0", count)
	}

	cached.Get(ctx, "s")
	if got := backing.count("s"); got != 2 {
		t.Errorf("backing Get calls after Invalidate = %d, want 2", got)
	}
}

// blockingStore holds every Get until released, so a test can act
// while a fetch is in flight.
type blockingStore struct {
	*countingStore
	started chan struct{}
	release chan struct{}
}

func (s *blockingStore) Get(ctx context.Context, name string) ([]byte, error) {
	s.started <- struct{}{}
	<-s.release
	return s.countingStore.Get(ctx, name)
}

func TestCachedInvalidateDuringFetch(t *testing.T) {
	t.Parallel()
	backing := &blockingStore{
		countingStore: newCountingStore(map[string][]byte{"s": []byte("old")}),
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	cached := NewCached(backing, CacheConfig{TTL: time.Hour, MaxBytes: 1024})
	ctx := context.Background()

	fetched := make(chan []byte, 1)
	go func() {
		data, _ := cached.Get(ctx, "s")
		fetched <- data
	}()
	testutil.RequireReceive[struct{}](t, backing.started, 5*time.Second, "waiting for fetch to start")
	cached.Invalidate("s")
	close(backing.release)

	if data := testutil.RequireReceive[[]byte](t, fetched, 5*time.Second, "waiting for fetch"); string(data) != "old" {
		t.Fatalf("in-flight Get = %q, want %q", data, "old")
	}
	if count, _ := cached.Len(); count != 0 {
		t.Fatalf("Len() after invalidation during fetch = %d, want 0", count)
	}

	// The next fetch starts after the invalidation and is cached.
	go func() { <-backing.started }()
	if _, err := cached.Get(ctx, "s"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if count, _ := cached.Len(); count != 1 {
		t.Errorf("Len() after fresh fetch = %d, want 1", count)
	}
}

func TestCachedListPassesThrough(t *testing.T) {
	t.Parallel()
	cached := NewCached(newCountingStore(nil), CacheConfig{TTL: time.Hour, MaxBytes: 1})
	sessions, err := cached.List(context.Background())
	if err != nil || len(sessions) != 1 || sessions[0].Name != "listed" {
		t.Fatalf("List() = %v, %v", sessions, err)
	}
}
