package tokens

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_ValidationAndLimits(t *testing.T) {
	c := NewCache()
	assert.False(t, c.Ready())
	assert.False(t, c.Validate("a"))

	c.Replace(map[string]int{"a": 5, "b": 10})

	assert.True(t, c.Ready())
	assert.True(t, c.Validate("a"))
	assert.Equal(t, 5, c.RateLimit("a"))
	assert.Equal(t, 10, c.RateLimit("b"))
	assert.False(t, c.Validate("c"))
	assert.Equal(t, 0, c.RateLimit("c"))
}

func TestCache_ReplaceUpdates(t *testing.T) {
	c := NewCache()
	src := map[string]int{"a": 5, "b": 10}
	c.Replace(src)
	src["a"] = 100
	assert.Equal(t, 5, c.RateLimit("a"), "cache must not alias the caller's map")

	c.Replace(map[string]int{"a": 7, "c": 12})
	assert.Equal(t, 7, c.RateLimit("a"))
	assert.False(t, c.Validate("b"))
	assert.Equal(t, 12, c.RateLimit("c"))
}

func TestCache_EmptyLoadIsReady(t *testing.T) {
	c := NewCache()
	c.Replace(map[string]int{})
	assert.True(t, c.Ready())
}

type fakeRepo struct {
	m   map[string]int
	err error
}

func (r fakeRepo) LoadTokens(ctx context.Context) (map[string]int, error) {
	return r.m, r.err
}

func TestReloader_LoadOnce(t *testing.T) {
	c := NewCache()
	r := NewReloader(fakeRepo{m: map[string]int{"k": 3}}, c, time.Hour)

	assert.NoError(t, r.LoadOnce(context.Background()))
	assert.True(t, c.Ready())
	assert.Equal(t, 3, c.RateLimit("k"))
}

func TestReloader_LoadOnce_ErrorKeepsCache(t *testing.T) {
	c := NewCache()
	c.Replace(map[string]int{"keep": 7})
	r := NewReloader(fakeRepo{err: errors.New("boom")}, c, time.Hour)

	assert.Error(t, r.LoadOnce(context.Background()))
	assert.Equal(t, 7, c.RateLimit("keep"))
}

type sequenceRepo struct {
	mu      sync.Mutex
	results []map[string]int
	idx     int
	calls   atomic.Int32
}

func (r *sequenceRepo) LoadTokens(ctx context.Context) (map[string]int, error) {
	r.calls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idx >= len(r.results) {
		return r.results[len(r.results)-1], nil
	}
	cur := r.results[r.idx]
	r.idx++
	return cur, nil
}

func TestReloader_Start_RefreshesTokens(t *testing.T) {
	c := NewCache()
	repo := &sequenceRepo{results: []map[string]int{{"k": 1}, {"k": 5}}}

	r := NewReloader(repo, c, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	assert.Eventually(t, func() bool { return c.RateLimit("k") == 5 }, time.Second, 10*time.Millisecond)
}

func TestReloader_Start_StopsOnCancel(t *testing.T) {
	c := NewCache()
	repo := &sequenceRepo{results: []map[string]int{{"k": 1}}}

	r := NewReloader(repo, c, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := r.Start(ctx)

	assert.Eventually(t, func() bool { return repo.calls.Load() > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("reloader did not stop after cancel")
	}

	calls := repo.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, repo.calls.Load())
}
