package cache

import (
	"sync"
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](3)

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should return false")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d; want 2", c.Len())
	}
}

func TestCache_Eviction(t *testing.T) {
	c := New[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" is the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[string, int](4)

	calls := 0
	fn := func() int {
		calls++
		return 42
	}

	if v := c.GetOrSet("k", fn); v != 42 {
		t.Errorf("GetOrSet = %d; want 42", v)
	}
	if v := c.GetOrSet("k", fn); v != 42 {
		t.Errorf("GetOrSet = %d; want 42", v)
	}
	if calls != 1 {
		t.Errorf("compute function called %d times; want 1", calls)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats = %+v; want 1 hit, 1 miss", stats)
	}
}

func TestCache_Update(t *testing.T) {
	c := New[string, int](2)

	c.Set("a", 1)
	c.Set("a", 10)

	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d; want 10", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d; want 1", c.Len())
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d; want 0", c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](64)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				k := (base*100 + j) % 32
				c.GetOrSet(k, func() int { return k * 2 })
				if v, ok := c.Get(k); ok && v != k*2 {
					t.Errorf("Get(%d) = %d; want %d", k, v, k*2)
				}
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkCache_GetOrSet(b *testing.B) {
	c := New[int, int](128)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		k := i % 64
		c.GetOrSet(k, func() int { return k })
	}
}
