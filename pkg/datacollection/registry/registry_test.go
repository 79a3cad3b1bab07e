package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New[string, int]()
	assert.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
}

func TestRegisterAndGet(t *testing.T) {
	r := New[string, int]()

	_, replaced := r.Register("one", 1)
	assert.False(t, replaced)
	r.Register("two", 2)

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = r.Get("three")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestRegisterReturnsDisplacedValue(t *testing.T) {
	r := New[string, string]()

	r.Register("key", "old")
	old, replaced := r.Register("key", "new")
	assert.True(t, replaced)
	assert.Equal(t, "old", old)

	v, _ := r.Get("key")
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, r.Len())
}

func TestDelete(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)

	v, ok := r.Delete("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.False(t, r.Has("a"))

	_, ok = r.Delete("a")
	assert.False(t, ok)
}

func TestKeysAreSorted(t *testing.T) {
	r := New[string, int]()
	for _, k := range []string{"velocity", "density", "pressure", "energy"} {
		r.Register(k, 0)
	}
	assert.Equal(t, []string{"density", "energy", "pressure", "velocity"}, r.Keys())
}

func TestRangeOrderAndStop(t *testing.T) {
	r := New[int, string]()
	r.Register(3, "c")
	r.Register(1, "a")
	r.Register(2, "b")

	var seen []string
	r.Range(func(_ int, v string) bool {
		seen = append(seen, v)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	seen = nil
	r.Range(func(k int, v string) bool {
		seen = append(seen, v)
		return k < 2
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestRangeAllowsMutation(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)
	r.Register("b", 2)

	r.Range(func(k string, _ int) bool {
		r.Delete(k)
		return true
	})
	assert.Equal(t, 0, r.Len())
}

func TestUpdateAndClear(t *testing.T) {
	r := New[string, *int]()
	one, two := 1, 2
	r.Register("a", &one)
	r.Register("b", &two)

	r.Update(func(string, *int) *int { return nil })
	require.Equal(t, 2, r.Len())
	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Nil(t, v)

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Keys())
}

func TestConcurrentAccess(t *testing.T) {
	r := New[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Register(i, i*i)
			_, _ = r.Get(i)
			_ = r.Keys()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, r.Len())
	v, _ := r.Get(7)
	assert.Equal(t, 49, v)
}
