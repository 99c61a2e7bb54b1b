package cache

import (
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCache_AddGet(t *testing.T) {
	c := New[[]string](4, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Add("a", []string{"x"})
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"x"}, v)
	assert.Equal(t, 1, c.Len())

	c.Remove("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCache_Expires(t *testing.T) {
	c := New[int](4, 20*time.Millisecond)
	c.Add("a", 1)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCache_EvictsBySize(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestItemCache(t *testing.T) {
	var c domain.ItemCache = NewItemCache(0, time.Minute)
	c.Add("e1", domain.Item{ID: "e1", Name: "Pilot"})

	got, ok := c.Get("e1")
	assert.True(t, ok)
	assert.Equal(t, "Pilot", got.Name)
}
