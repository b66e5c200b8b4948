package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetPut(t *testing.T) {
	c, err := New[string](4)
	require.NoError(t, err)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("k", "value")
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
	assert.Equal(t, 1, c.Len())
}

func TestCacheEviction(t *testing.T) {
	c, err := New[int](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts a

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCacheClear(t *testing.T) {
	c, err := New[int](4)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestKeyDistinguishesConfig(t *testing.T) {
	doc := "# Document\n\ncontent"

	k1 := Key(doc, "2000|100")
	k2 := Key(doc, "500|50")
	k3 := Key(doc, "2000|100")

	assert.NotEqual(t, k1, k2, "different configs must not collide")
	assert.Equal(t, k1, k3, "identical inputs must produce identical keys")
	assert.Len(t, k1, 64)
}

func TestKeyDistinguishesContent(t *testing.T) {
	fp := "2000|100"
	keys := make(map[string]bool)
	for i := 0; i < 10; i++ {
		keys[Key(fmt.Sprintf("document %d", i), fp)] = true
	}
	assert.Len(t, keys, 10)
}
