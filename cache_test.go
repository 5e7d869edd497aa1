package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCacheGetSetAndEviction(t *testing.T) {
	c := NewLRUCache(2)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	// Touching "a" makes "b" the least recently used.
	c.Set("c", []byte("3"))

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")

	v, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	v, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), v)
}

func TestLRUCacheOverwrite(t *testing.T) {
	c := NewLRUCache(4)
	c.Set("a", []byte("1"))
	c.Set("a", []byte("2"))

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), v)
}

func TestKeyEntryCacheRoundTrip(t *testing.T) {
	entries := []KeyEntry{
		{Key: "apple", RecordOffset: 0, BlockIndex: 0},
		{Key: "banana", RecordOffset: 9, BlockIndex: 0},
	}

	encoded := encodeKeyEntryCache(entries)
	assert.NotNil(t, encoded)

	decoded, err := decodeKeyEntryCache(encoded)
	assert.NoError(t, err)
	assert.Equal(t, entries, decoded)
}
