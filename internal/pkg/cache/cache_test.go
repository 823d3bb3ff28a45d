package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var got item
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "item:1", item{ID: 1, Name: "Ana"}, time.Minute))
	found, err = c.Get(ctx, "item:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{ID: 1, Name: "Ana"}, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, 5*time.Minute))
	now = now.Add(5 * time.Minute)

	var v int
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_FlushTags(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "sales:all:page:1:perPage:20", 1, time.Minute, "sales"))
	require.NoError(t, c.Set(ctx, "sellers:all:page:1:perPage:20", 2, time.Minute, "sellers", "seller:1", "seller:2"))
	require.NoError(t, c.Set(ctx, "sales:seller:3:date:all:page:1:perPage:20", 3, time.Minute, "seller:3"))

	require.NoError(t, c.FlushTags(ctx, "sales", "seller:2"))

	var v int
	found, _ := c.Get(ctx, "sales:all:page:1:perPage:20", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "sellers:all:page:1:perPage:20", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "sales:seller:3:date:all:page:1:perPage:20", &v)
	assert.True(t, found)
	assert.Equal(t, 1, c.Len())
}

func TestRemember(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	calls := 0
	load := func() (item, error) {
		calls++
		return item{ID: 7, Name: "Bruno"}, nil
	}

	first, err := Remember(ctx, c, "item:7", time.Minute, []string{"items"}, load)
	require.NoError(t, err)
	second, err := Remember(ctx, c, "item:7", time.Minute, []string{"items"}, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	Flush(ctx, c, "items")
	_, err = Remember(ctx, c, "item:7", time.Minute, []string{"items"}, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRemember_LoadErrorIsNotCached(t *testing.T) {
	c := NewMemoryCache()
	boom := errors.New("db down")

	_, err := Remember(context.Background(), c, "k", time.Minute, nil, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}
