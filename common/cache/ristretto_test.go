package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneralCacheSetGet(t *testing.T) {
	c, err := NewGeneralCache(1024, 0)
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.Set("waits:1112345678999m", []int{0, 1}))
	c.Wait()
	v, ok := c.Get("waits:1112345678999m")
	require.True(t, ok)
	require.Equal(t, []int{0, 1}, v)

	c.Delete("waits:1112345678999m")
	_, ok = c.Get("waits:1112345678999m")
	require.False(t, ok)
}

func TestGeneralCacheRejectsZeroCost(t *testing.T) {
	_, err := NewGeneralCache(0, 0)
	require.Error(t, err)
}
