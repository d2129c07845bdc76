package ids

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextIsUniqueAndIncreasing(t *testing.T) {
	seen := make(map[string]struct{})
	var prev int64
	for i := 0; i < 1000; i++ {
		id := Next()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}

		n, err := strconv.ParseInt(id, 10, 64)
		require.NoError(t, err)
		require.Greater(t, n, prev)
		prev = n
	}
}

func TestSetNodeIDMasksRange(t *testing.T) {
	require.NoError(t, SetNodeID(1023+1024))
	require.NotEmpty(t, Next())
}
