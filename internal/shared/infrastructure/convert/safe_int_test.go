package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	t.Run("converts valid value", func(t *testing.T) {
		result, err := IntToUint32(5)
		require.NoError(t, err)
		assert.Equal(t, uint32(5), result)
	})

	t.Run("converts max uint32 value", func(t *testing.T) {
		result, err := IntToUint32(math.MaxUint32)
		require.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), result)
	})

	t.Run("returns error on negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})

	t.Run("returns error on overflow", func(t *testing.T) {
		_, err := IntToUint32(math.MaxUint32 + 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overflow")
	})
}
