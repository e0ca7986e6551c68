package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("normalizes to unit length", func(t *testing.T) {
		v := []float32{3.0, 4.0}
		result := NormalizeVector(v)

		assert.InDelta(t, 0.6, result[0], 1e-6)
		assert.InDelta(t, 0.8, result[1], 1e-6)
		assert.InDelta(t, 1.0, magnitude(result), 1e-6)
	})

	t.Run("already normalized", func(t *testing.T) {
		v := []float32{1.0, 0.0, 0.0}
		result := NormalizeVector(v)
		assert.InDelta(t, 1.0, magnitude(result), 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := []float32{0.0, 0.0, 0.0}
		result := NormalizeVector(v)
		assert.Equal(t, []float32{0.0, 0.0, 0.0}, result)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
		assert.Empty(t, NormalizeVector([]float32{}))
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		v := []float32{2.0, 0.0}
		_ = NormalizeVector(v)
		assert.Equal(t, []float32{2.0, 0.0}, v)
	})

	t.Run("negative components", func(t *testing.T) {
		v := []float32{-3.0, 4.0}
		result := NormalizeVector(v)
		assert.InDelta(t, -0.6, result[0], 1e-6)
		assert.InDelta(t, 0.8, result[1], 1e-6)
	})
}

func magnitude(v []float32) float64 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return math.Sqrt(sum)
}
