package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
		// Exercises the unrolled loop and the tail
		{"Large", make([]float32, 1027), make([]float32, 1027), 0},
	}

	for i := range tests[5].a {
		tests[5].a[i] = 1
		tests[5].b[i] = 1
	}
	tests[5].expected = 1027

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		v := []float32{3, 4}
		ok := NormalizeL2InPlace(v)
		assert.True(t, ok)
		assert.InDelta(t, float32(0.6), v[0], 1e-5)
		assert.InDelta(t, float32(0.8), v[1], 1e-5)

		assert.InDelta(t, float32(1.0), float32(math.Sqrt(float64(v[0]*v[0]+v[1]*v[1]))), 1e-5)

		vZero := []float32{0, 0}
		assert.False(t, NormalizeL2InPlace(vZero))

		vEmpty := []float32{}
		assert.False(t, NormalizeL2InPlace(vEmpty))

		vNaN := []float32{float32(math.NaN()), 1}
		assert.False(t, NormalizeL2InPlace(vNaN))
	})

	t.Run("Copy", func(t *testing.T) {
		v := []float32{2, 0}
		dst, ok := NormalizeL2Copy(v)
		require.True(t, ok)
		assert.Equal(t, float32(1), dst[0])
		assert.Equal(t, float32(2), v[0], "source must not be modified")
		assert.NotSame(t, &v[0], &dst[0])

		dst, ok = NormalizeL2Copy([]float32{0, 0})
		assert.False(t, ok)
		assert.Nil(t, dst)
	})
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Identical", []float32{1, 0}, []float32{1, 0}, 0},
		{"Orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"Opposite", []float32{1, 0}, []float32{-1, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineDistance(tt.a, tt.b), 1e-6)
		})
	}
}

func TestClampDistance(t *testing.T) {
	assert.Equal(t, float32(0), ClampDistance(-1e-7))
	assert.Equal(t, float32(2), ClampDistance(2.0000002))
	assert.Equal(t, float32(0), ClampDistance(float32(math.NaN())))
	assert.Equal(t, float32(0.5), ClampDistance(0.5))
}

func TestCosineSimilarity(t *testing.T) {
	sim, ok := CosineSimilarity([]float32{1, 1}, []float32{2, 2})
	require.True(t, ok)
	assert.InDelta(t, float32(1), sim, 1e-6)

	_, ok = CosineSimilarity([]float32{0, 0}, []float32{1, 0})
	assert.False(t, ok)
}
