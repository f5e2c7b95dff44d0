package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name          string
		value, lo, hi float64
		want          float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -3, 0, 1, 0},
		{"above", 7, 0, 1, 1},
		{"at bound", 1, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clip(tt.value, tt.lo, tt.hi))
		})
	}
}

func TestClipped(t *testing.T) {
	interval := r1.Interval{Min: -1, Max: 1}

	v, clipped := Clipped(0.25, interval)
	assert.Equal(t, 0.25, v)
	assert.False(t, clipped)

	v, clipped = Clipped(-4, interval)
	assert.Equal(t, -1.0, v)
	assert.True(t, clipped)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0.0, NormalizeAngle(2*math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, NormalizeAngle(-3*math.Pi/2), 1e-12)
	assert.InDelta(t, 0.3, NormalizeAngle(0.3), 1e-12)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0, 1, -2))
	assert.False(t, IsFinite(0, math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
}
