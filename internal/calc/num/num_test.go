package num

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func TestCosPhiClamp(t *testing.T) {
	assert.Equal(t, CosPhi(1.2), 1.0)
	assert.Equal(t, CosPhi(-0.1), 0.0)
	assert.Equal(t, CosPhi(0.9), 0.9)
	assert.Equal(t, CosPhi(math.NaN()), 0.0)

	for _, x := range []float64{-5, -1, 0, 0.3, 1, 1.0001, 42} {
		c := CosPhi(x)
		assert.Assert(t, c >= 0 && c <= 1, "clamp(%v)=%v", x, c)
	}
}

func TestSinPhi(t *testing.T) {
	assert.Equal(t, SinPhi(1), 0.0)
	assert.Equal(t, SinPhi(0), 1.0)
	assert.Assert(t, math.Abs(SinPhi(0.8)-0.6) < 1e-12)
	assert.Equal(t, SinPhi(1.5), 0.0)
}

func TestFinite(t *testing.T) {
	assert.Equal(t, Finite(math.Inf(1)), 0.0)
	assert.Equal(t, Finite(math.Inf(-1)), 0.0)
	assert.Equal(t, Finite(math.NaN()), 0.0)
	assert.Equal(t, Finite(3.5), 3.5)
}

func TestOr(t *testing.T) {
	assert.Equal(t, Or(0, 480), 480.0)
	assert.Equal(t, Or(-2, 480), 480.0)
	assert.Equal(t, Or(220, 480), 220.0)
}

func TestFixed(t *testing.T) {
	assert.Equal(t, Fixed(2.3575, 3), "2.358")
	assert.Equal(t, Fixed(1202.8125, 2), "1202.81")
	assert.Equal(t, Fixed(5, 2), "5.00")
	assert.Equal(t, Fixed(math.NaN(), 2), "")
}
