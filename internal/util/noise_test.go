package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSeedDeterministic(t *testing.T) {
	assert.Equal(t, DeriveSeed(42, "height"), DeriveSeed(42, "height"))
	assert.NotEqual(t, DeriveSeed(42, "height"), DeriveSeed(42, "color"), "разные метки дают разные сиды")
	assert.NotEqual(t, DeriveSeed(42, "height"), DeriveSeed(43, "height"), "разные сиды мира дают разные сиды")
}

func TestNoiseDeterministic(t *testing.T) {
	a := NewNoise(7, 0.03)
	b := NewNoise(7, 0.03)

	for i := 0; i < 16; i++ {
		x, y, z := float64(i)*1.3, float64(i)*0.7, float64(i)*2.1
		assert.Equal(t, a.Sample3D(x, y, z), b.Sample3D(x, y, z))
	}
}
