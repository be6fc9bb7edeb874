package vec

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAxisRest(t *testing.T) {
	assert.Equal(t, [2]Axis{Y, Z}, X.Rest())
	assert.Equal(t, [2]Axis{X, Z}, Y.Rest())
	assert.Equal(t, [2]Axis{X, Y}, Z.Rest())
	assert.Equal(t, "Y", Y.String())
}

func TestTripleAccess(t *testing.T) {
	v := Triple[float32](mgl32.Vec3{1, 2, 3})
	assert.Equal(t, float32(2), v.Axis(Y))

	v.SetAxis(Z, 7)
	assert.Equal(t, Triple[float32]{1, 2, 7}, v)
}

func TestMapAndAdjustAxis(t *testing.T) {
	src := Triple[int]{1, 2, 3}

	doubled := MapAxis[int, int](src, func(_ Axis, v int) int { return v * 2 })
	assert.Equal(t, Triple[int]{2, 4, 6}, doubled)

	adjusted := AdjustAxis[int](src, Y, func(v int) int { return v + 10 })
	assert.Equal(t, Triple[int]{1, 12, 3}, adjusted)

	names := Generate(func(a Axis) string { return a.String() })
	assert.Equal(t, Triple[string]{"X", "Y", "Z"}, names)
}

func TestSortAxes(t *testing.T) {
	asc := func(a, b float32) bool { return a < b }
	desc := func(a, b float32) bool { return a > b }

	cases := []struct {
		name string
		in   Triple[float32]
		less func(a, b float32) bool
		want [3]Axis
	}{
		{"already sorted", Triple[float32]{1, 2, 3}, asc, [3]Axis{X, Y, Z}},
		{"reversed", Triple[float32]{3, 2, 1}, asc, [3]Axis{Z, Y, X}},
		{"middle first", Triple[float32]{2, 1, 3}, asc, [3]Axis{Y, X, Z}},
		{"descending", Triple[float32]{0.1, -0.5, 0.3}, func(a, b float32) bool { return abs32(a) > abs32(b) }, [3]Axis{Y, Z, X}},
		{"all equal keeps order", Triple[float32]{0, 0, 0}, desc, [3]Axis{X, Y, Z}},
		{"tie keeps axis order", Triple[float32]{0, -0.5, 0}, func(a, b float32) bool { return abs32(a) > abs32(b) }, [3]Axis{Y, X, Z}},
		{"tie outer pair", Triple[float32]{2, 1, 2}, desc, [3]Axis{X, Z, Y}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SortAxes[float32](tc.in, tc.less))
		})
	}
}

func TestTrit(t *testing.T) {
	assert.Equal(t, TritPos, TritFromBool(true))
	assert.Equal(t, TritNeg, TritFromBool(false))
	assert.Equal(t, "T", TritNeg.String())
	assert.Equal(t, "0", TritZero.String())
	assert.Equal(t, "1", TritPos.String())

	_, ok := TritZero.Bool()
	assert.False(t, ok)
	pos, ok := TritPos.Bool()
	assert.True(t, ok)
	assert.True(t, pos)
}

func TestVec3(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, 2, v.Axis(Y))

	v.SetAxis(X, 5)
	assert.Equal(t, Vec3{X: 5, Y: 2, Z: 3}, v)

	assert.Equal(t, Vec3{X: -1, Y: 0, Z: 2}, Floor(mgl32.Vec3{-0.5, 0.99, 2}))
	assert.Equal(t, Vec3{X: 4, Y: 2, Z: 4}, v.Offset([3]Trit{TritNeg, TritZero, TritPos}))
	assert.Equal(t, 9, Vec3{}.DistanceSq(Vec3{X: 2, Y: 2, Z: 1}))
	assert.Equal(t, "(5, 2, 3)", v.String())
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
