package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/annel0/voxelcore/internal/geom"
)

func TestFootprintAABB(t *testing.T) {
	box := PlayerFootprint.AABB(mgl32.Vec3{4, 1, 4})
	assert.True(t, box.Position.ApproxEqual(mgl32.Vec3{3.6, 1, 3.6}))
	assert.Equal(t, mgl32.Vec3{0.8, 1.5, 0.8}, box.Extent)
	assert.Equal(t, mgl32.Vec2{0.8, 1.5}, PlayerFootprint.Extent())

	assert.True(t, PlayerFootprint.Valid())
	assert.False(t, Footprint{Width: 1, Height: -0.5}.Valid())
}

func TestSpriteAABB(t *testing.T) {
	box := Sprite{Radius: 0.25}.AABB(mgl32.Vec3{1, 2, 3})
	assert.Equal(t, geom.AABB{Position: mgl32.Vec3{0.75, 1.75, 2.75}, Extent: mgl32.Vec3{0.5, 0.5, 0.5}}, box)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, box.Center())
}

func TestLookDirection(t *testing.T) {
	cases := []struct {
		yaw, pitch float32
		want       mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{0, 0, -1}},
		{math.Pi / 2, 0, mgl32.Vec3{1, 0, 0}},
		{math.Pi, 0, mgl32.Vec3{0, 0, 1}},
		{0, math.Pi / 2, mgl32.Vec3{0, -1, 0}},
	}
	for _, c := range cases {
		got := LookDirection(c.yaw, c.pitch)
		for i := range got {
			assert.InDelta(t, c.want[i], got[i], 1e-6, "yaw=%v pitch=%v", c.yaw, c.pitch)
		}
		assert.InDelta(t, 1, got.Len(), 1e-6)
	}
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0.5, wrapAngle(0.5), 1e-6)
	assert.InDelta(t, 2*math.Pi-0.5, wrapAngle(-0.5), 1e-6)
	assert.InDelta(t, 1, wrapAngle(2*math.Pi+1), 1e-5)
}

func TestApplyIntentKeepsFallSpeed(t *testing.T) {
	b := Body{Velocity: mgl32.Vec3{0.3, -0.4, 0.3}, Intent: Intent{Move: mgl32.Vec2{1, 0}}}
	b.applyIntent()
	assert.InDelta(t, MoveSpeed, b.Velocity[0], 1e-6, "вправо при нулевом рыскании - это +X")
	assert.Equal(t, float32(-0.4), b.Velocity[1])
	assert.InDelta(t, 0, b.Velocity[2], 1e-6)

	// прыжок в падении не даёт меньше JumpMin
	b.Intent.Jump = true
	b.applyIntent()
	assert.Equal(t, JumpMin, b.Velocity[1])
	b.applyIntent()
	assert.InDelta(t, JumpMin+JumpBoost, b.Velocity[1], 1e-6)
}
