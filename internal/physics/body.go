package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/annel0/voxelcore/internal/geom"
	"github.com/annel0/voxelcore/internal/world"
	"github.com/annel0/voxelcore/internal/world/block"
)

const (
	// DefaultGravity - прирост вертикальной скорости за тик
	DefaultGravity float32 = -0.01

	// MoveSpeed - множитель горизонтального ввода
	MoveSpeed float32 = 0.2
	// JumpBoost и JumpMin задают прыжок: vy = max(vy+JumpBoost, JumpMin)
	JumpBoost float32 = 0.02
	JumpMin   float32 = 0.1

	// ProjectileSpeed и ProjectileRadius - параметры выстрела из глаз тела
	ProjectileSpeed  float32 = 0.2
	ProjectileRadius float32 = 0.1
)

// Footprint - габариты тела. Позиция тела - центр основания.
type Footprint struct {
	Width      float32 // По X и по Z
	Height     float32
	HeadOffset float32 // Высота глаз над основанием
}

// PlayerFootprint - габариты игрока по умолчанию
var PlayerFootprint = Footprint{Width: 0.8, Height: 1.5, HeadOffset: 1.2}

// Valid проверяет, что коробка тела не вывернута
func (f Footprint) Valid() bool {
	return f.Width >= 0 && f.Height >= 0
}

// AABB возвращает коробку тела, стоящего в pos
func (f Footprint) AABB(pos mgl32.Vec3) geom.AABB {
	return geom.AABB{
		Position: pos.Sub(mgl32.Vec3{f.Width / 2, 0, f.Width / 2}),
		Extent:   mgl32.Vec3{f.Width, f.Height, f.Width},
	}
}

// Extent возвращает (ширина, высота) для Bound3D.ShrinkBy
func (f Footprint) Extent() mgl32.Vec2 {
	return mgl32.Vec2{f.Width, f.Height}
}

// Sprite - маленький снаряд без собственной коллизии
type Sprite struct {
	Radius float32
	Color  block.Color
}

// AABB - куб со стороной 2*Radius с центром в pos
func (s Sprite) AABB(pos mgl32.Vec3) geom.AABB {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return geom.AABB{Position: pos.Sub(r), Extent: r.Mul(2)}
}

// Intent - управляющий ввод игрока.
// Move и Jump удерживаются между тиками, Turn расходуется за один тик.
type Intent struct {
	Move mgl32.Vec2 // x - вправо, y - вперёд
	Turn mgl32.Vec2 // x - рыскание, y - тангаж
	Jump bool
}

// Body - тело с коробкой, которое участвует в разрешении коллизий
type Body struct {
	ID        uuid.UUID
	Footprint Footprint
	Gravity   bool

	// Position - наблюдаемая позиция, обновляется в Sync
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Yaw      float32
	Pitch    float32

	Controlled bool
	Intent     Intent

	phys   mgl32.Vec3
	cached geom.Bound3D
	seeded bool
}

// PhysicsPosition возвращает позицию на последнем тике
func (b Body) PhysicsPosition() mgl32.Vec3 { return b.phys }

// Bound возвращает границу, накопленную на последнем тике
func (b Body) Bound() geom.Bound3D { return b.cached }

// Seeded сообщает, есть ли у тела физическая позиция
func (b Body) Seeded() bool { return b.seeded }

// Eye возвращает позицию глаз
func (b Body) Eye() mgl32.Vec3 {
	return b.Position.Add(mgl32.Vec3{0, b.Footprint.HeadOffset, 0})
}

// Look возвращает направление взгляда
func (b Body) Look() mgl32.Vec3 {
	return LookDirection(b.Yaw, b.Pitch)
}

// Pick ищет блок, на который смотрит тело
func (b Body) Pick(m *world.Map, maxDistance float32) (world.PickedBlock, bool) {
	return world.Pick(m, b.Eye(), b.Look(), maxDistance)
}

func (b *Body) seed(bound geom.Bound3D) {
	b.phys = b.Position
	b.cached = bound
	b.seeded = true
}

// applyIntent переводит ввод в скорость
func (b *Body) applyIntent() {
	turn := b.Intent.Turn
	b.Intent.Turn = mgl32.Vec2{}
	b.Yaw = wrapAngle(b.Yaw + turn[0])
	b.Pitch += turn[1]

	move := mgl32.Vec3{b.Intent.Move[0], 0, -b.Intent.Move[1]}.Mul(MoveSpeed)
	target := mgl32.Rotate3DY(-b.Yaw).Mul3x1(move)
	if b.Intent.Jump {
		target[1] = max(b.Velocity[1]+JumpBoost, JumpMin)
	} else {
		target[1] = b.Velocity[1]
	}
	b.Velocity = target
}

// Projectile - летящий спрайт
type Projectile struct {
	ID       uuid.UUID
	Sprite   Sprite
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	phys mgl32.Vec3
}

// PhysicsPosition возвращает позицию на последнем тике
func (p Projectile) PhysicsPosition() mgl32.Vec3 { return p.phys }

// LookDirection возвращает единичный луч взгляда для углов рыскания и тангажа.
// При нулевых углах взгляд направлен в -Z.
func LookDirection(yaw, pitch float32) mgl32.Vec3 {
	rot := mgl32.Rotate3DY(-yaw).Mul3(mgl32.Rotate3DX(-pitch))
	return rot.Mul3x1(mgl32.Vec3{0, 0, -1})
}

func wrapAngle(a float32) float32 {
	const tau = 2 * math.Pi
	r := math.Mod(float64(a), tau)
	if r < 0 {
		r += tau
	}
	return float32(r)
}
