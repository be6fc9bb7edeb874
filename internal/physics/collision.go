package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxelcore/internal/geom"
	"github.com/annel0/voxelcore/internal/vec"
	"github.com/annel0/voxelcore/internal/world"
)

// collisionPadding расширяет коробку по X и Z, чтобы ловить касание граней
const collisionPadding = 0.01

// SweepResult - итог одного тика для тела
type SweepResult struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Bound    geom.Bound3D // Пересечение границ всех трёх осей
	Blocked  [3]bool      // Оси, по которым движение упёрлось
}

// Collided сообщает, было ли хоть одно столкновение
func (r SweepResult) Collided() bool {
	return r.Blocked[vec.X] || r.Blocked[vec.Y] || r.Blocked[vec.Z]
}

// DestroyReason - причина уничтожения спрайта
type DestroyReason uint8

const (
	Alive DestroyReason = iota
	LeftWorld
	HitBlock
)

func (r DestroyReason) String() string {
	switch r {
	case LeftWorld:
		return "left_world"
	case HitBlock:
		return "hit_block"
	default:
		return "alive"
	}
}

// Resolver разрешает столкновения с картой. Только читает блоки,
// поэтому один Resolver можно использовать из нескольких горутин.
type Resolver struct {
	world    *world.Map
	mapBound geom.Bound3D
}

// NewResolver создаёт резолвер для карты
func NewResolver(m *world.Map) *Resolver {
	return &Resolver{world: m, mapBound: m.Bound()}
}

// Sweep двигает тело по одной оси за раз, начиная с оси наибольшей скорости.
// Позиция и скорость меняются последовательно, каждая ось видит результат предыдущей.
func (r *Resolver) Sweep(fp Footprint, pos, vel mgl32.Vec3) SweepResult {
	res := SweepResult{Position: pos, Velocity: vel, Bound: geom.NoBound}
	extent := fp.Extent()

	order := vec.SortAxes(vec.Triple[float32](vel), func(a, b float32) bool { return abs32(a) > abs32(b) })
	for _, axis := range order {
		next := res.Position
		next[axis] += res.Velocity[axis]

		box := fp.AABB(next).Expanded(mgl32.Vec3{collisionPadding, 0, collisionPadding})
		vb := geom.NewVoxelBound()
		for target := range r.world.ScanAABB(box) {
			overlap := geom.FromBlock(target.Vec3f()).Intersect(box)
			vb.Merge(geom.VoxelBoundFromAABB(overlap, axis))
		}

		bound := r.mapBound
		bound.Limit(axis, vb.Range())
		bound = bound.ShrinkBy(extent)

		res.Bound.IntersectWith(bound)
		res.Position = bound.Apply(next)
		if res.Position[axis] != next[axis] {
			res.Velocity[axis] = 0
			res.Blocked[axis] = true
		}
	}
	return res
}

// StepSprite сдвигает спрайт на полную скорость за один шаг.
// Спрайт уничтожается, если вышел за мир или задел любой блок.
func (r *Resolver) StepSprite(s Sprite, pos, vel mgl32.Vec3) (mgl32.Vec3, DestroyReason) {
	next := pos.Add(vel)
	if r.mapBound.OutOfBound(next) {
		return pos, LeftWorld
	}
	for range r.world.ScanAABB(s.AABB(next)) {
		return pos, HitBlock
	}
	return next, Alive
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
