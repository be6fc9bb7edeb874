package geom

import (
	"fmt"
	"math"

	"github.com/annel0/voxelcore/internal/vec"
)

// AreaEpsilon - площади по модулю меньше этого порога считаются нулевыми
const AreaEpsilon = 0.01

var nan32 = float32(math.NaN())

// VoxelBound накапливает по одной оси ближайшую ограничивающую грань вокселей.
// Знак area задаёт направление: положительный - стена снизу (граница [position, +inf)),
// отрицательный - стена сверху ((-inf, position]). Модуль area - суммарная площадь перекрытия.
// NaN в position означает, что граница не определена.
type VoxelBound struct {
	position float32
	area     float32
}

// NewVoxelBound возвращает неопределённую границу (NaN, 0)
func NewVoxelBound() VoxelBound {
	return VoxelBound{position: nan32}
}

// Position возвращает позицию грани (NaN, если не определена)
func (v VoxelBound) Position() float32 {
	return v.position
}

// Area возвращает знаковую площадь
func (v VoxelBound) Area() float32 {
	return v.area
}

// Undetermined сообщает, что граница не задана
func (v VoxelBound) Undetermined() bool {
	return isNaN(v.position)
}

// areaSign сравнивает площадь с нулём с допуском AreaEpsilon; NaN даёт 0
func areaSign(area float32) int {
	switch {
	case isNaN(area) || abs32(area) < AreaEpsilon:
		return 0
	case area > 0:
		return 1
	default:
		return -1
	}
}

// classifyEdge определяет направление и позицию стены по интервалу перекрытия.
// Стеной считается только конец, лежащий на целой границе вокселя.
// Оба конца целые или оба нецелые - вырожденный случай (0, NaN).
func classifyEdge(r Range) (direction, position float32) {
	lo, hi := isGridLine(r.Start), isGridLine(r.End)
	switch {
	case lo && !hi:
		return -1, r.Start
	case hi && !lo:
		return 1, r.End
	default:
		return 0, nan32
	}
}

// VoxelBoundFromAABB строит границу по одной оси из перекрытия блока и сущности
func VoxelBoundFromAABB(overlap AABB, axis vec.Axis) VoxelBound {
	direction, position := classifyEdge(overlap.Axis(axis))
	vb := VoxelBound{
		position: position,
		area:     direction * overlap.crossSection(axis),
	}
	return vb.filterSmall()
}

func (v VoxelBound) filterSmall() VoxelBound {
	if areaSign(v.area) == 0 {
		return NewVoxelBound()
	}
	return v
}

// Merge добавляет other к накопленной границе. Площади складываются;
// при положительной сумме берётся максимум позиций, при отрицательной - минимум,
// если сумма обнулилась, позиция становится NaN. Неопределённый other пропускается.
func (v *VoxelBound) Merge(other VoxelBound) {
	if other.Undetermined() {
		return
	}
	v.area += other.area
	switch areaSign(v.area) {
	case 1:
		v.position = max32(v.position, other.position)
	case -1:
		v.position = min32(v.position, other.position)
	default:
		v.position = nan32
	}
}

// Range переводит границу в интервал для одной оси
func (v VoxelBound) Range() Range {
	switch areaSign(v.area) {
	case 1:
		return From(v.position)
	case -1:
		return To(v.position)
	default:
		return Unbounded()
	}
}

func (v VoxelBound) String() string {
	return fmt.Sprintf("VoxelBound(%g@%g)", v.position, v.area)
}

// VoxelBounds - границы по всем трём осям сразу
type VoxelBounds [3]VoxelBound

// NewVoxelBounds возвращает три неопределённые границы
func NewVoxelBounds() VoxelBounds {
	return VoxelBounds{NewVoxelBound(), NewVoxelBound(), NewVoxelBound()}
}

// VoxelBoundsFromAABB строит границы по всем осям из одного перекрытия
func VoxelBoundsFromAABB(overlap AABB) VoxelBounds {
	var out VoxelBounds
	for _, a := range vec.Axes {
		out[a] = VoxelBoundFromAABB(overlap, a)
	}
	return out
}

// Axis возвращает границу по оси
func (vs VoxelBounds) Axis(a vec.Axis) VoxelBound {
	return vs[a]
}

// Merge сливает границы поосно
func (vs *VoxelBounds) Merge(other VoxelBounds) {
	for _, a := range vec.Axes {
		vs[a].Merge(other[a])
	}
}

// MaxArea возвращает ось с наибольшей конечной площадью и её интервал.
// ok == false, если все площади нулевые.
func (vs VoxelBounds) MaxArea() (axis vec.Axis, r Range, ok bool) {
	best := float32(0)
	for _, a := range vec.Axes {
		area := vs[a].area
		if isInf(area) || isNaN(area) {
			continue
		}
		if abs := abs32(area); abs > best {
			best = abs
			axis, r, ok = a, vs[a].Range(), true
		}
	}
	return axis, r, ok
}

// ToBound3D переводит все три оси в Bound3D
func (vs VoxelBounds) ToBound3D() Bound3D {
	return BoundFromRanges(vec.MapAxis[VoxelBound, Range](vs, func(_ vec.Axis, v VoxelBound) Range {
		return v.Range()
	}))
}
