package geom

import (
	"fmt"
	"iter"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxelcore/internal/vec"
)

// AABB - выровненный по осям параллелепипед: угол Position и размер Extent.
// Корректен только при неотрицательном Extent; тип это не проверяет,
// для проверки есть Valid.
type AABB struct {
	Position mgl32.Vec3
	Extent   mgl32.Vec3
}

var _ vec.AxisAccess[Range] = AABB{}

// FromBlock возвращает единичный куб блока с углом в pos
func FromBlock(pos mgl32.Vec3) AABB {
	return AABB{Position: pos, Extent: mgl32.Vec3{1, 1, 1}}
}

// FromCorners строит AABB по двум произвольным противоположным углам
func FromCorners(a, b mgl32.Vec3) AABB {
	lo := mgl32.Vec3{min32(a[0], b[0]), min32(a[1], b[1]), min32(a[2], b[2])}
	hi := mgl32.Vec3{max32(a[0], b[0]), max32(a[1], b[1]), max32(a[2], b[2])}
	return AABB{Position: lo, Extent: hi.Sub(lo)}
}

// FromRanges собирает AABB из интервалов по осям
func FromRanges(r vec.Triple[Range]) AABB {
	var box AABB
	for _, a := range vec.Axes {
		box.Position[a] = r[a].Start
		box.Extent[a] = r[a].Len()
	}
	return box
}

// Valid проверяет, что все компоненты размера неотрицательны
func (b AABB) Valid() bool {
	for _, a := range vec.Axes {
		if !(b.Extent[a] >= 0) {
			return false
		}
	}
	return true
}

// Min возвращает минимальный угол
func (b AABB) Min() mgl32.Vec3 {
	return b.Position
}

// Max возвращает максимальный угол
func (b AABB) Max() mgl32.Vec3 {
	return b.Position.Add(b.Extent)
}

// Center возвращает центр, одинаково по всем трём осям
func (b AABB) Center() mgl32.Vec3 {
	return b.Position.Add(b.Extent.Mul(0.5))
}

// Axis возвращает интервал [min, max] по оси
func (b AABB) Axis(a vec.Axis) Range {
	return Range{Start: b.Position[a], End: b.Position[a] + b.Extent[a]}
}

// SplitOnAxis возвращает половину коробки по оси: верхнюю при positive,
// иначе нижнюю. Остальные оси не меняются.
func (b AABB) SplitOnAxis(axis vec.Axis, positive bool) AABB {
	out := b
	out.Extent[axis] = b.Extent[axis] / 2
	if positive {
		out.Position[axis] += out.Extent[axis]
	}
	return out
}

// SplitY делит коробку на нижнюю и верхнюю половины
func (b AABB) SplitY() (AABB, AABB) {
	return b.SplitOnAxis(vec.Y, false), b.SplitOnAxis(vec.Y, true)
}

// Expanded симметрично расширяет коробку на amount (по половине с каждой стороны)
func (b AABB) Expanded(amount mgl32.Vec3) AABB {
	return AABB{
		Position: b.Position.Sub(amount.Mul(0.5)),
		Extent:   b.Extent.Add(amount),
	}
}

// Intersect возвращает пересечение интервалов по каждой оси.
// Для непересекающихся коробок размер получается отрицательным.
func (b AABB) Intersect(other AABB) AABB {
	return FromRanges(vec.MapAxis[Range, Range](b, func(a vec.Axis, r Range) Range {
		o := other.Axis(a)
		return Range{Start: max32(r.Start, o.Start), End: min32(r.End, o.End)}
	}))
}

// crossSection - площадь сечения, перпендикулярного оси
func (b AABB) crossSection(axis vec.Axis) float32 {
	area := float32(1)
	for _, other := range axis.Rest() {
		area *= abs32(b.Axis(other).Len())
	}
	return area
}

// Areas возвращает площади сечений: по оси A - произведение размеров двух других осей
func (b AABB) Areas() mgl32.Vec3 {
	return mgl32.Vec3(vec.Generate(b.crossSection))
}

// DominantAxis возвращает ось с наибольшей площадью сечения.
// Побеждает первая ось, строго превысившая текущий максимум.
func (b AABB) DominantAxis() vec.Axis {
	best := float32(0)
	ret := vec.X
	for _, a := range vec.Axes {
		if area := b.crossSection(a); area > best {
			best = area
			ret = a
		}
	}
	return ret
}

// Voxels перечисляет целочисленные координаты вокселей, которые задевает коробка.
// Нижняя граница округляется вниз и не меньше нуля, верхняя - вверх.
// Порядок: X внешний цикл, затем Y, затем Z. Последовательность можно обходить повторно.
func (b AABB) Voxels() iter.Seq[vec.Vec3] {
	lo := b.Min()
	hi := b.Max()
	minX, minY, minZ := lowVoxel(lo[0]), lowVoxel(lo[1]), lowVoxel(lo[2])
	maxX, maxY, maxZ := int(ceil32(hi[0])), int(ceil32(hi[1])), int(ceil32(hi[2]))

	return func(yield func(vec.Vec3) bool) {
		for x := minX; x < maxX; x++ {
			for y := minY; y < maxY; y++ {
				for z := minZ; z < maxZ; z++ {
					if !yield(vec.Vec3{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}

func lowVoxel(v float32) int {
	f := floor32(v)
	if f < 0 {
		return 0
	}
	return int(f)
}

func (b AABB) String() string {
	return fmt.Sprintf("AABB(%v, %v)", b.Position, b.Extent)
}
