package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxelcore/internal/vec"
)

// Bound3D - коробка из независимых интервалов по осям, возможно открытых в бесконечность
type Bound3D struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

var _ vec.AxisAccess[Range] = Bound3D{}

// NoBound - нейтральный элемент пересечения: (-inf, +inf) по всем осям
var NoBound = Bound3D{
	Min: mgl32.Vec3{negInf, negInf, negInf},
	Max: mgl32.Vec3{posInf, posInf, posInf},
}

// BoundFromRanges собирает Bound3D из интервалов по осям
func BoundFromRanges(r vec.Triple[Range]) Bound3D {
	var b Bound3D
	for _, a := range vec.Axes {
		b.Min[a] = r[a].Start
		b.Max[a] = r[a].End
	}
	return b
}

// Axis возвращает интервал по оси
func (b Bound3D) Axis(a vec.Axis) Range {
	return Range{Start: b.Min[a], End: b.Max[a]}
}

// Limit сужает интервал оси пересечением с r. Бесконечные концы r
// ничего не ограничивают, так что (-inf, +inf) ничего не меняет.
func (b *Bound3D) Limit(axis vec.Axis, r Range) {
	if r.BoundedBelow() {
		b.Min[axis] = max32(b.Min[axis], r.Start)
	}
	if r.BoundedAbove() {
		b.Max[axis] = min32(b.Max[axis], r.End)
	}
}

// MergeAxis переносит ограничение одной оси из other
func (b *Bound3D) MergeAxis(axis vec.Axis, other Bound3D) {
	b.Limit(axis, other.Axis(axis))
}

// IntersectWith сужает границу пересечением с other по всем осям
func (b *Bound3D) IntersectWith(other Bound3D) {
	for _, a := range vec.Axes {
		b.MergeAxis(a, other)
	}
}

// Intersect возвращает пересечение двух границ; интервалы только сужаются
func (b Bound3D) Intersect(other Bound3D) Bound3D {
	b.IntersectWith(other)
	return b
}

// ShrinkBy переводит границу для блоков в границу для центра основания сущности.
// extent[0] - ширина, extent[1] - высота. X и Z сужаются на радиус с обеих сторон,
// Y - только сверху на высоту.
func (b Bound3D) ShrinkBy(extent mgl32.Vec2) Bound3D {
	radius := extent[0] / 2
	height := extent[1]
	return BoundFromRanges(vec.MapAxis[Range, Range](b, func(a vec.Axis, r Range) Range {
		if a == vec.Y {
			return Range{Start: r.Start, End: r.End - height}
		}
		return Range{Start: r.Start + radius, End: r.End - radius}
	}))
}

// Apply прижимает точку к границе. Ось зажимается только если min < max,
// вырожденный или перевёрнутый интервал пропускает значение как есть.
func (b Bound3D) Apply(p mgl32.Vec3) mgl32.Vec3 {
	out := p
	for _, a := range vec.Axes {
		lo, hi := b.Min[a], b.Max[a]
		if lo < hi {
			out[a] = mgl32.Clamp(p[a], lo, hi)
		}
	}
	return out
}

// OutOfBound сообщает, лежит ли хотя бы одна координата строго вне [min, max]
func (b Bound3D) OutOfBound(p mgl32.Vec3) bool {
	for _, a := range vec.Axes {
		if p[a] < b.Min[a] || p[a] > b.Max[a] {
			return true
		}
	}
	return false
}

// FromBlockProximity строит границу, которую блок target ставит сущности с центром center.
// По знаку target+0.5-center на каждой оси решается, с какой стороны стоит стена;
// при нулевой разнице ось не ограничивается.
func FromBlockProximity(center, target mgl32.Vec3) Bound3D {
	return BoundFromRanges(vec.Generate(func(a vec.Axis) Range {
		diff := target[a] + 0.5 - center[a]
		switch {
		case diff > 0:
			// блок выше по оси: стена ограничивает сверху
			return To(target[a])
		case diff < 0:
			return From(target[a] + 1)
		default:
			return Unbounded()
		}
	}))
}

func (b Bound3D) String() string {
	return fmt.Sprintf("Bound(%v, %v, %v)", b.Axis(vec.X), b.Axis(vec.Y), b.Axis(vec.Z))
}
