package world

import (
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxelcore/internal/vec"
)

// epsilon - машинный эпсилон float32
const epsilon = float32(1.1920929e-7)

var posInf = float32(math.Inf(1))

// BlockIterResult - очередная ячейка на луче
type BlockIterResult struct {
	Position  vec.Vec3    // Мировые координаты ячейки
	Direction [3]vec.Trit // По каким осям и в какую сторону был сделан шаг
	Length    float32     // Пройденное по лучу расстояние
}

// Location раскладывает позицию результата на чанк и позицию внутри него
func (r BlockIterResult) Location(size MapSize) (ChunkPos, BlockSubPos, bool) {
	return size.ConvertPos(r.Position)
}

func (r BlockIterResult) String() string {
	return fmt.Sprintf("%v [%v%v%v] @%g", r.Position, r.Direction[0], r.Direction[1], r.Direction[2], r.Length)
}

// BlockIter обходит ячейки сетки вдоль луча (DDA). Итератор одноразовый
// и не должен использоваться из нескольких горутин.
type BlockIter struct {
	size       MapSize
	position   vec.Vec3
	nextOffset mgl32.Vec3 // Расстояние по лучу до следующей границы по каждой оси
	delta      mgl32.Vec3 // Расстояние по лучу на одну ячейку (бесконечность для нулевой компоненты)
	length     float32
	done       bool
}

// NewBlockIter создаёт обход луча из start в направлении direction.
// Нулевое направление или луч, не попадающий в мир, дают пустой обход.
func NewBlockIter(size MapSize, start, direction mgl32.Vec3) *BlockIter {
	it := &BlockIter{size: size, done: true}

	l := direction.Len()
	if l == 0 || isNaN32(l) || math.IsInf(float64(l), 0) {
		return it
	}
	direction = direction.Mul(1 / l)

	origin, length, ok := originPoint(size, start, direction)
	if !ok {
		return it
	}

	it.nextOffset, it.delta = nextOffsetDelta(origin, direction)
	it.position = finePosition(origin, direction)
	it.length = length
	it.done = false
	return it
}

// Done сообщает, что обход закончен
func (it *BlockIter) Done() bool {
	return it.done
}

// Next делает один шаг. false, когда луч покинул мир или изначально в него не попал.
func (it *BlockIter) Next() (BlockIterResult, bool) {
	if it.done {
		return BlockIterResult{}, false
	}

	axis := vec.SortAxes(vec.Triple[float32](it.nextOffset), func(a, b float32) bool { return a < b })[0]
	dir := it.step(it.nextOffset[axis])

	if !insideWorld(it.size, it.position) {
		it.done = true
		return BlockIterResult{}, false
	}
	return BlockIterResult{Position: it.position, Direction: dir, Length: it.length}, true
}

// All возвращает оставшуюся часть обхода как последовательность
func (it *BlockIter) All() iter.Seq[BlockIterResult] {
	return func(yield func(BlockIterResult) bool) {
		for {
			r, ok := it.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}

// step продвигает луч на time. Все оси, чья граница достигнута, делают шаг.
func (it *BlockIter) step(time float32) [3]vec.Trit {
	it.length += time

	var dir [3]vec.Trit
	for _, a := range vec.Axes {
		vel := it.delta[a]
		if isInf32(vel) {
			continue
		}
		next := it.nextOffset[a] - time
		if next < epsilon {
			it.nextOffset[a] = abs32(vel)
			if vel > 0 {
				it.position.SetAxis(a, it.position.Axis(a)+1)
			} else {
				it.position.SetAxis(a, it.position.Axis(a)-1)
			}
			dir[a] = vec.TritFromBool(vel > 0)
		} else {
			it.nextOffset[a] = next
		}
	}
	return dir
}

// originInside - принадлежность замкнутому объёму мира
func originInside(size MapSize, p mgl32.Vec3) bool {
	ws := size.WorldSize().Vec3f()
	for _, a := range vec.Axes {
		if p[a] < 0 || p[a] > ws[a] {
			return false
		}
	}
	return true
}

// insideWorld - принадлежность ячейки миру (полуоткрытые границы)
func insideWorld(size MapSize, p vec.Vec3) bool {
	ws := size.WorldSize()
	for _, a := range vec.Axes {
		if v := p.Axis(a); v < 0 || v >= ws.Axis(a) {
			return false
		}
	}
	return true
}

// mergeRange пересекает интервал параметра луча с интервалом одной оси.
// false, если пересечение пусто с точностью до эпсилона.
func mergeRange(start, end *float32, lo, hi float32) bool {
	if hi-*start > epsilon && *end-lo > epsilon {
		*start = max32(*start, lo)
		*end = min32(*end, hi)
		return true
	}
	return false
}

// originPoint находит точку входа луча в мир методом пластин.
// Оси обрабатываются по убыванию модуля направления.
func originPoint(size MapSize, p, dir mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	if originInside(size, p) {
		return p, 0, true
	}

	ws := size.WorldSize().Vec3f()
	start, end := -posInf, posInf
	order := vec.SortAxes(vec.Triple[float32](dir), func(a, b float32) bool { return abs32(a) > abs32(b) })
	for _, a := range order {
		base := p[a]
		inv := 1 / dir[a]
		t0, t1 := -base*inv, (ws[a]-base)*inv
		if !mergeRange(&start, &end, min32(t0, t1), max32(t0, t1)) {
			return mgl32.Vec3{}, 0, false
		}
	}
	if start > 0 {
		return p.Add(dir.Mul(start)), start, true
	}
	return mgl32.Vec3{}, 0, false
}

// finePosition переводит точку входа в ячейку. Точка на границе сетки
// при отрицательном направлении относится к нижней ячейке.
func finePosition(origin, dir mgl32.Vec3) vec.Vec3 {
	return vec.FromTriple(vec.Generate(func(a vec.Axis) int {
		v := origin[a]
		f := float32(math.Floor(float64(v)))
		if dir[a] < 0 && v == f {
			return int(f) - 1
		}
		return int(f)
	}))
}

// nextOffsetDelta считает расстояние до ближайшей границы и шаг по каждой оси.
// Для нулевой компоненты направления ось никогда не пересекается.
func nextOffsetDelta(origin, dir mgl32.Vec3) (offset, delta mgl32.Vec3) {
	for _, a := range vec.Axes {
		d := dir[a]
		delta[a] = 1 / d
		if d == 0 {
			offset[a] = posInf
			continue
		}
		p := origin[a]
		f := float32(math.Floor(float64(p)))
		var next float32
		switch {
		case d > 0:
			next = float32(math.Ceil(float64(p)))
		case p == f:
			next = p - 1
		default:
			next = f
		}
		offset[a] = (next - p) * delta[a]
	}
	return offset, delta
}

func isNaN32(v float32) bool {
	return v != v
}

func isInf32(v float32) bool {
	return math.IsInf(float64(v), 0)
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

// max32/min32 игнорируют NaN в одном из аргументов
func max32(a, b float32) float32 {
	switch {
	case isNaN32(a):
		return b
	case isNaN32(b):
		return a
	case a > b:
		return a
	default:
		return b
	}
}

func min32(a, b float32) float32 {
	switch {
	case isNaN32(a):
		return b
	case isNaN32(b):
		return a
	case a < b:
		return a
	default:
		return b
	}
}
