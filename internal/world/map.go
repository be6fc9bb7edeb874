package world

import (
	"context"
	"fmt"
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"github.com/annel0/voxelcore/internal/geom"
	"github.com/annel0/voxelcore/internal/logging"
	"github.com/annel0/voxelcore/internal/vec"
	"github.com/annel0/voxelcore/internal/world/block"
)

// MaxMapSide - наибольший размер карты в чанках по одной стороне
const MaxMapSide = 255

// MapSize - размер карты в чанках по X и Z
type MapSize struct {
	width  int
	height int
}

// NewMapSize проверяет размер карты (1..255 по каждой стороне)
func NewMapSize(width, height int) (MapSize, error) {
	if width < 1 || width > MaxMapSide || height < 1 || height > MaxMapSide {
		return MapSize{}, fmt.Errorf("map size %dx%d: %w", width, height, ErrInvalidSize)
	}
	return MapSize{width: width, height: height}, nil
}

// MustMapSize как NewMapSize, но паникует на неверном размере
func MustMapSize(width, height int) MapSize {
	s, err := NewMapSize(width, height)
	if err != nil {
		panic(err)
	}
	return s
}

// Width возвращает число чанков по X
func (s MapSize) Width() int { return s.width }

// Height возвращает число чанков по Z
func (s MapSize) Height() int { return s.height }

// ChunkCount возвращает общее число чанков
func (s MapSize) ChunkCount() int { return s.width * s.height }

// WorldSize возвращает размер мира в блоках
func (s MapSize) WorldSize() vec.Vec3 {
	return vec.Vec3{X: s.width * Width, Y: Height, Z: s.height * Width}
}

// Bound возвращает границу мира [0, W*8] x [0, 64] x [0, H*8]
func (s MapSize) Bound() geom.Bound3D {
	ws := s.WorldSize()
	return geom.Bound3D{Max: ws.Vec3f()}
}

// Contains проверяет, что чанк лежит внутри карты
func (s MapSize) Contains(pos ChunkPos) bool {
	return pos.X >= 0 && pos.X < s.width && pos.Z >= 0 && pos.Z < s.height
}

func (s MapSize) index(pos ChunkPos) (int, error) {
	if !s.Contains(pos) {
		return 0, fmt.Errorf("chunk %v in %v: %w", pos, s, ErrOutOfRange)
	}
	return pos.Z*s.width + pos.X, nil
}

func (s MapSize) posAt(i int) ChunkPos {
	return ChunkPos{X: i % s.width, Z: i / s.width}
}

// ConvertPos раскладывает мировую позицию блока на чанк и позицию внутри него.
// false, если позиция вне мира.
func (s MapSize) ConvertPos(p vec.Vec3) (ChunkPos, BlockSubPos, bool) {
	if p.X < 0 || p.Y < 0 || p.Z < 0 || p.Y >= Height {
		return ChunkPos{}, 0, false
	}
	cp := ChunkPos{X: p.X / Width, Z: p.Z / Width}
	if !s.Contains(cp) {
		return ChunkPos{}, 0, false
	}
	return cp, subPosUnchecked(p.X%Width, p.Y, p.Z%Width), true
}

// ConvertPosWithOffset возвращает ячейку перед гранью, через которую луч вошёл в блок p.
// dir - флаги шага из результата BlockIter.
func (s MapSize) ConvertPosWithOffset(p vec.Vec3, dir [3]vec.Trit) (ChunkPos, BlockSubPos, bool) {
	var back [3]vec.Trit
	for _, a := range vec.Axes {
		back[a] = -dir[a]
	}
	return s.ConvertPos(p.Offset(back))
}

func (s MapSize) String() string {
	return fmt.Sprintf("%dx%d", s.width, s.height)
}

// ChunkPos - координаты чанка на карте
type ChunkPos struct {
	X int
	Z int
}

// Neighbor возвращает соседний чанк; false на краю карты
func (p ChunkPos) Neighbor(size MapSize, n ChunkNeighbor) (ChunkPos, bool) {
	dx, dz := n.Offset()
	next := ChunkPos{X: p.X + dx, Z: p.Z + dz}
	if !size.Contains(next) {
		return ChunkPos{}, false
	}
	return next, true
}

// WorldPos переводит позицию внутри чанка в мировые координаты блока
func (p ChunkPos) WorldPos(sub BlockSubPos) vec.Vec3 {
	x, y, z := sub.XYZ()
	return vec.Vec3{X: p.X*Width + x, Y: y, Z: p.Z*Width + z}
}

func (p ChunkPos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Z)
}

// Map - сетка чанков фиксированного размера. Набор чанков не меняется
// после создания, блоки внутри меняются через Place/Break.
type Map struct {
	size   MapSize
	chunks []*Chunk
}

// NewMap создаёт карту, вызывая генератор один раз на каждый чанк.
// Generate вызывается параллельно для разных чанков.
func NewMap(ctx context.Context, size MapSize, gen Generator) (*Map, error) {
	if size.ChunkCount() == 0 {
		return nil, fmt.Errorf("new map: %w", ErrInvalidSize)
	}
	gen.Init(size)

	m := &Map{
		size:   size,
		chunks: make([]*Chunk, size.ChunkCount()),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range m.chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pos := size.posAt(i)
			c := gen.Generate(pos)
			if c == nil {
				return fmt.Errorf("generate chunk %v: nil chunk", pos)
			}
			m.chunks[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("new map %v: %w", size, err)
	}

	logging.Info("🗺️ Карта %v создана (%d чанков)", size, size.ChunkCount())
	return m, nil
}

// Size возвращает размер карты
func (m *Map) Size() MapSize {
	return m.size
}

// Bound возвращает границу мира
func (m *Map) Bound() geom.Bound3D {
	return m.size.Bound()
}

// InRange проверяет, что чанк лежит внутри карты
func (m *Map) InRange(pos ChunkPos) bool {
	return m.size.Contains(pos)
}

// Chunk возвращает чанк по координатам
func (m *Map) Chunk(pos ChunkPos) (*Chunk, error) {
	i, err := m.size.index(pos)
	if err != nil {
		return nil, err
	}
	return m.chunks[i], nil
}

// Chunks перечисляет все чанки в порядке строк (X быстрее Z)
func (m *Map) Chunks() iter.Seq2[ChunkPos, *Chunk] {
	return func(yield func(ChunkPos, *Chunk) bool) {
		for i, c := range m.chunks {
			if !yield(m.size.posAt(i), c) {
				return
			}
		}
	}
}

// NeighborChunk возвращает соседний чанк; false на краю карты
func (m *Map) NeighborChunk(pos ChunkPos, n ChunkNeighbor) (ChunkPos, bool) {
	return pos.Neighbor(m.size, n)
}

// Neighbors перечисляет существующих соседей чанка
func (m *Map) Neighbors(pos ChunkPos) iter.Seq2[ChunkPos, *Chunk] {
	return func(yield func(ChunkPos, *Chunk) bool) {
		for _, n := range ChunkNeighbors {
			next, ok := pos.Neighbor(m.size, n)
			if !ok {
				continue
			}
			i, _ := m.size.index(next)
			if !yield(next, m.chunks[i]) {
				return
			}
		}
	}
}

func (m *Map) locate(p vec.Vec3) (*Chunk, BlockSubPos, error) {
	cp, sub, ok := m.size.ConvertPos(p)
	if !ok {
		return nil, 0, fmt.Errorf("block %v: %w", p, ErrOutOfRange)
	}
	i, _ := m.size.index(cp)
	return m.chunks[i], sub, nil
}

// Block возвращает дескриптор блока; false для пустой ячейки или позиции вне мира
func (m *Map) Block(p vec.Vec3) (*block.Descriptor, bool) {
	c, sub, err := m.locate(p)
	if err != nil {
		return nil, false
	}
	return c.Block(sub)
}

// Place ставит блок и помечает чанк изменённым
func (m *Map) Place(p vec.Vec3, id block.ID) error {
	if !block.IsValid(id) {
		return fmt.Errorf("place %v: unknown block %d", p, id)
	}
	c, sub, err := m.locate(p)
	if err != nil {
		return fmt.Errorf("place: %w", err)
	}
	c.Set(sub, id)
	return nil
}

// Break убирает блок и помечает чанк изменённым
func (m *Map) Break(p vec.Vec3) error {
	c, sub, err := m.locate(p)
	if err != nil {
		return fmt.Errorf("break: %w", err)
	}
	c.Set(sub, block.None)
	return nil
}

// ScanAABB перечисляет занятые ячейки внутри коробки. Ячейки вне мира
// пропускаются без ошибки.
func (m *Map) ScanAABB(box geom.AABB) iter.Seq2[vec.Vec3, *block.Descriptor] {
	return func(yield func(vec.Vec3, *block.Descriptor) bool) {
		for p := range box.Voxels() {
			c, sub, err := m.locate(p)
			if err != nil {
				continue
			}
			d, ok := c.Block(sub)
			if !ok {
				continue
			}
			if !yield(p, d) {
				return
			}
		}
	}
}

// Solid сообщает, занята ли ячейка, содержащая точку
func (m *Map) Solid(p mgl32.Vec3) bool {
	d, ok := m.Block(vec.Floor(p))
	return ok && d.Solid()
}
