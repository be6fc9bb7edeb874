package world

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelcore/internal/geom"
	"github.com/annel0/voxelcore/internal/vec"
	"github.com/annel0/voxelcore/internal/world/block"
)

// countingGenerator запоминает, для каких чанков вызывался Generate
type countingGenerator struct {
	mu    sync.Mutex
	size  MapSize
	calls map[ChunkPos]int
}

func (g *countingGenerator) Init(size MapSize) {
	g.size = size
	g.calls = map[ChunkPos]int{}
}

func (g *countingGenerator) Generate(pos ChunkPos) *Chunk {
	g.mu.Lock()
	g.calls[pos]++
	g.mu.Unlock()
	return NewChunk()
}

func newFloorMap(t *testing.T, w, h int) *Map {
	t.Helper()
	m, err := NewMap(context.Background(), MustMapSize(w, h), mustFlat(t))
	require.NoError(t, err)
	return m
}

func TestMapSizeValidation(t *testing.T) {
	for _, c := range [][2]int{{0, 1}, {1, 0}, {256, 1}, {-3, 2}} {
		_, err := NewMapSize(c[0], c[1])
		assert.True(t, errors.Is(err, ErrInvalidSize), "размер %v", c)
	}
	s, err := NewMapSize(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, s.ChunkCount())
	assert.Equal(t, vec.Vec3{X: 16, Y: 64, Z: 24}, s.WorldSize())

	b := s.Bound()
	assert.Equal(t, geom.Span(0, 16), b.Axis(vec.X))
	assert.Equal(t, geom.Span(0, 64), b.Axis(vec.Y))
	assert.Equal(t, geom.Span(0, 24), b.Axis(vec.Z))
}

func TestNewMapGeneratesEveryChunkOnce(t *testing.T) {
	gen := &countingGenerator{}
	m, err := NewMap(context.Background(), MustMapSize(3, 2), gen)
	require.NoError(t, err)

	assert.Equal(t, MustMapSize(3, 2), gen.size)
	assert.Len(t, gen.calls, 6)
	for pos, n := range gen.calls {
		assert.Equal(t, 1, n, "чанк %v должен генерироваться ровно один раз", pos)
	}

	var order []ChunkPos
	for pos, c := range m.Chunks() {
		require.NotNil(t, c)
		order = append(order, pos)
	}
	assert.Equal(t, []ChunkPos{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}, order)
}

func TestNewMapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMap(ctx, MustMapSize(2, 2), EmptyGenerator{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapChunkOutOfRange(t *testing.T) {
	m := newFloorMap(t, 2, 2)

	_, err := m.Chunk(ChunkPos{X: 1, Z: 1})
	assert.NoError(t, err)

	_, err = m.Chunk(ChunkPos{X: 2, Z: 0})
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Chunk(ChunkPos{X: 0, Z: -1})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestChunkNeighbors(t *testing.T) {
	m := newFloorMap(t, 3, 3)

	_, ok := m.NeighborChunk(ChunkPos{0, 0}, NeighborWest)
	assert.False(t, ok)
	_, ok = m.NeighborChunk(ChunkPos{0, 0}, NeighborNorth)
	assert.False(t, ok)
	n, ok := m.NeighborChunk(ChunkPos{0, 0}, NeighborEast)
	require.True(t, ok)
	assert.Equal(t, ChunkPos{1, 0}, n)
	_, ok = m.NeighborChunk(ChunkPos{2, 2}, NeighborSouth)
	assert.False(t, ok)

	var around []ChunkPos
	for pos := range m.Neighbors(ChunkPos{1, 1}) {
		around = append(around, pos)
	}
	assert.Equal(t, []ChunkPos{{1, 0}, {1, 2}, {2, 1}, {0, 1}}, around)

	around = around[:0]
	for pos := range m.Neighbors(ChunkPos{0, 0}) {
		around = append(around, pos)
	}
	assert.Equal(t, []ChunkPos{{0, 1}, {1, 0}}, around)
}

func TestConvertPos(t *testing.T) {
	s := MustMapSize(2, 2)

	cp, sub, ok := s.ConvertPos(vec.Vec3{X: 9, Y: 5, Z: 3})
	require.True(t, ok)
	assert.Equal(t, ChunkPos{X: 1, Z: 0}, cp)
	assert.Equal(t, MustSubPos(1, 5, 3), sub)
	assert.Equal(t, vec.Vec3{X: 9, Y: 5, Z: 3}, cp.WorldPos(sub))

	for _, p := range []vec.Vec3{{X: 16}, {Y: 64}, {Z: -1}, {X: -1}} {
		_, _, ok := s.ConvertPos(p)
		assert.False(t, ok, "позиция %v вне мира", p)
	}

	// луч вошёл в блок шагом +X, значит ставим блок слева от него
	cp, sub, ok = s.ConvertPosWithOffset(vec.Vec3{X: 8, Y: 1, Z: 1}, [3]vec.Trit{vec.TritPos, vec.TritZero, vec.TritZero})
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 7, Y: 1, Z: 1}, cp.WorldPos(sub))

	_, _, ok = s.ConvertPosWithOffset(vec.Vec3{X: 0, Y: 63, Z: 0}, [3]vec.Trit{vec.TritZero, vec.TritNeg, vec.TritZero})
	assert.False(t, ok, "грань на потолке мира ведёт наружу")
}

func TestMapPlaceBreak(t *testing.T) {
	m := newFloorMap(t, 2, 2)
	p := vec.Vec3{X: 12, Y: 10, Z: 3}

	c, err := m.Chunk(ChunkPos{X: 1, Z: 0})
	require.NoError(t, err)
	c.MarkClean()

	require.NoError(t, m.Place(p, block.Purple))
	d, ok := m.Block(p)
	require.True(t, ok)
	assert.Equal(t, block.Purple, d.ID)
	assert.True(t, c.Dirty(), "изменение блока помечает чанк")

	require.NoError(t, m.Break(p))
	_, ok = m.Block(p)
	assert.False(t, ok)

	assert.ErrorIs(t, m.Place(vec.Vec3{X: 16}, block.Red), ErrOutOfRange)
	assert.ErrorIs(t, m.Break(vec.Vec3{Y: -1}), ErrOutOfRange)
	assert.Error(t, m.Place(p, block.None))
}

func TestScanAABB(t *testing.T) {
	m := newFloorMap(t, 1, 1)

	// коробка выходит за мир: ячейки снаружи пропускаются
	box := geom.AABB{Position: mgl32.Vec3{-2, -1, 6.5}, Extent: mgl32.Vec3{3, 1.5, 3}}
	got := map[vec.Vec3]block.ID{}
	for p, d := range m.ScanAABB(box) {
		got[p] = d.ID
	}
	assert.Equal(t, map[vec.Vec3]block.ID{
		{X: 0, Y: 0, Z: 6}: block.Green,
		{X: 0, Y: 0, Z: 7}: block.Green,
	}, got)

	// над полом ничего нет
	empty := geom.AABB{Position: mgl32.Vec3{2, 4.5, 2}, Extent: mgl32.Vec3{1, 1, 1}}
	for range m.ScanAABB(empty) {
		t.Fatal("в пустой области не должно быть блоков")
	}
}

func TestMapSolid(t *testing.T) {
	m := newFloorMap(t, 1, 1)
	assert.True(t, m.Solid(mgl32.Vec3{0.5, 0.5, 0.5}))
	assert.True(t, m.Solid(mgl32.Vec3{0.5, 3.9, 0.5}))
	assert.False(t, m.Solid(mgl32.Vec3{0.5, 4, 0.5}))
	assert.False(t, m.Solid(mgl32.Vec3{-0.5, 0.5, 0.5}))
}

func BenchmarkScanAABB(b *testing.B) {
	m, err := NewMap(context.Background(), MustMapSize(2, 2), mustFlat(b))
	require.NoError(b, err)
	box := geom.AABB{Position: mgl32.Vec3{3.6, 3.5, 3.6}, Extent: mgl32.Vec3{0.8, 1.5, 0.8}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range m.ScanAABB(box) {
		}
	}
}
