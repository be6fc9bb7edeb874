package world

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelcore/internal/world/block"
)

func TestSubPosRoundTrip(t *testing.T) {
	for _, c := range [][3]int{{0, 0, 0}, {7, 0, 0}, {0, 63, 0}, {0, 0, 7}, {3, 17, 5}, {7, 63, 7}} {
		p, err := NewSubPos(c[0], c[1], c[2])
		require.NoError(t, err)
		x, y, z := p.XYZ()
		assert.Equal(t, c, [3]int{x, y, z})
	}

	// линейный индекс x + W*(z + W*y)
	assert.Equal(t, 1+Width*(2+Width*3), MustSubPos(1, 3, 2).Index())
	assert.Equal(t, "(1, 3, 2)", MustSubPos(1, 3, 2).String())
}

func TestSubPosOutOfRange(t *testing.T) {
	for _, c := range [][3]int{{8, 0, 0}, {0, 64, 0}, {0, 0, 8}, {-1, 0, 0}} {
		_, err := NewSubPos(c[0], c[1], c[2])
		assert.True(t, errors.Is(err, ErrOutOfRange), "координаты %v должны давать ошибку диапазона", c)
	}
	assert.Panics(t, func() { MustSubPos(0, Height, 0) })
}

func TestSubPosNeighbor(t *testing.T) {
	p := MustSubPos(3, 10, 4)

	n, ok := p.Neighbor(North)
	require.True(t, ok)
	assert.Equal(t, MustSubPos(3, 10, 3), n)

	n, ok = p.Neighbor(Up)
	require.True(t, ok)
	assert.Equal(t, MustSubPos(3, 11, 4), n)

	_, ok = MustSubPos(0, 0, 0).Neighbor(West)
	assert.False(t, ok)
	_, ok = MustSubPos(0, 0, 0).Neighbor(Down)
	assert.False(t, ok)
	_, ok = MustSubPos(7, 63, 7).Neighbor(East)
	assert.False(t, ok)
	_, ok = MustSubPos(7, 63, 7).Neighbor(Up)
	assert.False(t, ok)
	_, ok = MustSubPos(7, 63, 7).Neighbor(South)
	assert.False(t, ok)
}

func TestChunkSetGetAndDirty(t *testing.T) {
	c := NewChunk()
	assert.True(t, c.Dirty(), "новый чанк должен быть помечен изменённым")
	c.MarkClean()
	assert.False(t, c.Dirty())

	p := MustSubPos(1, 2, 3)
	assert.Equal(t, block.None, c.Get(p))
	_, ok := c.Block(p)
	assert.False(t, ok)

	c.Set(p, block.Red)
	assert.True(t, c.Dirty(), "запись помечает чанк изменённым")
	d, ok := c.Block(p)
	require.True(t, ok)
	assert.Equal(t, "red", d.Name)
}

func TestChunkIterators(t *testing.T) {
	c := NewChunk()
	c.Set(MustSubPos(0, 0, 0), block.Green)
	c.Set(MustSubPos(1, 5, 2), block.Blue)

	count := 0
	for range c.All() {
		count++
	}
	assert.Equal(t, ChunkSize, count)

	solid := map[BlockSubPos]block.Color{}
	for p, color := range c.Solid() {
		solid[p] = color
	}
	assert.Equal(t, map[BlockSubPos]block.Color{
		MustSubPos(0, 0, 0): block.ColorGreen,
		MustSubPos(1, 5, 2): block.ColorBlue,
	}, solid)
	assert.Equal(t, 2, c.Count())

	// запись в теле цикла не блокируется
	for p := range c.Solid() {
		c.Set(p, block.None)
	}
	assert.Equal(t, 0, c.Count())
}

func TestChunkFill(t *testing.T) {
	c := NewChunk()
	c.MarkClean()
	c.Fill(func(p BlockSubPos) block.ID {
		if _, y, _ := p.XYZ(); y == 0 {
			return block.Aqua
		}
		return block.None
	})
	assert.True(t, c.Dirty())
	assert.Equal(t, Width*Width, c.Count())
}

func TestChunkConcurrentAccess(t *testing.T) {
	c := NewChunk()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set(MustSubPos(i, i, i), block.Yellow)
		}()
		go func() {
			defer wg.Done()
			_ = c.Count()
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, c.Count())
}

func TestMaxFaceCount(t *testing.T) {
	assert.Equal(t, 3*8*8*64+8*8+2*8*64, MaxFaceCount())
}

func BenchmarkChunkSolid(b *testing.B) {
	c := mustFlat(b).Generate(ChunkPos{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range c.Solid() {
		}
	}
}

func mustFlat(tb testing.TB) *FlatGenerator {
	tb.Helper()
	g, err := NewFlatGenerator(Layer{Block: block.Green, Count: 1}, Layer{Block: block.Red, Count: 3})
	require.NoError(tb, err)
	return g
}
