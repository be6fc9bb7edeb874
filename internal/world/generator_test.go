package world

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelcore/internal/world/block"
)

func TestEmptyGenerator(t *testing.T) {
	m, err := NewMap(context.Background(), MustMapSize(2, 1), EmptyGenerator{})
	require.NoError(t, err)
	for _, c := range m.Chunks() {
		assert.Equal(t, 0, c.Count())
		assert.True(t, c.Dirty())
	}
}

func TestFlatGeneratorLayers(t *testing.T) {
	g, err := NewFlatGenerator(
		Layer{Block: block.Blue, Count: 2},
		Layer{Block: block.None, Count: 1},
		Layer{Block: block.Yellow, Count: 1},
	)
	require.NoError(t, err)

	c := g.Generate(ChunkPos{})
	for _, y := range []int{0, 1} {
		assert.Equal(t, block.Blue, c.Get(MustSubPos(4, y, 4)))
	}
	assert.Equal(t, block.None, c.Get(MustSubPos(4, 2, 4)))
	assert.Equal(t, block.Yellow, c.Get(MustSubPos(4, 3, 4)))
	assert.Equal(t, block.None, c.Get(MustSubPos(4, 4, 4)))
	assert.Equal(t, 3*Width*Width, c.Count())
}

func TestFlatGeneratorTooManyLayers(t *testing.T) {
	_, err := NewFlatGenerator(Layer{Block: block.Red, Count: 200}, Layer{Block: block.Red, Count: 56})
	assert.ErrorIs(t, err, ErrTooManyLayers)

	_, err = NewFlatGenerator(Layer{Block: block.Red, Count: 255})
	assert.NoError(t, err)
}

func TestNoiseGeneratorDeterministic(t *testing.T) {
	size := MustMapSize(2, 2)
	a, err := NewMap(context.Background(), size, NewNoiseGenerator(1234, 0.03, 0.07))
	require.NoError(t, err)
	b, err := NewMap(context.Background(), size, NewNoiseGenerator(1234, 0.03, 0.07))
	require.NoError(t, err)

	for pos, ca := range a.Chunks() {
		cb, err := b.Chunk(pos)
		require.NoError(t, err)
		for p, id := range ca.All() {
			if cb.Get(p) != id {
				t.Fatalf("чанк %v, позиция %v: %v != %v", pos, p, id, cb.Get(p))
			}
		}
	}
}

func TestNoiseGeneratorTerrain(t *testing.T) {
	m, err := NewMap(context.Background(), MustMapSize(2, 2), NewNoiseGenerator(99, 0.03, 0.07))
	require.NoError(t, err)

	total := 0
	for _, c := range m.Chunks() {
		for p := range c.Solid() {
			_, y, _ := p.XYZ()
			assert.LessOrEqual(t, y, Height-4, "верхние слои всегда пустые")
			total++
		}
	}
	// базовый уровень 32, так что рельеф не может быть пустым
	assert.Greater(t, total, 0)
}
