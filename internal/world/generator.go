package world

import (
	"fmt"
	"math"

	"github.com/annel0/voxelcore/internal/util"
	"github.com/annel0/voxelcore/internal/world/block"
)

// Generator заполняет карту при создании. Init вызывается один раз до генерации,
// Generate - по одному разу на чанк и может выполняться параллельно.
type Generator interface {
	Init(size MapSize)
	Generate(pos ChunkPos) *Chunk
}

// EmptyGenerator создаёт пустые чанки
type EmptyGenerator struct{}

func (EmptyGenerator) Init(MapSize) {}

func (EmptyGenerator) Generate(ChunkPos) *Chunk {
	return NewChunk()
}

// Layer - несколько одинаковых слоёв по Y, снизу вверх
type Layer struct {
	Block block.ID // block.None - пустые слои
	Count uint8
}

// FlatGenerator заполняет каждый чанк одинаковыми горизонтальными слоями
type FlatGenerator struct {
	column []block.ID
}

// NewFlatGenerator собирает столбец из слоёв. Всего слоёв должно быть меньше 256.
func NewFlatGenerator(layers ...Layer) (*FlatGenerator, error) {
	var column []block.ID
	for _, l := range layers {
		for range l.Count {
			column = append(column, l.Block)
		}
	}
	if len(column) > math.MaxUint8 {
		return nil, fmt.Errorf("flat generator: %d layers: %w", len(column), ErrTooManyLayers)
	}
	return &FlatGenerator{column: column}, nil
}

func (g *FlatGenerator) Init(MapSize) {}

func (g *FlatGenerator) Generate(ChunkPos) *Chunk {
	c := NewChunk()
	c.Fill(func(p BlockSubPos) block.ID {
		_, y, _ := p.XYZ()
		if y < len(g.column) {
			return g.column[y]
		}
		return block.None
	})
	return c
}

// Параметры рельефа
const (
	terrainAmplitude = 64.0
	terrainBase      = 32.0
	// Слои выше этой высоты всегда пустые
	terrainCeiling = Height - 4
)

// colorSelection - цвета, из которых шум выбирает блок
var colorSelection = [...]block.ID{
	block.Green,
	block.Red,
	block.Blue,
	block.Purple,
	block.Yellow,
	block.Aqua,
}

// NoiseGenerator строит рельеф по шуму Перлина: ячейка заполнена,
// если уровень шума выше её Y. Цвет выбирается вторым шумом.
type NoiseGenerator struct {
	Seed       int64
	NoiseScale float64 // Масштаб шума высоты
	ColorScale float64 // Масштаб шума цвета

	height *util.Noise
	color  *util.Noise
}

// NewNoiseGenerator создаёт генератор рельефа
func NewNoiseGenerator(seed int64, noiseScale, colorScale float64) *NoiseGenerator {
	return &NoiseGenerator{
		Seed:       seed,
		NoiseScale: noiseScale,
		ColorScale: colorScale,
	}
}

// Init создаёт источники шума; сиды высоты и цвета независимы
func (g *NoiseGenerator) Init(MapSize) {
	g.height = util.NewNoise(util.DeriveSeed(g.Seed, "height"), g.NoiseScale)
	g.color = util.NewNoise(util.DeriveSeed(g.Seed, "color"), g.ColorScale)
}

func (g *NoiseGenerator) level(x, y, z float64) float64 {
	return g.height.Sample3D(z, y, x)*terrainAmplitude + terrainBase
}

func (g *NoiseGenerator) colorAt(x, y, z float64) block.ID {
	raw := g.color.Sample3D(x, y, z)
	idx := int(math.Floor(math.Max(0, math.Min(raw*6+3, 5.9))))
	return colorSelection[idx]
}

func (g *NoiseGenerator) Generate(pos ChunkPos) *Chunk {
	c := NewChunk()
	c.Fill(func(p BlockSubPos) block.ID {
		wp := pos.WorldPos(p)
		if wp.Y > terrainCeiling {
			return block.None
		}
		x, y, z := float64(wp.X), float64(wp.Y), float64(wp.Z)
		if g.level(x, y, z) > y {
			return g.colorAt(x, y, z)
		}
		return block.None
	})
	return c
}
