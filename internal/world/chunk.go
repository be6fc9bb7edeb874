package world

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/annel0/voxelcore/internal/world/block"
)

// Размеры чанка в блоках
const (
	Width     = 8
	Height    = 64
	ChunkSize = Width * Width * Height
)

// BlockSubPos - позиция блока внутри чанка в виде линейного индекса x + W*(z + W*y)
type BlockSubPos uint16

// NewSubPos проверяет координаты и возвращает позицию внутри чанка
func NewSubPos(x, y, z int) (BlockSubPos, error) {
	if x < 0 || x >= Width || y < 0 || y >= Height || z < 0 || z >= Width {
		return 0, fmt.Errorf("sub position (%d, %d, %d): %w", x, y, z, ErrOutOfRange)
	}
	return subPosUnchecked(x, y, z), nil
}

// MustSubPos как NewSubPos, но паникует при выходе за границы
func MustSubPos(x, y, z int) BlockSubPos {
	p, err := NewSubPos(x, y, z)
	if err != nil {
		panic(err)
	}
	return p
}

func subPosUnchecked(x, y, z int) BlockSubPos {
	return BlockSubPos(x + Width*(z+Width*y))
}

// XYZ возвращает координаты внутри чанка
func (p BlockSubPos) XYZ() (x, y, z int) {
	i := int(p)
	return i % Width, i / Width / Width, i / Width % Width
}

// Index возвращает линейный индекс в массиве чанка
func (p BlockSubPos) Index() int {
	return int(p)
}

// Neighbor возвращает соседнюю позицию; false на границе чанка
func (p BlockSubPos) Neighbor(d Direction) (BlockSubPos, bool) {
	x, y, z := p.XYZ()
	dx, dy, dz := d.Offset()
	x, y, z = x+dx, y+dy, z+dz
	if x < 0 || x >= Width || y < 0 || y >= Height || z < 0 || z >= Width {
		return 0, false
	}
	return subPosUnchecked(x, y, z), true
}

func (p BlockSubPos) String() string {
	x, y, z := p.XYZ()
	return fmt.Sprintf("(%d, %d, %d)", x, y, z)
}

// MaxFaceCount - верхняя оценка числа видимых граней в одном чанке
func MaxFaceCount() int {
	return 3*Width*Width*Height + Width*Width + 2*Width*Height
}

// Chunk хранит столбец блоков Width x Height x Width.
// Ячейка содержит ID из палитры, block.None - пусто.
type Chunk struct {
	mu    sync.RWMutex // Чтения параллельны, запись исключительна
	dirty atomic.Bool  // Чанк изменён с последнего MarkClean
	data  [ChunkSize]block.ID
}

// NewChunk создаёт пустой чанк, помеченный как изменённый
func NewChunk() *Chunk {
	c := &Chunk{}
	c.dirty.Store(true)
	return c
}

// Get возвращает ID блока в позиции
func (c *Chunk) Get(p BlockSubPos) block.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.data[p.Index()]
}

// Block возвращает дескриптор блока; false для пустой ячейки
func (c *Chunk) Block(p BlockSubPos) (*block.Descriptor, bool) {
	return block.Get(c.Get(p))
}

// Set записывает блок и помечает чанк изменённым
func (c *Chunk) Set(p BlockSubPos, id block.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[p.Index()] = id
	c.dirty.Store(true)
}

// Fill заполняет все ячейки результатом f
func (c *Chunk) Fill(f func(BlockSubPos) block.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.data {
		c.data[i] = f(BlockSubPos(i))
	}
	c.dirty.Store(true)
}

// snapshot копирует содержимое под блокировкой чтения, чтобы итераторы
// не держали блокировку, пока вызывающий код работает в теле цикла
func (c *Chunk) snapshot() [ChunkSize]block.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.data
}

// All перечисляет все ячейки чанка, включая пустые
func (c *Chunk) All() iter.Seq2[BlockSubPos, block.ID] {
	return func(yield func(BlockSubPos, block.ID) bool) {
		data := c.snapshot()
		for i, id := range data {
			if !yield(BlockSubPos(i), id) {
				return
			}
		}
	}
}

// Solid перечисляет непустые ячейки с цветом блока
func (c *Chunk) Solid() iter.Seq2[BlockSubPos, block.Color] {
	return func(yield func(BlockSubPos, block.Color) bool) {
		for p, id := range c.All() {
			d, ok := block.Get(id)
			if !ok || !d.Solid() {
				continue
			}
			if !yield(p, d.Color) {
				return
			}
		}
	}
}

// Count возвращает число непустых ячеек
func (c *Chunk) Count() int {
	n := 0
	for range c.Solid() {
		n++
	}
	return n
}

// Dirty сообщает, изменялся ли чанк с последнего MarkClean
func (c *Chunk) Dirty() bool {
	return c.dirty.Load()
}

// MarkClean сбрасывает флаг изменений после того, как потребитель забрал чанк
func (c *Chunk) MarkClean() {
	c.dirty.Store(false)
}
