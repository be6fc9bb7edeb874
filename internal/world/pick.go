package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxelcore/internal/vec"
	"github.com/annel0/voxelcore/internal/world/block"
)

// DefaultPickDistance - дальность выбора блока по умолчанию
const DefaultPickDistance = 8

// PickedBlock - блок, на который указывает луч
type PickedBlock struct {
	Position  vec.Vec3
	Direction [3]vec.Trit // Шаг, которым луч вошёл в блок
	Length    float32
	Block     *block.Descriptor
}

// PlacePos возвращает ячейку перед гранью, через которую луч вошёл в блок
func (p PickedBlock) PlacePos() vec.Vec3 {
	var back [3]vec.Trit
	for _, a := range vec.Axes {
		back[a] = -p.Direction[a]
	}
	return p.Position.Offset(back)
}

// Pick ищет первый занятый блок вдоль луча не дальше maxDistance
func Pick(m *Map, eye, dir mgl32.Vec3, maxDistance float32) (PickedBlock, bool) {
	for r := range NewBlockIter(m.Size(), eye, dir).All() {
		if r.Length > maxDistance {
			break
		}
		d, ok := m.Block(r.Position)
		if !ok {
			continue
		}
		return PickedBlock{
			Position:  r.Position,
			Direction: r.Direction,
			Length:    r.Length,
			Block:     d,
		}, true
	}
	return PickedBlock{}, false
}
