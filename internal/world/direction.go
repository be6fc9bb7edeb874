package world

// Direction - направление к соседнему блоку
type Direction uint8

const (
	North Direction = iota // Z-
	South                  // Z+
	East                   // X+
	West                   // X-
	Up                     // Y+
	Down                   // Y-
)

// Directions перечисляет все шесть направлений
var Directions = [6]Direction{North, South, East, West, Up, Down}

// Offset возвращает единичное смещение для направления
func (d Direction) Offset() (dx, dy, dz int) {
	switch d {
	case North:
		return 0, 0, -1
	case South:
		return 0, 0, 1
	case East:
		return 1, 0, 0
	case West:
		return -1, 0, 0
	case Up:
		return 0, 1, 0
	default:
		return 0, -1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ChunkNeighbor - направление к соседнему чанку (Y не делится на чанки)
type ChunkNeighbor uint8

const (
	NeighborNorth ChunkNeighbor = iota
	NeighborSouth
	NeighborEast
	NeighborWest
)

// ChunkNeighbors перечисляет соседей в фиксированном порядке
var ChunkNeighbors = [4]ChunkNeighbor{NeighborNorth, NeighborSouth, NeighborEast, NeighborWest}

// Offset возвращает смещение в координатах чанков
func (n ChunkNeighbor) Offset() (dx, dz int) {
	switch n {
	case NeighborNorth:
		return 0, -1
	case NeighborSouth:
		return 0, 1
	case NeighborEast:
		return 1, 0
	default:
		return -1, 0
	}
}

// Direction переводит соседа чанка в направление блока
func (n ChunkNeighbor) Direction() Direction {
	switch n {
	case NeighborNorth:
		return North
	case NeighborSouth:
		return South
	case NeighborEast:
		return East
	default:
		return West
	}
}
