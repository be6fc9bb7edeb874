package eventbus

import "errors"

// ErrClosed - шина уже закрыта
var ErrClosed = errors.New("event bus closed")

// Типы событий мира
const (
	TypeBlockPlaced     = "block.placed"
	TypeBlockBroken     = "block.broken"
	TypeChunkCleaned    = "chunk.cleaned"
	TypeBodySpawned     = "body.spawned"
	TypeBodyRemoved     = "body.removed"
	TypeSpriteFired     = "sprite.fired"
	TypeSpriteDestroyed = "sprite.destroyed"
)

// BlockChanged - блок поставлен или убран
type BlockChanged struct {
	Position [3]int `json:"position"`
	Block    string `json:"block,omitempty"` // пусто для block.broken
}

// ChunkCleaned - клиент забрал изменения чанка
type ChunkCleaned struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// EntityChanged - тело или спрайт появился либо исчез
type EntityChanged struct {
	ID       string     `json:"id"`
	Position [3]float32 `json:"position"`
	Owner    string     `json:"owner,omitempty"`  // кто выпустил спрайт
	Reason   string     `json:"reason,omitempty"` // почему спрайт исчез
}
