package api

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxelcore/internal/physics"
	"github.com/annel0/voxelcore/internal/vec"
	"github.com/annel0/voxelcore/internal/world"
	"github.com/annel0/voxelcore/internal/world/block"
)

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PlaceRequest - запрос на установку блока
type PlaceRequest struct {
	Block string `json:"block" binding:"required"`
}

// IntentRequest - управляющий ввод тела
type IntentRequest struct {
	Move [2]float32 `json:"move"`
	Turn [2]float32 `json:"turn"`
	Jump bool       `json:"jump"`
}

func (r IntentRequest) intent() physics.Intent {
	return physics.Intent{Move: mgl32.Vec2(r.Move), Turn: mgl32.Vec2(r.Turn), Jump: r.Jump}
}

type BlockView struct {
	Position [3]int `json:"position"`
	Name     string `json:"name"`
	Color    string `json:"color"`
}

func newBlockView(p vec.Vec3, d *block.Descriptor) BlockView {
	return BlockView{Position: [3]int{p.X, p.Y, p.Z}, Name: d.Name, Color: d.Color.String()}
}

type ChunkView struct {
	X     int  `json:"x"`
	Z     int  `json:"z"`
	Dirty bool `json:"dirty"`
	Solid int  `json:"solid"`
}

type WorldView struct {
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Chunks   int        `json:"chunks"`
	Size     [3]int     `json:"size"`
	Palette  []string   `json:"palette"`
	Ticks    uint64     `json:"ticks"`
	MinBound mgl32.Vec3 `json:"min_bound"`
	MaxBound mgl32.Vec3 `json:"max_bound"`
}

type BodyView struct {
	ID       string     `json:"id"`
	Position mgl32.Vec3 `json:"position"`
	Velocity mgl32.Vec3 `json:"velocity"`
	Yaw      float32    `json:"yaw"`
	Pitch    float32    `json:"pitch"`
	Width    float32    `json:"width"`
	Height   float32    `json:"height"`
	Gravity  bool       `json:"gravity"`
	Seeded   bool       `json:"seeded"`
}

func newBodyView(b physics.Body) BodyView {
	return BodyView{
		ID:       b.ID.String(),
		Position: b.Position,
		Velocity: b.Velocity,
		Yaw:      b.Yaw,
		Pitch:    b.Pitch,
		Width:    b.Footprint.Width,
		Height:   b.Footprint.Height,
		Gravity:  b.Gravity,
		Seeded:   b.Seeded(),
	}
}

type SpriteView struct {
	ID       string     `json:"id"`
	Position mgl32.Vec3 `json:"position"`
	Velocity mgl32.Vec3 `json:"velocity"`
	Radius   float32    `json:"radius"`
	Color    string     `json:"color"`
}

func newSpriteView(p physics.Projectile) SpriteView {
	return SpriteView{
		ID:       p.ID.String(),
		Position: p.Position,
		Velocity: p.Velocity,
		Radius:   p.Sprite.Radius,
		Color:    p.Sprite.Color.String(),
	}
}

// PickView - блок под взглядом и ячейка для установки нового блока
type PickView struct {
	Block    BlockView `json:"block"`
	Face     [3]int    `json:"face"`
	Place    [3]int    `json:"place"`
	Distance float32   `json:"distance"`
}

func newPickView(p world.PickedBlock) PickView {
	place := p.PlacePos()
	return PickView{
		Block:    newBlockView(p.Position, p.Block),
		Face:     [3]int{int(p.Direction[vec.X]), int(p.Direction[vec.Y]), int(p.Direction[vec.Z])},
		Place:    [3]int{place.X, place.Y, place.Z},
		Distance: p.Length,
	}
}
