package util

import (
	"encoding/binary"

	"github.com/aquilax/go-perlin"
	"github.com/cespare/xxhash/v2"
)

// Параметры шума Перлина
const (
	perlinAlpha   = 2.0 // Сглаживание шума
	perlinBeta    = 2.0 // Частота шума
	perlinOctaves = 3   // Количество октав
)

// Noise - шум Перлина с масштабом входных координат.
// После создания только читается, поэтому безопасен для параллельного использования.
type Noise struct {
	perlin *perlin.Perlin
	scale  float64
}

// NewNoise создаёт генератор шума с указанным сидом и масштабом
func NewNoise(seed int64, scale float64) *Noise {
	return &Noise{
		perlin: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
		scale:  scale,
	}
}

// Sample3D возвращает значение шума в точке (примерно от -1 до 1)
func (n *Noise) Sample3D(x, y, z float64) float64 {
	return n.perlin.Noise3D(x*n.scale, y*n.scale, z*n.scale)
}

// DeriveSeed выводит независимый сид для подсистемы из общего сида мира
func DeriveSeed(seed int64, label string) int64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))

	h := xxhash.New()
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(label)
	return int64(h.Sum64())
}
