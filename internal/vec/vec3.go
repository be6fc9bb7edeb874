package vec

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 представляет трехмерный вектор с целочисленными координатами
// (мировые координаты блока)
type Vec3 struct {
	X int
	Y int
	Z int
}

// Axis возвращает координату по оси
func (v Vec3) Axis(a Axis) int {
	switch a {
	case X:
		return v.X
	case Y:
		return v.Y
	default:
		return v.Z
	}
}

// SetAxis устанавливает координату по оси
func (v *Vec3) SetAxis(a Axis, value int) {
	switch a {
	case X:
		v.X = value
	case Y:
		v.Y = value
	default:
		v.Z = value
	}
}

// FromTriple собирает Vec3 из тройки
func FromTriple(t Triple[int]) Vec3 {
	return Vec3{X: t[X], Y: t[Y], Z: t[Z]}
}

// Floor возвращает блок, содержащий точку
func Floor(p mgl32.Vec3) Vec3 {
	return Vec3{
		X: int(math.Floor(float64(p[0]))),
		Y: int(math.Floor(float64(p[1]))),
		Z: int(math.Floor(float64(p[2]))),
	}
}

// Vec3f возвращает координаты угла блока как вектор с плавающей точкой
func (v Vec3) Vec3f() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Offset сдвигает вектор на единицу по каждой оси согласно флагам
func (v Vec3) Offset(dir [3]Trit) Vec3 {
	return Vec3{
		X: v.X + int(dir[X]),
		Y: v.Y + int(dir[Y]),
		Z: v.Z + int(dir[Z]),
	}
}

// DistanceSq возвращает квадрат расстояния до другого вектора
func (v Vec3) DistanceSq(other Vec3) int {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}
