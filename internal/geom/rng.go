package geom

import (
	"fmt"
	"math"
)

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// Range - интервал по одной оси. Бесконечные концы задают открытые формы:
// [Start, +inf), (-inf, End] и (-inf, +inf).
type Range struct {
	Start float32
	End   float32
}

// Span возвращает ограниченный интервал [start, end]
func Span(start, end float32) Range {
	return Range{Start: start, End: end}
}

// From возвращает интервал, ограниченный только снизу
func From(start float32) Range {
	return Range{Start: start, End: posInf}
}

// To возвращает интервал, ограниченный только сверху
func To(end float32) Range {
	return Range{Start: negInf, End: end}
}

// Unbounded возвращает интервал без ограничений
func Unbounded() Range {
	return Range{Start: negInf, End: posInf}
}

// Len возвращает длину интервала (может быть отрицательной для пустого)
func (r Range) Len() float32 {
	return r.End - r.Start
}

// BoundedBelow сообщает, ограничен ли интервал снизу
func (r Range) BoundedBelow() bool {
	return !math.IsInf(float64(r.Start), -1)
}

// BoundedAbove сообщает, ограничен ли интервал сверху
func (r Range) BoundedAbove() bool {
	return !math.IsInf(float64(r.End), 1)
}

// Contains проверяет вхождение значения в замкнутый интервал
func (r Range) Contains(v float32) bool {
	return v >= r.Start && v <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%g..%g", r.Start, r.End)
}

func isNaN(v float32) bool {
	return v != v
}

func isInf(v float32) bool {
	return math.IsInf(float64(v), 0)
}

// max32/min32 игнорируют NaN в одном из аргументов
func max32(a, b float32) float32 {
	switch {
	case isNaN(a):
		return b
	case isNaN(b):
		return a
	case a > b:
		return a
	default:
		return b
	}
}

func min32(a, b float32) float32 {
	switch {
	case isNaN(a):
		return b
	case isNaN(b):
		return a
	case a < b:
		return a
	default:
		return b
	}
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

func ceil32(v float32) float32 {
	return float32(math.Ceil(float64(v)))
}

// isGridLine сообщает, лежит ли значение на целочисленной границе вокселя
func isGridLine(v float32) bool {
	return !isInf(v) && v == floor32(v)
}
