package vec

// Axis задаёт одну из трёх пространственных осей.
// Значение оси совпадает с индексом компоненты в трёхкомпонентном массиве,
// поэтому mgl32.Vec3 и Triple можно индексировать осью напрямую.
type Axis uint8

const (
	X Axis = iota
	Y
	Z
)

// Axes перечисляет оси в фиксированном порядке X, Y, Z
var Axes = [3]Axis{X, Y, Z}

// String возвращает имя оси
func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "Axis(?)"
	}
}

// Rest возвращает две оставшиеся оси в фиксированном порядке
func (a Axis) Rest() [2]Axis {
	switch a {
	case X:
		return [2]Axis{Y, Z}
	case Y:
		return [2]Axis{X, Z}
	default:
		return [2]Axis{X, Y}
	}
}

// AxisAccess описывает любую трёхкомпонентную структуру с доступом по оси.
type AxisAccess[T any] interface {
	Axis(a Axis) T
}

// AxisSetter дополняет AxisAccess записью компоненты.
type AxisSetter[T any] interface {
	AxisAccess[T]
	SetAxis(a Axis, value T)
}

// Triple - универсальный трёхкомпонентный контейнер.
// mgl32.Vec3 приводится к Triple[float32] обычным преобразованием типа.
type Triple[T any] [3]T

// Axis возвращает компоненту по оси
func (t Triple[T]) Axis(a Axis) T {
	return t[a]
}

// SetAxis устанавливает компоненту по оси
func (t *Triple[T]) SetAxis(a Axis, value T) {
	t[a] = value
}

// Generate строит тройку, вызывая f для каждой оси по порядку
func Generate[T any](f func(Axis) T) Triple[T] {
	var out Triple[T]
	for _, a := range Axes {
		out[a] = f(a)
	}
	return out
}

// MapAxis применяет f к каждой компоненте источника
func MapAxis[T, U any](src AxisAccess[T], f func(Axis, T) U) Triple[U] {
	return Generate(func(a Axis) U {
		return f(a, src.Axis(a))
	})
}

// AdjustAxis возвращает копию источника, в которой изменена только одна ось
func AdjustAxis[T any](src AxisAccess[T], axis Axis, f func(T) T) Triple[T] {
	return MapAxis(src, func(a Axis, v T) T {
		if a == axis {
			return f(v)
		}
		return v
	})
}

// SortAxes упорядочивает оси по значениям компонент.
// less(a, b) сообщает, что a должно стоять строго раньше b.
// Сеть сортировки из трёх сравнений: (X,Y), (Y,Z), (X,Y).
// При равенстве пара не меняется, так что ничьи разрешаются порядком X, Y, Z.
func SortAxes[T any](src AxisAccess[T], less func(a, b T) bool) [3]Axis {
	axes := [3]Axis{X, Y, Z}
	vals := [3]T{src.Axis(X), src.Axis(Y), src.Axis(Z)}

	swap := func(i, j int) {
		if less(vals[j], vals[i]) {
			vals[i], vals[j] = vals[j], vals[i]
			axes[i], axes[j] = axes[j], axes[i]
		}
	}
	swap(0, 1)
	swap(1, 2)
	swap(0, 1)
	return axes
}
