package world

import "errors"

var (
	// ErrOutOfRange - координата блока или чанка вне допустимых границ
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrInvalidSize - размер карты вне диапазона 1..255
	ErrInvalidSize = errors.New("invalid map size")
	// ErrTooManyLayers - плоский генератор задаёт больше 255 слоёв
	ErrTooManyLayers = errors.New("too many layers")
)
