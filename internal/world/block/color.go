package block

import "fmt"

// Color - цвет блока в RGB
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Предопределённые цвета палитры
var (
	ColorGreen  = Color{0, 255, 0}
	ColorRed    = Color{255, 0, 0}
	ColorBlue   = Color{0, 0, 255}
	ColorPurple = Color{255, 0, 255}
	ColorYellow = Color{255, 255, 0}
	ColorAqua   = Color{0, 255, 255}
)

// Float возвращает компоненты цвета в диапазоне 0..1
func (c Color) Float() (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

// String возвращает цвет в виде #rrggbb
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
