package block

import (
	"fmt"
	"iter"
)

// ID представляет идентификатор типа блока.
// Нулевое значение означает пустую ячейку.
type ID uint8

// Константы ID блоков
const (
	None ID = iota // 0 - пусто
	Green
	Red
	Blue
	Purple
	Yellow
	Aqua

	count
)

// Kind - вид блока
type Kind uint8

const (
	// KindSolid - сплошной блок, участвует в столкновениях
	KindSolid Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Descriptor описывает тип блока. Дескрипторы живут в неизменяемой палитре,
// ячейки чанка хранят только ID.
type Descriptor struct {
	ID    ID
	Name  string
	Kind  Kind
	Color Color
}

// Solid сообщает, является ли блок сплошным
func (d *Descriptor) Solid() bool {
	return d.Kind == KindSolid
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("<%s: <%s %s>>", d.Name, d.Kind, d.Color)
}

// palette индексируется по ID; элемент 0 не используется
var palette = [count]Descriptor{
	Green:  {ID: Green, Name: "green", Kind: KindSolid, Color: ColorGreen},
	Red:    {ID: Red, Name: "red", Kind: KindSolid, Color: ColorRed},
	Blue:   {ID: Blue, Name: "blue", Kind: KindSolid, Color: ColorBlue},
	Purple: {ID: Purple, Name: "purple", Kind: KindSolid, Color: ColorPurple},
	Yellow: {ID: Yellow, Name: "yellow", Kind: KindSolid, Color: ColorYellow},
	Aqua:   {ID: Aqua, Name: "aqua", Kind: KindSolid, Color: ColorAqua},
}

// Get возвращает дескриптор для указанного ID
func Get(id ID) (*Descriptor, bool) {
	if !IsValid(id) {
		return nil, false
	}
	return &palette[id], true
}

// MustGet возвращает дескриптор или паникует для неизвестного ID
func MustGet(id ID) *Descriptor {
	d, ok := Get(id)
	if !ok {
		panic(fmt.Sprintf("block: unknown id %d", id))
	}
	return d
}

// IsValid проверяет, является ли ID допустимым непустым блоком
func IsValid(id ID) bool {
	return id != None && id < count
}

// Palette перечисляет все дескрипторы в порядке ID
func Palette() iter.Seq[*Descriptor] {
	return func(yield func(*Descriptor) bool) {
		for id := None + 1; id < count; id++ {
			if !yield(&palette[id]) {
				return
			}
		}
	}
}

// ByName ищет дескриптор по имени
func ByName(name string) (*Descriptor, bool) {
	for d := range Palette() {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

func (id ID) String() string {
	if d, ok := Get(id); ok {
		return d.Name
	}
	if id == None {
		return "none"
	}
	return fmt.Sprintf("ID(%d)", uint8(id))
}
