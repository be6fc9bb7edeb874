package vec

// Trit - троичный флаг шага по оси: назад, нет шага, вперёд
type Trit int8

const (
	TritNeg  Trit = -1
	TritZero Trit = 0
	TritPos  Trit = 1
)

// TritFromBool возвращает TritPos для true и TritNeg для false
func TritFromBool(v bool) Trit {
	if v {
		return TritPos
	}
	return TritNeg
}

// String возвращает "T", "0" или "1" (сбалансированная троичная запись)
func (t Trit) String() string {
	switch t {
	case TritNeg:
		return "T"
	case TritPos:
		return "1"
	default:
		return "0"
	}
}

// Bool возвращает направление шага; ok == false для TritZero
func (t Trit) Bool() (positive bool, ok bool) {
	switch t {
	case TritNeg:
		return false, true
	case TritPos:
		return true, true
	default:
		return false, false
	}
}
