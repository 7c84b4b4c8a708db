package calculator

// Keys with an action other than appending their label.
const (
	KeyClear  = "C"
	KeyDelete = "DEL"
	KeyEquals = "="
)

var normalRows = [][]string{
	{KeyClear, KeyDelete, "%", "÷"},
	{"7", "8", "9", "×"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"0", ".", KeyEquals},
}

var scientificRows = [][]string{
	{"sin(", "cos(", "tan(", "√("},
	{"log(", "ln(", "π", "e"},
	{"^", "EXP", "(", ")"},
}

// Rows returns the keypad layout for mode, row by row. Scientific mode offers
// the scientific rows followed by the normal rows. The result is a copy.
func Rows(mode Mode) [][]string {
	var src [][]string
	if mode == Scientific {
		src = append(src, scientificRows...)
	}
	src = append(src, normalRows...)

	rows := make([][]string, len(src))
	for i, row := range src {
		rows[i] = append([]string(nil), row...)
	}
	return rows
}

// Keys returns the keypad labels for mode in layout order.
func Keys(mode Mode) []string {
	var keys []string
	for _, row := range Rows(mode) {
		keys = append(keys, row...)
	}
	return keys
}

// Offers reports whether the keypad for mode has a key labelled label.
func Offers(mode Mode, label string) bool {
	for _, k := range Keys(mode) {
		if k == label {
			return true
		}
	}
	return false
}
