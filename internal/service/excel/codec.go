package excel

import (
	"errors"
	"fmt"
)

// ColumnIndexToNotation 把 1 起始的列号转成字母列名（A..Z, AA..）
// 进位规则是 bijective base-26：没有表示 0 的数字，逢 Z 进位前先减一
func ColumnIndexToNotation(column int) string {
	out := ""
	for column > 0 {
		rem := (column - 1) % 26
		out = string(rune('A'+rem)) + out
		column = (column - rem - 1) / 26
	}
	return out
}

// ColumnNotationToIndex 字母列名转回 1 起始的列号，ColumnIndexToNotation 的逆
func ColumnNotationToIndex(notation string) (int, error) {
	if notation == "" {
		return 0, errors.New("empty column notation")
	}
	index := 0
	for _, ch := range notation {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column notation: %q", notation)
		}
		index = index*26 + int(ch-'A') + 1
	}
	return index, nil
}
