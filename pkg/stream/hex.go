package stream

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseHex reads a hex dump such as "90 40 7F", "0x90,0x40,0x7f" or
// "90407f" into bytes.
func ParseHex(s string) ([]byte, error) {
	var sb strings.Builder
	for _, field := range strings.FieldsFunc(s, isSeparator) {
		field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "0X")
		if len(field)%2 == 1 {
			field = "0" + field
		}
		sb.WriteString(field)
	}
	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', ';', ':':
		return true
	}
	return false
}
