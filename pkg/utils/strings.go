package utils

import (
	"fmt"
	"strings"
)

// Formats a byte as a fixed width hex string
func FormatByteHex(value uint8) string {
	return fmt.Sprintf("0x%02X", value)
}

// Returns a printable representation of a byte: the character itself if it is
// printable ASCII, its escape sequence otherwise
func FormatByteChar(value uint8) string {
	if value >= 0x20 && value < 0x7F {
		return string(rune(value))
	}
	return strings.Trim(fmt.Sprintf("%q", rune(value)), "'")
}

// Returns an string containing all formatted sequence items separated by a given separator
func FormatSlice[T any](input []T, separator string) string {
	var builder strings.Builder

	for i, value := range input {
		builder.WriteString(fmt.Sprint(value))

		if i < len(input)-1 {
			builder.WriteString(separator)
		}
	}

	return builder.String()
}
