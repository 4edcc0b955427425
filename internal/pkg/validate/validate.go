package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MaxRunes reports whether value fits in n characters.
func MaxRunes(value string, n int) bool {
	return len([]rune(value)) <= n
}
