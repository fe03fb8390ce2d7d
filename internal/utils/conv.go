package utils

import (
	"strconv"
	"strings"
)

// StringToInt parses a query or form value, returning 0 when it is not an
// integer.
func StringToInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}
