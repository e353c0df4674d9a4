package cache

import (
	"fmt"
	"strings"
)

// GenerateKeyWithParams joins a prefix and its parameters into a
// colon-delimited cache key.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	parts := make([]string, 1, len(params)+1)
	parts[0] = prefix
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%v", p))
	}
	return strings.Join(parts, ":")
}
